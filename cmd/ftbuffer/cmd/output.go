package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/ssargent/ftbuffer/pkg/api"
	"github.com/ssargent/ftbuffer/pkg/header"
)

const absentLabel = "-"

// decodedRecord is one row of decode output
type decodedRecord struct {
	Offset int64               `json:"offset"`
	Size   int                 `json:"size"`
	Header *api.HeaderResponse `json:"header,omitempty"`
	Error  string              `json:"error,omitempty"`
}

func newTable(w io.Writer, headers ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(headers)

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	return table
}

// formatLabels joins channel labels, marking absent ones
func formatLabels(h *header.Header, max int) string {
	parts := make([]string, 0, len(h.Labels))
	for i := range h.Labels {
		if max > 0 && i == max {
			parts = append(parts, fmt.Sprintf("... (+%d)", len(h.Labels)-max))
			break
		}
		if name, ok := h.Label(i); ok {
			parts = append(parts, name)
		} else {
			parts = append(parts, absentLabel)
		}
	}
	return strings.Join(parts, ",")
}

func outputRecordsTable(w io.Writer, records []decodedRecord, headers []*header.Header) error {
	if len(records) == 0 {
		fmt.Fprintln(w, "No header records found")
		return nil
	}

	table := newTable(w, "OFFSET", "SIZE", "CHANNELS", "SAMPLES", "EVENTS", "RATE", "TYPE", "LABELS")
	for i, rec := range records {
		h := headers[i]
		if h == nil {
			table.Append([]string{
				strconv.FormatInt(rec.Offset, 10), strconv.Itoa(rec.Size),
				"", "", "", "", "", "error: " + rec.Error,
			})
			continue
		}
		table.Append([]string{
			strconv.FormatInt(rec.Offset, 10),
			strconv.Itoa(rec.Size),
			strconv.Itoa(h.Channels),
			strconv.Itoa(h.Samples),
			strconv.Itoa(h.Events),
			strconv.FormatFloat(float64(h.SampleRate), 'g', -1, 32),
			h.DataType.String(),
			formatLabels(h, 16),
		})
	}
	table.Render()
	return nil
}

func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHeaderTable prints a single header with one row per channel
func outputHeaderTable(w io.Writer, id string, h *header.Header) error {
	fmt.Fprintf(w, "ID:          %s\n", id)
	fmt.Fprintf(w, "Channels:    %d\n", h.Channels)
	fmt.Fprintf(w, "Samples:     %d\n", h.Samples)
	fmt.Fprintf(w, "Events:      %d\n", h.Events)
	fmt.Fprintf(w, "Sample rate: %g Hz\n", h.SampleRate)
	fmt.Fprintf(w, "Data type:   %s\n", h.DataType)

	if h.Channels == 0 {
		return nil
	}
	fmt.Fprintln(w)

	table := newTable(w, "CHANNEL", "LABEL")
	for i := 0; i < h.Channels; i++ {
		label := absentLabel
		if name, ok := h.Label(i); ok {
			label = name
		}
		table.Append([]string{strconv.Itoa(i), label})
	}
	table.Render()
	return nil
}
