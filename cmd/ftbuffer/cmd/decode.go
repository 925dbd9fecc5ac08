package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/ssargent/ftbuffer/pkg/api"
	"github.com/ssargent/ftbuffer/pkg/header"
	"github.com/ssargent/ftbuffer/pkg/store"
)

// scanOptions bounds a pass over a capture file
type scanOptions struct {
	Offset int64
	Limit  int // 0 = every record
}

// scanCapture reads header records from path until the end of the file, the
// limit, or a framing error. Records that are framed correctly but fail to
// decode are reported with a nil header and scanning continues.
func scanCapture(rt *runtime, path string, opts scanOptions) ([]decodedRecord, []*header.Header, error) {
	order, err := rt.config.Decoder.ByteOrder()
	if err != nil {
		return nil, nil, err
	}

	reader, err := store.NewRecordReader(store.RecordReaderConfig{
		FilePath:      path,
		ByteOrder:     order,
		MaxRecordSize: rt.config.Decoder.MaxRecordSize,
		MaxChannels:   rt.config.Decoder.MaxChannels,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open capture file: %w", err)
	}
	defer reader.Close()

	if opts.Offset > 0 {
		if err := reader.Seek(opts.Offset); err != nil {
			return nil, nil, fmt.Errorf("seek to offset %d: %w", opts.Offset, err)
		}
	}

	var (
		records []decodedRecord
		headers []*header.Header
	)
	for opts.Limit == 0 || len(records) < opts.Limit {
		start := reader.Offset()
		rec, err := reader.ReadNext()
		if err == io.EOF {
			break
		}

		var derr *header.DecodeError
		switch {
		case err == nil:
			records = append(records, decodedRecord{
				Offset: rec.Offset,
				Size:   rec.Size(),
				Header: api.NewHeaderResponse(rec.Header),
			})
			headers = append(headers, rec.Header)
		case errors.As(err, &derr):
			rt.logger.WithFields(logrus.Fields{
				"offset": start,
				"kind":   derr.Kind.String(),
			}).Warn("skipping undecodable header record")
			records = append(records, decodedRecord{
				Offset: start,
				Size:   int(reader.Offset() - start),
				Error:  err.Error(),
			})
			headers = append(headers, nil)
		default:
			return records, headers, fmt.Errorf("read at offset %d: %w", start, err)
		}
	}

	rt.logger.WithFields(logrus.Fields{
		"file":    path,
		"records": len(records),
	}).Debug("capture scanned")
	return records, headers, nil
}

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode <file>",
	Short: "Decode the header records of a capture file",
	Long: `Decode every header record in a capture file and print the channel count,
sample and event counts, sample rate, data type and channel labels.

A capture file holds raw header records back to back, as sent by the buffer
server. Records that fail to decode are reported and skipped.

Examples:
  ftbuffer decode session.hdr
  ftbuffer decode session.hdr --offset 1024 --limit 1 --output json
  ftbuffer decode session.hdr --byte-order big`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := runtimeFrom(cmd)
		if err != nil {
			return err
		}

		offset, _ := cmd.Flags().GetInt64("offset")
		limit, _ := cmd.Flags().GetInt("limit")
		output, _ := cmd.Flags().GetString("output")
		if offset < 0 || limit < 0 {
			return fmt.Errorf("--offset and --limit must not be negative")
		}
		if output != "table" && output != "json" {
			return fmt.Errorf("unsupported output format %q", output)
		}

		records, headers, scanErr := scanCapture(rt, args[0], scanOptions{Offset: offset, Limit: limit})

		switch output {
		case "json":
			if err := outputJSON(cmd.OutOrStdout(), records); err != nil {
				return err
			}
		default:
			if err := outputRecordsTable(cmd.OutOrStdout(), records, headers); err != nil {
				return err
			}
		}
		return scanErr
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().Int64("offset", 0, "Byte offset of the first record to decode")
	decodeCmd.Flags().Int("limit", 0, "Maximum number of records to decode (0 = all)")
	decodeCmd.Flags().StringP("output", "o", "table", "Output format (table or json)")
}
