package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/segmentio/ksuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/ssargent/ftbuffer/pkg/api"
	"github.com/ssargent/ftbuffer/pkg/header"
	"github.com/ssargent/ftbuffer/pkg/storage"
	"github.com/ssargent/ftbuffer/pkg/store"
)

// archiveCmd groups the header archive subcommands
var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Manage the local header archive",
	Long: `Store, inspect and remove raw header records in the local archive.

The archive lives in <data-dir>/archive. Every record is decoded before it is
stored and gets a sortable id.`,
}

// archiveCapture stores every decodable record of a capture file and returns
// the new ids. Undecodable records are logged and skipped.
func archiveCapture(rt *runtime, archive *storage.Archive, path string) ([]ksuid.KSUID, error) {
	order, err := rt.config.Decoder.ByteOrder()
	if err != nil {
		return nil, err
	}
	reader, err := store.NewRecordReader(store.RecordReaderConfig{
		FilePath:      path,
		ByteOrder:     order,
		MaxRecordSize: rt.config.Decoder.MaxRecordSize,
		MaxChannels:   rt.config.Decoder.MaxChannels,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open capture file: %w", err)
	}
	defer reader.Close()

	var ids []ksuid.KSUID
	for {
		start := reader.Offset()
		rec, err := reader.ReadNext()
		if err == io.EOF {
			return ids, nil
		}
		var derr *header.DecodeError
		if errors.As(err, &derr) {
			rt.logger.WithFields(logrus.Fields{
				"offset": start,
				"kind":   derr.Kind.String(),
			}).Warn("skipping undecodable header record")
			continue
		}
		if err != nil {
			return ids, fmt.Errorf("read at offset %d: %w", start, err)
		}

		id, _, err := archive.Put(rec.Raw)
		if err != nil {
			return ids, fmt.Errorf("archive record at offset %d: %w", rec.Offset, err)
		}
		rt.logger.WithFields(logrus.Fields{
			"id":       id.String(),
			"offset":   rec.Offset,
			"channels": rec.Header.Channels,
		}).Debug("header archived")
		ids = append(ids, id)
	}
}

// archiveRecordAt stores the single record that starts at offset in a
// capture file
func archiveRecordAt(rt *runtime, archive *storage.Archive, path string, offset int64) (ksuid.KSUID, error) {
	order, err := rt.config.Decoder.ByteOrder()
	if err != nil {
		return ksuid.Nil, err
	}
	reader, err := store.NewRecordReader(store.RecordReaderConfig{
		FilePath:      path,
		ByteOrder:     order,
		MaxRecordSize: rt.config.Decoder.MaxRecordSize,
		MaxChannels:   rt.config.Decoder.MaxChannels,
	})
	if err != nil {
		return ksuid.Nil, fmt.Errorf("failed to open capture file: %w", err)
	}
	defer reader.Close()

	rec, err := reader.ReadAt(offset)
	if err == io.EOF {
		return ksuid.Nil, fmt.Errorf("no header record at offset %d", offset)
	}
	if err != nil {
		return ksuid.Nil, err
	}

	id, _, err := archive.Put(rec.Raw)
	if err != nil {
		return ksuid.Nil, fmt.Errorf("archive record at offset %d: %w", offset, err)
	}
	return id, nil
}

var archivePutCmd = &cobra.Command{
	Use:   "put <file>",
	Short: "Archive the header records of a capture file",
	Long: `Archive every header record of a capture file, or only the record that
starts at --offset.

Examples:
  ftbuffer archive put session.hdr
  ftbuffer archive put session.hdr --offset 1024`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := runtimeFrom(cmd)
		if err != nil {
			return err
		}
		archive, err := openArchive(rt)
		if err != nil {
			return err
		}
		defer archive.Close()

		if cmd.Flags().Changed("offset") {
			offset, _ := cmd.Flags().GetInt64("offset")
			if offset < 0 {
				return fmt.Errorf("--offset must not be negative")
			}
			id, err := archiveRecordAt(rt, archive, args[0], offset)
			if err != nil {
				return err
			}
			cmd.Println(id.String())
			return nil
		}

		ids, err := archiveCapture(rt, archive, args[0])
		for _, id := range ids {
			cmd.Println(id.String())
		}
		return err
	},
}

var archiveGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show an archived header",
	Long: `Show an archived header, or write its raw record bytes with --raw.

Examples:
  ftbuffer archive get 2Bf5Ay3hWaQXQ3aEDSpZ6lGm0Xy
  ftbuffer archive get 2Bf5Ay3hWaQXQ3aEDSpZ6lGm0Xy --raw > record.hdr`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := runtimeFrom(cmd)
		if err != nil {
			return err
		}
		id, err := ksuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid header id %q: %w", args[0], err)
		}
		raw, _ := cmd.Flags().GetBool("raw")
		output, _ := cmd.Flags().GetString("output")

		archive, err := openArchive(rt)
		if err != nil {
			return err
		}
		defer archive.Close()

		if raw {
			data, err := archive.Get(id)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}

		h, err := archive.Load(id)
		if err != nil {
			return err
		}
		if output == "json" {
			return outputJSON(cmd.OutOrStdout(), api.ArchivedHeaderResponse{
				ID:     id.String(),
				Header: api.NewHeaderResponse(h),
			})
		}
		return outputHeaderTable(cmd.OutOrStdout(), id.String(), h)
	},
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived headers in creation order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := runtimeFrom(cmd)
		if err != nil {
			return err
		}
		archive, err := openArchive(rt)
		if err != nil {
			return err
		}
		defer archive.Close()

		ids, err := archive.List()
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			cmd.Println("No archived headers")
			return nil
		}

		table := newTable(cmd.OutOrStdout(), "ID", "CREATED", "CHANNELS", "RATE", "TYPE")
		for _, id := range ids {
			h, err := archive.Load(id)
			if err != nil {
				return err
			}
			table.Append([]string{
				id.String(),
				id.Time().UTC().Format("2006-01-02 15:04:05"),
				strconv.Itoa(h.Channels),
				strconv.FormatFloat(float64(h.SampleRate), 'g', -1, 32),
				h.DataType.String(),
			})
		}
		table.Render()
		return nil
	},
}

var archiveDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove an archived header",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := runtimeFrom(cmd)
		if err != nil {
			return err
		}
		id, err := ksuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid header id %q: %w", args[0], err)
		}
		archive, err := openArchive(rt)
		if err != nil {
			return err
		}
		defer archive.Close()

		if err := archive.Delete(id); err != nil {
			return err
		}
		cmd.Printf("Deleted %s\n", id)
		return nil
	},
}

// exportArchive appends the raw records for ids (every archived record when
// ids is empty) to the capture file at path and returns how many were written
func exportArchive(rt *runtime, archive *storage.Archive, path string, ids []ksuid.KSUID) (int, error) {
	if len(ids) == 0 {
		var err error
		if ids, err = archive.List(); err != nil {
			return 0, err
		}
	}

	order, err := rt.config.Decoder.ByteOrder()
	if err != nil {
		return 0, err
	}
	writer, err := store.NewRecordWriter(store.RecordWriterConfig{
		FilePath:  path,
		ByteOrder: order,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to open capture file: %w", err)
	}

	written := 0
	for _, id := range ids {
		raw, err := archive.Get(id)
		if err != nil {
			writer.Close()
			return written, fmt.Errorf("export %s: %w", id, err)
		}
		offset, err := writer.Append(raw)
		if err != nil {
			writer.Close()
			return written, fmt.Errorf("export %s: %w", id, err)
		}
		rt.logger.WithFields(logrus.Fields{"id": id.String(), "offset": offset}).Debug("header exported")
		written++
	}
	return written, writer.Close()
}

var archiveExportCmd = &cobra.Command{
	Use:   "export <file> [id...]",
	Short: "Append archived header records to a capture file",
	Long: `Append the raw records of archived headers to a capture file that
'ftbuffer decode' and 'ftbuffer archive put' can read back. Without ids every
archived header is exported in creation order.

Examples:
  ftbuffer archive export backup.hdr
  ftbuffer archive export one.hdr 2Bf5Ay3hWaQXQ3aEDSpZ6lGm0Xy`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := runtimeFrom(cmd)
		if err != nil {
			return err
		}
		var ids []ksuid.KSUID
		for _, arg := range args[1:] {
			id, err := ksuid.Parse(arg)
			if err != nil {
				return fmt.Errorf("invalid header id %q: %w", arg, err)
			}
			ids = append(ids, id)
		}

		archive, err := openArchive(rt)
		if err != nil {
			return err
		}
		defer archive.Close()

		n, err := exportArchive(rt, archive, args[0], ids)
		if err != nil {
			return err
		}
		cmd.Printf("Exported %d header records to %s\n", n, args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(archiveCmd)
	archiveCmd.AddCommand(archivePutCmd, archiveGetCmd, archiveListCmd, archiveDeleteCmd, archiveExportCmd)

	archivePutCmd.Flags().Int64("offset", 0, "Archive only the record starting at this byte offset")
	archiveGetCmd.Flags().Bool("raw", false, "Write the raw record bytes instead of the decoded header")
	archiveGetCmd.Flags().StringP("output", "o", "table", "Output format (table or json)")
}
