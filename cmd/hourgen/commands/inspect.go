package commands

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/teranos/hourgen/errors"
	"github.com/teranos/hourgen/parquetio"
	"github.com/teranos/hourgen/record"
	"github.com/teranos/hourgen/storage"
)

type inspectOutput struct {
	parquetio.FileInfo
	Records []record.Record `json:"records,omitempty"`
}

func newInspectCmd(state *runState) *cobra.Command {
	var (
		showRows bool
		format   string
	)

	cmd := &cobra.Command{
		Use:   "inspect <path>",
		Short: "Show the footer and optionally the rows of a generated file",
		Long: `Read a generated Parquet file and print its row count, codec, columns and
key/value metadata. Accepts the same path forms as --path.

Examples:
  hourgen inspect /tmp/year=2024/month=3/day=15/hour=7/AbCdEfGhIj.parquet
  hourgen inspect s3://bucket/data/year=2024/month=3/day=15/hour=7/AbCdEfGhIj.parquet --rows --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" {
				err := errors.Newf("unsupported format: %s", format)
				return errors.Mark(errors.WithHint(err, "supported: text, json"), errors.ErrInvalidInput)
			}

			opener := storage.NewOpener(state.cfg.StorageConfig())
			defer opener.Close()

			data, err := opener.ReadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := inspectOutput{}
			if out.FileInfo, err = parquetio.Inspect(data); err != nil {
				return err
			}
			if showRows {
				if out.Records, err = parquetio.ReadRecords(data); err != nil {
					return err
				}
			}

			w := cmd.OutOrStdout()
			if format == "json" {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			fmt.Fprintf(w, "Path:       %s\n", args[0])
			fmt.Fprintf(w, "Rows:       %d\n", out.Rows)
			fmt.Fprintf(w, "Row groups: %d\n", out.RowGroups)
			fmt.Fprintf(w, "Codec:      %s\n", out.Codec)
			fmt.Fprintf(w, "Columns:    %v\n", out.Columns)
			fmt.Fprintf(w, "Created by: %s\n", out.CreatedBy)

			keys := make([]string, 0, len(out.Metadata))
			for k := range out.Metadata {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(w, "  %s = %s\n", k, out.Metadata[k])
			}

			for _, r := range out.Records {
				fmt.Fprintf(w, "%d\t%s\t%s\n", r.ID, r.Name, r.FDatetime)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showRows, "rows", false, "Print every record")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json")
	return cmd
}
