package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/sqluploader/internal/core"
	"github.com/JonMunkholm/sqluploader/internal/tabular"
)

func newLoadCommand(a *app) *cobra.Command {
	var table string

	cmd := &cobra.Command{
		Use:   "load FILE...",
		Short: "Load files into tables named after them",
		Long: `Load one or more .csv, .xlsx or .xls files. Files are processed in order and a
failing file does not stop the rest; one result line is printed per file.`,
		Example: `  # Load two exports into "people" and "sales"
  sqlupload load People.csv sales.xlsx -d analytics

  # Load a file into an explicit table
  sqlupload load export.csv --table monthly_sales`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if table != "" && len(args) > 1 {
				return fmt.Errorf("--table needs exactly one file, got %d", len(args))
			}

			files := make([]core.UploadFile, len(args))
			for i, path := range args {
				files[i] = core.UploadFile{
					Name:  filepath.Base(path),
					Open:  func() (io.ReadCloser, error) { return os.Open(path) },
					Table: table,
				}
			}

			processor := core.NewBatchProcessor(
				core.NewLoader(a.connect, a.logger),
				tabular.Reader{},
				core.BatchOptions{Logger: a.logger},
			)
			outcomes := processor.Process(cmd.Context(), a.conn, files)

			failed := 0
			for _, o := range outcomes {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), o.Line())
				if !o.OK() {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(outcomes))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&table, "table", "", "target table (single file only)")
	return cmd
}
