package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crediax/crediax/internal/config"
	"github.com/crediax/crediax/internal/logger"
)

func newImportCommand() *cobra.Command {
	var sheetName string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a workbook and write the ledger snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if sheetName != "" {
				cfg.Import.SheetName = sheetName
			}
			if !cfg.Storage.Snapshot {
				return fmt.Errorf("storage.snapshot is disabled, nothing to write")
			}
			return runImport(cmd, cfg, args[0], verbose)
		},
	}

	cmd.Flags().StringVar(&sheetName, "sheet", "", "override import.sheet_name")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log import details to stderr")

	return cmd
}

func runImport(cmd *cobra.Command, cfg *config.Config, path string, verbose bool) error {
	ctx := cmd.Context()
	if verbose {
		log, err := logger.NewWithWriter(os.Stderr, cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return err
		}
		ctx = logger.WithContext(ctx, log)
	}

	if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	l, err := newImporter(cfg).Import(ctx, path, f)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Imported %s (sheet %s)\n", l.Source, l.Sheet)
	fmt.Fprintf(out, "  import id:    %s\n", l.ImportID)
	fmt.Fprintf(out, "  rows:         %d\n", l.Report.TotalRows)
	fmt.Fprintf(out, "  customers:    %d\n", len(l.Customers))
	fmt.Fprintf(out, "  transactions: %d\n", l.TransactionCount())
	fmt.Fprintf(out, "  skipped:      %d\n", l.Report.Skipped())
	if l.Report.Overwritten > 0 {
		fmt.Fprintf(out, "  overwritten:  %d\n", l.Report.Overwritten)
	}
	return nil
}
