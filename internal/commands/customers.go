package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/crediax/crediax/internal/ledger"
	"github.com/crediax/crediax/internal/model"
)

func newCustomersCommand() *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "customers",
		Short: "List customers from the last import",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := loadSnapshot(cmd)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tAGENT\tBALANCE")
			for _, c := range ledger.ListCustomers(l, query) {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Agent, c.CurrentBalance.StringFixed(2))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "filter by name or id")

	return cmd
}

func loadSnapshot(cmd *cobra.Command) (*model.Ledger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	path := cfg.SnapshotPath()
	if path == "" {
		return nil, fmt.Errorf("storage.snapshot is disabled")
	}
	l, err := ledger.LoadSnapshot(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return l, nil
}
