package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/crediax/crediax/internal/ledger"
)

func newHistoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history <customer-id>",
		Short: "Show a customer's transactions in date order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := loadSnapshot(cmd)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tCONCEPT\tAMOUNT\tBALANCE\tTYPE")
			for _, tx := range ledger.HistoryOf(l, args[0]) {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					tx.Date, tx.Concept, tx.Amount.StringFixed(2), tx.Balance.StringFixed(2), tx.MovementType)
			}
			return w.Flush()
		},
	}
}
