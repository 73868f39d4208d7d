package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print income, expense and net totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		st, _, err := openState()
		if err != nil {
			return err
		}

		items, err := st.Transactions.Refresh(ctx)
		if err != nil {
			return fmt.Errorf("failed to get transactions: %w", err)
		}

		fmt.Println(mutedStyle.Render(fmt.Sprintf("%d transactions", len(items))))
		printTotals(st.Transactions.Totals())
		return nil
	},
}
