package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/frahmantamala/finance-tracker/internal/transaction"
	"github.com/frahmantamala/finance-tracker/internal/view"
	"github.com/spf13/cobra"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "Manage transactions",
		Long:    `List, add, update, and delete income and expense transactions.`,
	}

	cmd.AddCommand(listTransactionsCmd())
	cmd.AddCommand(addTransactionCmd())
	cmd.AddCommand(updateTransactionCmd())
	cmd.AddCommand(deleteTransactionCmd())

	return cmd
}

func listTransactionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List transactions with running totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()

			st, _, err := openState()
			if err != nil {
				return err
			}

			if err := st.RefreshAll(ctx); err != nil {
				return fmt.Errorf("failed to refresh: %w", err)
			}

			printTransactionRows(view.BuildRows(st.Categories.Items(), st.Transactions.Items(), time.Local))
			fmt.Println()
			printTotals(st.Transactions.Totals())
			return nil
		},
	}
}

func addTransactionCmd() *cobra.Command {
	var (
		txType     string
		categoryID string
	)

	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Record a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := commandContext()
			defer cancel()

			st, _, err := openState()
			if err != nil {
				return err
			}

			created, err := st.Transactions.Add(ctx, transaction.Type(txType), amount, categoryID)
			if err != nil {
				return fmt.Errorf("failed to add transaction: %w", err)
			}

			fmt.Println(successStyle.Render(fmt.Sprintf("Recorded %s of %s with id %s", created.Type, formatAmount(created.Amount), created.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&txType, "type", "t", string(transaction.TypeExpense), "transaction type (income or expense)")
	cmd.Flags().StringVarP(&categoryID, "category", "c", "", "category id")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func updateTransactionCmd() *cobra.Command {
	var (
		txType     string
		categoryID string
		amountArg  string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a transaction",
		Long:  `Edit a transaction. Fields not given keep their current values, including the creation time.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()

			st, _, err := openState()
			if err != nil {
				return err
			}

			if _, err := st.Transactions.Refresh(ctx); err != nil {
				return fmt.Errorf("failed to get transactions: %w", err)
			}
			current, ok := st.Transactions.Find(args[0])
			if !ok {
				return fmt.Errorf("transaction %s not found", args[0])
			}

			amount := current.Amount
			if cmd.Flags().Changed("amount") {
				if amount, err = parseAmount(amountArg); err != nil {
					return err
				}
			}
			if !cmd.Flags().Changed("type") {
				txType = string(current.Type)
			}
			if !cmd.Flags().Changed("category") {
				categoryID = current.CategoryID
			}

			updated, err := st.Transactions.Update(ctx, current.ID, transaction.Type(txType), amount, categoryID, current.CreatedAt)
			if err != nil {
				return fmt.Errorf("failed to update transaction: %w", err)
			}

			fmt.Println(successStyle.Render(fmt.Sprintf("Updated transaction %s", updated.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&txType, "type", "t", "", "transaction type (income or expense)")
	cmd.Flags().StringVarP(&categoryID, "category", "c", "", "category id")
	cmd.Flags().StringVarP(&amountArg, "amount", "a", "", "amount")
	return cmd
}

func deleteTransactionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()

			st, _, err := openState()
			if err != nil {
				return err
			}

			id, err := st.Transactions.Remove(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to delete transaction: %w", err)
			}

			fmt.Println(successStyle.Render(fmt.Sprintf("Deleted transaction %s", id)))
			return nil
		},
	}
}

func parseAmount(value string) (float64, error) {
	amount, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	return amount, nil
}
