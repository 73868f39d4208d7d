package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/frahmantamala/finance-tracker/internal/category"
	"github.com/frahmantamala/finance-tracker/internal/state"
	"github.com/frahmantamala/finance-tracker/internal/transaction"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the remote store with sample data",
	Long:  `Seed the remote store with sample categories and transactions for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := commandContext()
		defer cancel()

		st, _, err := openState()
		if err != nil {
			log.Fatalf("failed to init state: %v", err)
		}

		if clearData {
			if err := clearCollections(ctx, st); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Cleared existing categories and transactions")
		} else if err := st.RefreshAll(ctx); err != nil {
			log.Fatalf("failed to read existing data: %v", err)
		}

		seedCategories := []struct {
			Name string
			Type category.CategoryType
		}{
			{"Salary", category.TypeIncome},
			{"Rent", category.TypeExpense},
			{"Groceries", category.TypeExpense},
		}

		ids := make(map[string]string, len(seedCategories))
		for _, c := range st.Categories.Items() {
			ids[c.Name] = c.ID
		}

		for _, c := range seedCategories {
			if _, exists := ids[c.Name]; exists {
				fmt.Println("category already exists:", c.Name)
				continue
			}
			created, err := st.Categories.Add(ctx, c.Name, c.Type)
			if err != nil {
				log.Fatalf("failed to insert category %s: %v", c.Name, err)
			}
			ids[c.Name] = created.ID
			fmt.Println("Seeded category:", c.Name)
		}

		if len(st.Transactions.Items()) > 0 {
			fmt.Println("transactions already exist; skipping")
			return
		}

		seedTransactions := []struct {
			Type     transaction.Type
			Amount   float64
			Category string
		}{
			{transaction.TypeIncome, 1000, "Salary"},
			{transaction.TypeExpense, 300, "Rent"},
			{transaction.TypeExpense, 45.5, "Groceries"},
		}

		for _, t := range seedTransactions {
			if _, err := st.Transactions.Add(ctx, t.Type, t.Amount, ids[t.Category]); err != nil {
				log.Fatalf("failed to insert transaction %s %v: %v", t.Category, t.Amount, err)
			}
		}

		totals := st.Transactions.Totals()
		fmt.Printf("Seeded %d transactions (income %s, expense %s)\n",
			len(seedTransactions), formatAmount(totals.Income), formatAmount(totals.Expense))
	},
}

func clearCollections(ctx context.Context, st *state.State) error {
	if err := st.RefreshAll(ctx); err != nil {
		return err
	}
	for _, t := range st.Transactions.Items() {
		if _, err := st.Transactions.Remove(ctx, t.ID); err != nil {
			return err
		}
	}
	for _, c := range st.Categories.Items() {
		if _, err := st.Categories.Remove(ctx, c.ID); err != nil {
			return err
		}
	}
	return nil
}
