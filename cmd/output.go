package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/frahmantamala/finance-tracker/internal/state"
	"github.com/frahmantamala/finance-tracker/internal/transaction"
	"github.com/frahmantamala/finance-tracker/internal/view"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	incomeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	expenseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// openState loads config and builds the stores without an event bus.
func openState() (*state.State, *slog.Logger, error) {
	cfg, lg, err := bootstrap()
	if err != nil {
		return nil, nil, err
	}
	st := newState(cfg, lg, nil)
	return st, lg, nil
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Minute)
}

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

func writeHeader(w io.Writer, columns ...string) {
	rendered := make([]string, len(columns))
	rules := make([]string, len(columns))
	for i, c := range columns {
		rendered[i] = headerStyle.Render(c)
		rules[i] = strings.Repeat("-", max(len(c), 8))
	}
	fmt.Fprintln(w, strings.Join(rendered, "\t"))
	fmt.Fprintln(w, strings.Join(rules, "\t"))
}

func printTransactionRows(rows []view.TransactionRow) {
	if len(rows) == 0 {
		fmt.Println(mutedStyle.Render("No transactions yet. Use 'finance-tracker transactions add' to record one."))
		return
	}

	w := newTable(os.Stdout)
	defer w.Flush()

	writeHeader(w, "ID", "Type", "Category", "Amount", "Created")
	for _, row := range rows {
		style := expenseStyle
		if row.Type == strings.ToUpper(string(transaction.TypeIncome)) {
			style = incomeStyle
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			row.ID,
			style.Render(row.Type),
			row.Category,
			formatAmount(row.Amount),
			row.CreatedAtDisplay)
	}
}

func printTotals(totals transaction.Totals) {
	w := newTable(os.Stdout)
	defer w.Flush()

	fmt.Fprintf(w, "%s\t%s\n", headerStyle.Render("Income"), incomeStyle.Render(formatAmount(totals.Income)))
	fmt.Fprintf(w, "%s\t%s\n", headerStyle.Render("Expense"), expenseStyle.Render(formatAmount(totals.Expense)))
	fmt.Fprintf(w, "%s\t%s\n", headerStyle.Render("Net"), formatAmount(totals.Net))
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
