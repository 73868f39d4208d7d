package transaction

type Totals struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
}

// ComputeTotals sums amounts by type over items. It keeps no state between
// calls; records with any other type count toward neither side.
func ComputeTotals(items []Transaction) Totals {
	var totals Totals
	for _, t := range items {
		switch t.Type {
		case TypeIncome:
			totals.Income += t.Amount
		case TypeExpense:
			totals.Expense += t.Amount
		}
	}
	totals.Net = totals.Income - totals.Expense
	return totals
}
