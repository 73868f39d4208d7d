package transaction_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/finance-tracker/internal/transaction"
)

var _ = Describe("ComputeTotals", func() {
	It("should treat an empty collection as all zero", func() {
		Expect(transaction.ComputeTotals(nil)).To(Equal(transaction.Totals{}))
		Expect(transaction.ComputeTotals([]transaction.Transaction{})).To(Equal(transaction.Totals{}))
	})

	It("should total the salary and rent scenario", func() {
		items := []transaction.Transaction{
			{ID: "t1", CategoryID: "c1", Type: transaction.TypeIncome, Amount: 1000},
			{ID: "t2", CategoryID: "c2", Type: transaction.TypeExpense, Amount: 300},
		}
		Expect(transaction.ComputeTotals(items)).To(Equal(transaction.Totals{Income: 1000, Expense: 300, Net: 700}))
	})

	It("should allow a negative net", func() {
		items := []transaction.Transaction{
			{Type: transaction.TypeIncome, Amount: 50},
			{Type: transaction.TypeExpense, Amount: 80.5},
		}
		Expect(transaction.ComputeTotals(items).Net).To(Equal(-30.5))
	})

	It("should count zero amounts without effect", func() {
		items := []transaction.Transaction{
			{Type: transaction.TypeIncome, Amount: 0},
			{Type: transaction.TypeExpense, Amount: 0},
		}
		Expect(transaction.ComputeTotals(items)).To(Equal(transaction.Totals{}))
	})

	It("should ignore records of any other type", func() {
		items := []transaction.Transaction{
			{Type: transaction.TypeIncome, Amount: 10},
			{Type: transaction.Type("transfer"), Amount: 99},
		}
		Expect(transaction.ComputeTotals(items)).To(Equal(transaction.Totals{Income: 10, Net: 10}))
	})

	It("should not depend on previous calls", func() {
		items := []transaction.Transaction{{Type: transaction.TypeIncome, Amount: 5}}
		first := transaction.ComputeTotals(items)
		second := transaction.ComputeTotals(items)
		Expect(second).To(Equal(first))
	})
})
