package transaction_test

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/core/events"
	"github.com/frahmantamala/finance-tracker/internal/remote"
	"github.com/frahmantamala/finance-tracker/internal/remote/remotetest"
	"github.com/frahmantamala/finance-tracker/internal/transaction"
	"github.com/frahmantamala/finance-tracker/pkg/logger"
)

var _ = Describe("Transaction Store", func() {
	var (
		fake  *remotetest.Fake
		store *transaction.Store
		now   time.Time
		ctx   context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		fake = remotetest.NewFake()
		now = time.Date(2024, 3, 9, 14, 5, 7, 123456789, time.FixedZone("WIB", 7*60*60))
		store = transaction.NewStore(fake, nil, logger.Discard(), transaction.WithClock(func() time.Time { return now }))
	})

	seed := func() {
		fake.Seed(remote.CollectionTransactions, "t1", transaction.Record{
			CategoryID: "c1", Type: transaction.TypeIncome, Amount: 1000, CreatedAt: "2024-01-01T08:00:00.000Z",
		})
		fake.Seed(remote.CollectionTransactions, "t2", transaction.Record{
			CategoryID: "c2", Type: transaction.TypeExpense, Amount: 300, CreatedAt: "2024-01-02T08:00:00.000Z",
		})
	}

	Describe("Refresh", func() {
		It("should yield an empty collection for an empty remote", func() {
			items, err := store.Refresh(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(BeEmpty())
			Expect(store.Loading()).To(BeFalse())
			Expect(store.Totals()).To(Equal(transaction.Totals{}))
		})

		It("should load records and totals", func() {
			seed()
			_, err := store.Refresh(ctx)
			Expect(err).NotTo(HaveOccurred())

			snap := store.Snapshot()
			Expect(snap.Items).To(HaveLen(2))
			Expect(snap.Items[0].CreatedAt).To(Equal("2024-01-01T08:00:00.000Z"))
			Expect(snap.Totals).To(Equal(transaction.Totals{Income: 1000, Expense: 300, Net: 700}))
		})

		It("should keep last known good data on failure", func() {
			seed()
			_, err := store.Refresh(ctx)
			Expect(err).NotTo(HaveOccurred())

			fake.FailOn(remotetest.OpList, errors.New("connection reset"))
			_, err = store.Refresh(ctx)
			Expect(err).To(HaveOccurred())

			snap := store.Snapshot()
			Expect(snap.Items).To(HaveLen(2))
			Expect(snap.Loading).To(BeFalse())
			Expect(snap.Err).To(HaveOccurred())
		})
	})

	Describe("Add", func() {
		It("should stamp createdAt in UTC with millisecond precision", func() {
			created, err := store.Add(ctx, transaction.TypeExpense, 42.5, "c2")
			Expect(err).NotTo(HaveOccurred())
			Expect(created.CreatedAt).To(Equal("2024-03-09T07:05:07.123Z"))

			var stored map[string]interface{}
			Expect(json.Unmarshal(fake.Record(remote.CollectionTransactions, created.ID), &stored)).To(Succeed())
			Expect(stored).To(HaveKeyWithValue("createdAt", "2024-03-09T07:05:07.123Z"))
			Expect(stored).NotTo(HaveKey("id"))
		})

		It("should append without refreshing", func() {
			seed()
			_, err := store.Refresh(ctx)
			Expect(err).NotTo(HaveOccurred())

			created, err := store.Add(ctx, transaction.TypeIncome, 0, "c1")
			Expect(err).NotTo(HaveOccurred())
			items := store.Items()
			Expect(items).To(HaveLen(3))
			Expect(items[2]).To(Equal(created))
			Expect(fake.CallCount(remotetest.OpList)).To(Equal(1))
		})

		It("should contain the added entity exactly once after a refresh", func() {
			created, err := store.Add(ctx, transaction.TypeIncome, 10, "c1")
			Expect(err).NotTo(HaveOccurred())

			items, err := store.Refresh(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(Equal([]transaction.Transaction{created}))
		})

		It("should reject a missing category before any remote call", func() {
			_, err := store.Add(ctx, transaction.TypeExpense, 10, "")
			Expect(internal.IsValidationError(err)).To(BeTrue())
			Expect(fake.Calls()).To(BeEmpty())
		})

		It("should reject a negative amount", func() {
			_, err := store.Add(ctx, transaction.TypeExpense, -1, "c1")
			Expect(internal.IsValidationError(err)).To(BeTrue())
			Expect(fake.Calls()).To(BeEmpty())
		})

		It("should accept amounts without an upper bound", func() {
			_, err := store.Add(ctx, transaction.TypeIncome, 1e15, "c1")
			Expect(err).NotTo(HaveOccurred())
		})

		It("should accept a category id that does not exist", func() {
			created, err := store.Add(ctx, transaction.TypeIncome, 1, "nowhere")
			Expect(err).NotTo(HaveOccurred())
			Expect(created.CategoryID).To(Equal("nowhere"))
		})

		It("should leave the collection unchanged on remote failure", func() {
			fake.FailWithStatus(remotetest.OpCreate, 500)
			_, err := store.Add(ctx, transaction.TypeIncome, 1, "c1")
			Expect(internal.IsRemoteError(err)).To(BeTrue())
			Expect(store.Items()).To(BeEmpty())
			Expect(store.Loading()).To(BeFalse())
		})
	})

	Describe("Update", func() {
		BeforeEach(func() {
			seed()
			_, err := store.Refresh(ctx)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should carry createdAt forward and replace in place", func() {
			original, found := store.Find("t2")
			Expect(found).To(BeTrue())

			now = now.Add(48 * time.Hour)
			updated, err := store.Update(ctx, "t2", transaction.TypeExpense, 450, "c2", original.CreatedAt)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.CreatedAt).To(Equal(original.CreatedAt))

			items := store.Items()
			Expect(items[1]).To(Equal(updated))
			Expect(string(fake.Record(remote.CollectionTransactions, "t2"))).To(MatchJSON(
				`{"categoryId":"c2","type":"expense","amount":450,"createdAt":"2024-01-02T08:00:00.000Z"}`))
		})

		It("should not insert a missing local entry", func() {
			_, err := store.Update(ctx, "t9", transaction.TypeIncome, 1, "c1", "2024-01-01T00:00:00.000Z")
			Expect(err).NotTo(HaveOccurred())
			Expect(store.Items()).To(HaveLen(2))
			_, found := store.Find("t9")
			Expect(found).To(BeFalse())
		})

		It("should require createdAt", func() {
			_, err := store.Update(ctx, "t1", transaction.TypeIncome, 1, "c1", "")
			Expect(internal.IsValidationError(err)).To(BeTrue())
			Expect(fake.CallCount(remotetest.OpUpdate)).To(BeZero())
		})
	})

	Describe("Remove", func() {
		BeforeEach(func() {
			seed()
			_, err := store.Refresh(ctx)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should drop the entry", func() {
			id, err := store.Remove(ctx, "t1")
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal("t1"))
			Expect(store.Items()).To(HaveLen(1))
			Expect(store.Totals()).To(Equal(transaction.Totals{Expense: 300, Net: -300}))
		})

		It("should reject an empty id without calling the remote store", func() {
			_, err := store.Remove(ctx, "")
			Expect(internal.IsValidationError(err)).To(BeTrue())
			Expect(fake.CallCount(remotetest.OpRemove)).To(BeZero())
			Expect(store.Items()).To(HaveLen(2))
		})

		It("should be idempotent locally", func() {
			_, err := store.Remove(ctx, "t1")
			Expect(err).NotTo(HaveOccurred())
			after := store.Items()

			_, err = store.Remove(ctx, "t1")
			Expect(err).NotTo(HaveOccurred())
			Expect(store.Items()).To(Equal(after))
		})
	})

	It("should keep totals equal to a from-scratch sum across mutations", func() {
		seed()
		_, err := store.Refresh(ctx)
		Expect(err).NotTo(HaveOccurred())

		a, err := store.Add(ctx, transaction.TypeIncome, 250, "c1")
		Expect(err).NotTo(HaveOccurred())
		_, err = store.Add(ctx, transaction.TypeExpense, 75.25, "c2")
		Expect(err).NotTo(HaveOccurred())
		_, err = store.Update(ctx, a.ID, transaction.TypeExpense, 20, "c2", a.CreatedAt)
		Expect(err).NotTo(HaveOccurred())
		_, err = store.Remove(ctx, "t1")
		Expect(err).NotTo(HaveOccurred())

		var income, expense float64
		for _, t := range store.Items() {
			switch t.Type {
			case transaction.TypeIncome:
				income += t.Amount
			case transaction.TypeExpense:
				expense += t.Amount
			}
		}
		Expect(store.Totals()).To(Equal(transaction.Totals{Income: income, Expense: expense, Net: income - expense}))
		Expect(store.Totals()).To(Equal(transaction.Totals{Income: 0, Expense: 395.25, Net: -395.25}))
	})

	It("should publish transactions.changed after each mutation", func() {
		bus := events.NewEventBus(logger.Discard())
		var ops []events.Operation
		bus.Subscribe(events.EventTypeTransactionsChanged, func(_ context.Context, e events.Event) error {
			ops = append(ops, e.(*events.CollectionChangedEvent).Operation)
			return nil
		})
		store = transaction.NewStore(fake, bus, logger.Discard())

		created, err := store.Add(ctx, transaction.TypeIncome, 1, "c1")
		Expect(err).NotTo(HaveOccurred())
		_, err = store.Refresh(ctx)
		Expect(err).NotTo(HaveOccurred())
		_, err = store.Remove(ctx, created.ID)
		Expect(err).NotTo(HaveOccurred())

		Expect(ops).To(Equal([]events.Operation{events.OperationAdd, events.OperationRefresh, events.OperationRemove}))
	})
})
