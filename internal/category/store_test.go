package category_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/category"
	"github.com/frahmantamala/finance-tracker/internal/core/events"
	"github.com/frahmantamala/finance-tracker/internal/remote"
	"github.com/frahmantamala/finance-tracker/internal/remote/remotetest"
	"github.com/frahmantamala/finance-tracker/pkg/logger"
)

var _ = Describe("Category Store", func() {
	var (
		fake  *remotetest.Fake
		bus   *events.EventBus
		store *category.Store
		ctx   context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		fake = remotetest.NewFake()
		bus = events.NewEventBus(logger.Discard())
		store = category.NewStore(fake, bus, logger.Discard())
	})

	seed := func() {
		fake.Seed(remote.CollectionCategories, "c1", category.Record{Name: "Salary", Type: category.TypeIncome})
		fake.Seed(remote.CollectionCategories, "c2", category.Record{Name: "Rent", Type: category.TypeExpense})
	}

	Describe("Refresh", func() {
		It("should yield an empty collection for an empty remote", func() {
			items, err := store.Refresh(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(BeEmpty())

			snap := store.Snapshot()
			Expect(snap.Items).To(BeEmpty())
			Expect(snap.Loading).To(BeFalse())
			Expect(snap.Err).To(BeNil())
		})

		It("should replace the local collection in remote order", func() {
			seed()
			_, err := store.Refresh(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(store.Items()).To(Equal([]category.Category{
				{ID: "c1", Name: "Salary", Type: category.TypeIncome},
				{ID: "c2", Name: "Rent", Type: category.TypeExpense},
			}))
		})

		It("should raise loading while the call is in flight", func() {
			var during bool
			fake.BeforeSettle = func(string) { during = store.Loading() }

			_, err := store.Refresh(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(during).To(BeTrue())
			Expect(store.Loading()).To(BeFalse())
		})

		It("should keep last known good data on failure", func() {
			seed()
			_, err := store.Refresh(ctx)
			Expect(err).NotTo(HaveOccurred())

			fake.FailWithStatus(remotetest.OpList, 503)
			_, err = store.Refresh(ctx)
			Expect(internal.IsRemoteError(err)).To(BeTrue())

			snap := store.Snapshot()
			Expect(snap.Items).To(HaveLen(2))
			Expect(snap.Loading).To(BeFalse())
			Expect(snap.Err).To(MatchError(err))
		})

		It("should clear the last error after a successful call", func() {
			fake.FailOn(remotetest.OpList, errors.New("offline"))
			_, err := store.Refresh(ctx)
			Expect(err).To(HaveOccurred())

			fake.FailOn(remotetest.OpList, nil)
			_, err = store.Refresh(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(store.Snapshot().Err).To(BeNil())
		})

		It("should fail with a decode error on a malformed record", func() {
			fake.Seed(remote.CollectionCategories, "bad", "not an object")
			_, err := store.Refresh(ctx)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeRemoteDecode))
			Expect(store.Loading()).To(BeFalse())
		})
	})

	Describe("Add", func() {
		It("should append the created category without refreshing", func() {
			seed()
			_, err := store.Refresh(ctx)
			Expect(err).NotTo(HaveOccurred())

			created, err := store.Add(ctx, "Groceries", category.TypeExpense)
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).NotTo(BeEmpty())
			Expect(created.Name).To(Equal("Groceries"))

			items := store.Items()
			Expect(items).To(HaveLen(3))
			Expect(items[2]).To(Equal(created))
			Expect(fake.CallCount(remotetest.OpList)).To(Equal(1))
		})

		It("should post a record without an id field", func() {
			_, err := store.Add(ctx, "Salary", category.TypeIncome)
			Expect(err).NotTo(HaveOccurred())

			calls := fake.Calls()
			Expect(calls).To(HaveLen(1))
			Expect(string(calls[0].Body)).To(MatchJSON(`{"name":"Salary","type":"income"}`))
		})

		It("should contain the added entity exactly once after a refresh", func() {
			created, err := store.Add(ctx, "Salary", category.TypeIncome)
			Expect(err).NotTo(HaveOccurred())

			items, err := store.Refresh(ctx)
			Expect(err).NotTo(HaveOccurred())

			matches := 0
			for _, c := range items {
				if c.ID == created.ID {
					matches++
				}
			}
			Expect(matches).To(Equal(1))
		})

		It("should reject an empty name before any remote call", func() {
			_, err := store.Add(ctx, "  ", category.TypeIncome)
			Expect(internal.IsValidationError(err)).To(BeTrue())
			Expect(fake.Calls()).To(BeEmpty())
			Expect(store.Loading()).To(BeFalse())
		})

		It("should reject an unknown type", func() {
			_, err := store.Add(ctx, "Transfer", category.CategoryType("transfer"))
			Expect(internal.IsValidationError(err)).To(BeTrue())
			Expect(fake.Calls()).To(BeEmpty())
		})

		It("should leave the collection unchanged on remote failure", func() {
			fake.FailWithStatus(remotetest.OpCreate, 500)
			_, err := store.Add(ctx, "Salary", category.TypeIncome)
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

		It("should replace the entry in place", func() {
			updated, err := store.Update(ctx, "c1", "Wages", category.TypeIncome)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated).To(Equal(category.Category{ID: "c1", Name: "Wages", Type: category.TypeIncome}))

			items := store.Items()
			Expect(items[0].Name).To(Equal("Wages"))
			Expect(items[1].ID).To(Equal("c2"))
			Expect(string(fake.Record(remote.CollectionCategories, "c1"))).To(MatchJSON(`{"name":"Wages","type":"income"}`))
		})

		It("should not insert a missing local entry", func() {
			_, err := store.Update(ctx, "c9", "Ghost", category.TypeExpense)
			Expect(err).NotTo(HaveOccurred())
			Expect(fake.CallCount(remotetest.OpUpdate)).To(Equal(1))

			Expect(store.Items()).To(HaveLen(2))
			_, found := store.Find("c9")
			Expect(found).To(BeFalse())
		})

		It("should keep the local entry on remote failure", func() {
			fake.FailOn(remotetest.OpUpdate, internal.NewRemoteError("boom", internal.ErrCodeRemoteUnreachable, 0, nil))
			_, err := store.Update(ctx, "c1", "Wages", category.TypeIncome)
			Expect(err).To(HaveOccurred())
			Expect(store.NameOf("c1")).To(Equal("Salary"))
		})
	})

	Describe("Remove", func() {
		BeforeEach(func() {
			seed()
			_, err := store.Refresh(ctx)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should drop the entry and return its id", func() {
			id, err := store.Remove(ctx, "c1")
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal("c1"))
			Expect(store.Items()).To(Equal([]category.Category{
				{ID: "c2", Name: "Rent", Type: category.TypeExpense},
			}))
		})

		It("should reject an empty id without calling the remote store", func() {
			_, err := store.Remove(ctx, "")
			Expect(internal.IsValidationError(err)).To(BeTrue())
			Expect(fake.CallCount(remotetest.OpRemove)).To(BeZero())
			Expect(store.Loading()).To(BeFalse())
			Expect(store.Items()).To(HaveLen(2))
		})

		It("should be idempotent locally", func() {
			_, err := store.Remove(ctx, "c1")
			Expect(err).NotTo(HaveOccurred())
			after := store.Items()

			fake.FailWithStatus(remotetest.OpRemove, 404)
			_, err = store.Remove(ctx, "c1")
			Expect(err).To(HaveOccurred())
			Expect(store.Items()).To(Equal(after))

			fake.FailOn(remotetest.OpRemove, nil)
			_, err = store.Remove(ctx, "c1")
			Expect(err).NotTo(HaveOccurred())
			Expect(store.Items()).To(Equal(after))
		})

		It("should resolve removed ids to Unknown", func() {
			_, err := store.Remove(ctx, "c1")
			Expect(err).NotTo(HaveOccurred())
			Expect(store.NameOf("c1")).To(Equal(category.UnknownName))
			Expect(store.NameOf("c2")).To(Equal("Rent"))
		})
	})

	Describe("change events", func() {
		It("should publish one event per settled mutation", func() {
			var received []*events.CollectionChangedEvent
			bus.Subscribe(events.EventTypeCategoriesChanged, func(_ context.Context, e events.Event) error {
				received = append(received, e.(*events.CollectionChangedEvent))
				return nil
			})

			created, err := store.Add(ctx, "Salary", category.TypeIncome)
			Expect(err).NotTo(HaveOccurred())
			_, err = store.Remove(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())

			Expect(received).To(HaveLen(2))
			Expect(received[0].Operation).To(Equal(events.OperationAdd))
			Expect(received[0].Count).To(Equal(1))
			Expect(received[1].Operation).To(Equal(events.OperationRemove))
			Expect(received[1].EntityID).To(Equal(created.ID))
		})

		It("should not publish when the remote call fails", func() {
			published := 0
			bus.Subscribe(events.EventTypeCategoriesChanged, func(context.Context, events.Event) error {
				published++
				return nil
			})

			fake.FailOn(remotetest.OpCreate, errors.New("offline"))
			_, _ = store.Add(ctx, "Salary", category.TypeIncome)
			Expect(published).To(BeZero())
		})

		It("should work without a publisher", func() {
			store = category.NewStore(fake, nil, logger.Discard())
			_, err := store.Add(ctx, "Salary", category.TypeIncome)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	It("should let a slow refresh resurrect a removed entity", func() {
		seed()
		_, err := store.Refresh(ctx)
		Expect(err).NotTo(HaveOccurred())

		// the refresh reads the remote, then a removal lands before it settles
		fake.BeforeSettle = func(op string) {
			if op != remotetest.OpList {
				return
			}
			fake.BeforeSettle = nil
			_, err := store.Remove(ctx, "c1")
			Expect(err).NotTo(HaveOccurred())
			Expect(store.Items()).To(HaveLen(1))
		}

		_, err = store.Refresh(ctx)
		Expect(err).NotTo(HaveOccurred())
		_, found := store.Find("c1")
		Expect(found).To(BeTrue())
		Expect(store.Loading()).To(BeFalse())
	})
})
