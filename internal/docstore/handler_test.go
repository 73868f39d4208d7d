package docstore_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/finance-tracker/internal/category"
	"github.com/frahmantamala/finance-tracker/internal/docstore"
	"github.com/frahmantamala/finance-tracker/internal/remote"
	"github.com/frahmantamala/finance-tracker/internal/transaction"
	"github.com/frahmantamala/finance-tracker/internal/transport"
	"github.com/frahmantamala/finance-tracker/pkg/logger"
)

var _ = Describe("Document Store Handler", func() {
	var server *httptest.Server

	BeforeEach(func() {
		handler := docstore.NewHandler(transport.NewBaseHandler(logger.Discard()), newService())
		router := chi.NewRouter()
		handler.Routes(router)
		server = httptest.NewServer(router)
		DeferCleanup(server.Close)
	})

	call := func(method, path, body string) (int, string) {
		req, err := http.NewRequest(method, server.URL+path, strings.NewReader(body))
		Expect(err).NotTo(HaveOccurred())
		resp, err := http.DefaultClient.Do(req)
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		data, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		return resp.StatusCode, string(data)
	}

	It("should answer null for an empty collection", func() {
		status, body := call(http.MethodGet, "/categories.json", "")
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(Equal("null"))
	})

	It("should speak the create, list, put and delete exchange", func() {
		status, body := call(http.MethodPost, "/categories.json", `{"name":"Salary","type":"income"}`)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(MatchRegexp(`^\{"name":"[0-9a-f-]{36}"\}\s*$`))

		status, _ = call(http.MethodPut, "/categories/c2.json", `{"name":"Rent","type":"expense"}`)
		Expect(status).To(Equal(http.StatusOK))

		status, body = call(http.MethodGet, "/categories.json", "")
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(ContainSubstring(`"c2":{"name":"Rent","type":"expense"}`))

		status, body = call(http.MethodDelete, "/categories/c2.json", "")
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(Equal("null"))

		status, body = call(http.MethodGet, "/categories/c2.json", "")
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(Equal("null"))
	})

	It("should answer a shallow root read", func() {
		call(http.MethodPut, "/transactions/t1.json", `{"amount":1}`)
		status, body := call(http.MethodGet, "/.json?shallow=true", "")
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(MatchJSON(`{"transactions":true}`))
	})

	It("should reject paths without the json suffix", func() {
		status, body := call(http.MethodGet, "/categories", "")
		Expect(status).To(Equal(http.StatusNotFound))
		Expect(body).To(ContainSubstring(`"error"`))
	})

	It("should reject a non-object record", func() {
		status, _ := call(http.MethodPost, "/categories.json", `[1]`)
		Expect(status).To(Equal(http.StatusBadRequest))
	})

	It("should reject writes on the wrong level", func() {
		status, _ := call(http.MethodPost, "/categories/c1.json", `{}`)
		Expect(status).To(Equal(http.StatusBadRequest))
		status, _ = call(http.MethodDelete, "/categories.json", "")
		Expect(status).To(Equal(http.StatusBadRequest))
	})

	Describe("behind the remote client", func() {
		var (
			categories   *category.Store
			transactions *transaction.Store
			ctx          context.Context
		)

		BeforeEach(func() {
			ctx = context.Background()
			client := remote.NewClient(remote.Config{BaseURL: server.URL, Timeout: 5 * time.Second}, logger.Discard())
			categories = category.NewStore(client, nil, logger.Discard())
			transactions = transaction.NewStore(client, nil, logger.Discard())
		})

		It("should keep the stores in sync with the database", func() {
			salary, err := categories.Add(ctx, "Salary", category.TypeIncome)
			Expect(err).NotTo(HaveOccurred())
			rent, err := categories.Add(ctx, "Rent", category.TypeExpense)
			Expect(err).NotTo(HaveOccurred())

			_, err = transactions.Add(ctx, transaction.TypeIncome, 1000, salary.ID)
			Expect(err).NotTo(HaveOccurred())
			_, err = transactions.Add(ctx, transaction.TypeExpense, 300, rent.ID)
			Expect(err).NotTo(HaveOccurred())

			items, err := transactions.Refresh(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(2))
			Expect(transaction.ComputeTotals(items)).To(Equal(transaction.Totals{Income: 1000, Expense: 300, Net: 700}))

			_, err = categories.Remove(ctx, salary.ID)
			Expect(err).NotTo(HaveOccurred())
			refreshed, err := categories.Refresh(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(refreshed).To(Equal([]category.Category{rent}))
			Expect(categories.NameOf(items[0].CategoryID)).To(Equal(category.UnknownName))
		})

		It("should preserve createdAt across an update", func() {
			created, err := transactions.Add(ctx, transaction.TypeExpense, 10, "c1")
			Expect(err).NotTo(HaveOccurred())

			_, err = transactions.Update(ctx, created.ID, transaction.TypeExpense, 12, "c1", created.CreatedAt)
			Expect(err).NotTo(HaveOccurred())

			items, err := transactions.Refresh(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(1))
			Expect(items[0].Amount).To(Equal(12.0))
			Expect(items[0].CreatedAt).To(Equal(created.CreatedAt))
		})

		It("should answer the client ping", func() {
			client := remote.NewClient(remote.Config{BaseURL: server.URL}, logger.Discard())
			Expect(client.Ping(ctx)).To(Succeed())
		})
	})
})
