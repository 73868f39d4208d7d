package category_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/finance-tracker/internal/category"
	"github.com/frahmantamala/finance-tracker/internal/remote"
	"github.com/frahmantamala/finance-tracker/internal/remote/remotetest"
	"github.com/frahmantamala/finance-tracker/internal/transport"
	"github.com/frahmantamala/finance-tracker/pkg/logger"
)

var _ = Describe("Category Handler", func() {
	var (
		fake   *remotetest.Fake
		store  *category.Store
		router *chi.Mux
	)

	BeforeEach(func() {
		fake = remotetest.NewFake()
		fake.Seed(remote.CollectionCategories, "c1", category.Record{Name: "Salary", Type: category.TypeIncome})
		store = category.NewStore(fake, nil, logger.Discard())

		handler := category.NewHandler(transport.NewBaseHandler(logger.Discard()), store)
		router = chi.NewRouter()
		router.Get("/categories", handler.ListCategories)
		router.Post("/categories", handler.CreateCategory)
		router.Put("/categories/{id}", handler.UpdateCategory)
		router.Delete("/categories/{id}", handler.DeleteCategory)
	})

	serve := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("should handle GET /categories by refreshing the store", func() {
		w := serve(http.MethodGet, "/categories", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var response category.CategoriesResponse
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Categories).To(HaveLen(1))
		Expect(response.Categories[0].Name).To(Equal("Salary"))
		Expect(response.Loading).To(BeFalse())
	})

	It("should create a category and answer 201", func() {
		w := serve(http.MethodPost, "/categories", `{"name":"Rent","type":"expense"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		var created category.Category
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		Expect(created.ID).NotTo(BeEmpty())
		Expect(store.Items()).To(ContainElement(created))
	})

	It("should answer 400 with field details on validation failure", func() {
		w := serve(http.MethodPost, "/categories", `{"name":"","type":"expense"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring(`"field":"name"`))
		Expect(fake.Calls()).To(BeEmpty())
	})

	It("should answer 400 on a malformed body", func() {
		w := serve(http.MethodPost, "/categories", `{`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should update a category by path id", func() {
		_, err := store.Refresh(context.Background())
		Expect(err).NotTo(HaveOccurred())

		w := serve(http.MethodPut, "/categories/c1", `{"name":"Wages","type":"income"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(store.NameOf("c1")).To(Equal("Wages"))
	})

	It("should delete a category and echo its id", func() {
		w := serve(http.MethodDelete, "/categories/c1", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"id":"c1"}`))
	})

	It("should answer 502 when the remote store fails", func() {
		fake.FailWithStatus(remotetest.OpList, http.StatusServiceUnavailable)
		w := serve(http.MethodGet, "/categories", "")
		Expect(w.Code).To(Equal(http.StatusBadGateway))
		Expect(w.Body.String()).To(ContainSubstring("REMOTE_ERROR"))
	})
})
