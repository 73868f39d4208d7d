package internal_test

import (
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/finance-tracker/internal"
)

var _ = Describe("Config", func() {
	var cfg *internal.Config

	BeforeEach(func() {
		cfg = internal.LoadConfigFromEnv()
	})

	It("should validate the environment defaults", func() {
		Expect(cfg.Validate()).To(Succeed())
		Expect(cfg.Store.Timeout).To(Equal(10 * time.Second))
		Expect(cfg.DocStore.Driver).To(Equal(internal.DriverSQLite))
	})

	It("should read overrides from the environment", func() {
		setenv("STORE_BASE_URL", "https://example-rtdb.firebaseio.com")
		setenv("HTTP_PORT", "9999")

		cfg = internal.LoadConfigFromEnv()
		Expect(cfg.Store.BaseURL).To(Equal("https://example-rtdb.firebaseio.com"))
		Expect(cfg.Server.Port).To(Equal(9999))
	})

	It("should reject a store url without http scheme", func() {
		cfg.Store.BaseURL = "ftp://example.com"
		err := cfg.Validate()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("store config"))
	})

	It("should reject an unknown docstore driver", func() {
		cfg.DocStore.Driver = "mysql"
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("docstore config")))
	})

	It("should reject more idle than open connections", func() {
		cfg.DocStore.MaxIdleConns = 20
		cfg.DocStore.MaxOpenConns = 2
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("max_idle_conns")))
	})

	It("should reject unknown logging format", func() {
		cfg.Observability.Logging.Format = "xml"
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("logging config")))
	})
})

func setenv(key, value string) {
	Expect(os.Setenv(key, value)).To(Succeed())
	DeferCleanup(os.Unsetenv, key)
}
