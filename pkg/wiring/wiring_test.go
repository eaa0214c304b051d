package wiring_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hexlockco/alembic/pkg/config"
	"github.com/hexlockco/alembic/pkg/eventstream/kafka"
	"github.com/hexlockco/alembic/pkg/eventstream/nop"
	"github.com/hexlockco/alembic/pkg/logger"
	"github.com/hexlockco/alembic/pkg/store/inmemory"
	"github.com/hexlockco/alembic/pkg/store/sqlite"
	"github.com/hexlockco/alembic/pkg/wiring"
)

func TestWiring(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Wiring Suite")
}

var _ = Describe("Wiring", func() {
	var cfg *config.Config

	BeforeEach(func() {
		cfg = config.NewDefaultConfig()
	})

	Describe("NewPlatform", func() {
		It("fails without a platform API key", func() {
			creds := &config.Credentials{}
			_, err := wiring.NewPlatform(cfg, creds, logger.Nop())
			Expect(err).To(MatchError(config.ErrMissingPlatformKey))
		})

		It("builds a client when the key is present", func() {
			creds := &config.Credentials{PlatformKey: "ak-test"}
			client, err := wiring.NewPlatform(cfg, creds, logger.Nop())
			Expect(err).NotTo(HaveOccurred())
			Expect(client).NotTo(BeNil())
		})
	})

	Describe("NewStore", func() {
		It("returns the in-memory driver without a sqlite path", func() {
			driver, err := wiring.NewStore(cfg, logger.Nop())
			Expect(err).NotTo(HaveOccurred())
			Expect(driver).To(BeAssignableToTypeOf(&inmemory.Driver{}))
		})

		It("returns the SQLite driver when a path is set", func() {
			cfg.Store.SQLitePath = ":memory:"
			driver, err := wiring.NewStore(cfg, logger.Nop())
			Expect(err).NotTo(HaveOccurred())
			defer driver.Close()
			Expect(driver).To(BeAssignableToTypeOf(&sqlite.Driver{}))
		})
	})

	Describe("NewPublisher", func() {
		It("defaults to the nop publisher", func() {
			pub, err := wiring.NewPublisher(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(pub).To(BeAssignableToTypeOf(&nop.Publisher{}))
		})

		It("builds a kafka publisher from comma-separated brokers", func() {
			cfg.Events.Provider = "kafka"
			cfg.Events.Brokers = "localhost:9092, localhost:9093"
			pub, err := wiring.NewPublisher(cfg)
			Expect(err).NotTo(HaveOccurred())
			defer pub.Close()
			Expect(pub).To(BeAssignableToTypeOf(&kafka.Publisher{}))
		})

		It("rejects unknown providers", func() {
			cfg.Events.Provider = "rabbitmq"
			_, err := wiring.NewPublisher(cfg)
			Expect(err).To(HaveOccurred())
		})

		It("requires brokers for kafka", func() {
			cfg.Events.Provider = "kafka"
			cfg.Events.Brokers = ""
			_, err := wiring.NewPublisher(cfg)
			Expect(err).To(HaveOccurred())
		})
	})
})
