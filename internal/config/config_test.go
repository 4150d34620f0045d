package config_test

import (
	"testing"

	"github.com/okian/savor/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.Storage, convey.ShouldEqual, "memory")
			convey.So(cfg.PostgresDSN, convey.ShouldBeEmpty)
			convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 100)
			convey.So(cfg.SyncRetries, convey.ShouldEqual, 3)
			convey.So(cfg.RebuildSchedule, convey.ShouldEqual, "@every 10m")
		})
	})
}
