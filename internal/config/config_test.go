package config_test

import (
	"context"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/teamlens/alignd/internal/config"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.DBPath, convey.ShouldEqual, "")
			convey.So(cfg.Model, convey.ShouldEqual, "gpt-4o-mini")
			convey.So(cfg.GatewayTimeoutMS, convey.ShouldEqual, 20_000)
			convey.So(cfg.Temperature, convey.ShouldEqual, 0.2)
			convey.So(cfg.MaxTokens, convey.ShouldEqual, 512)
			convey.So(cfg.ReportWindow, convey.ShouldEqual, 12)
		})
	})
}
