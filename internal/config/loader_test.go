package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/scorecalc/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.MaxBodyBytes, convey.ShouldEqual, 64<<10)
				convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"*"})
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("SCORECALC_ADDR", ":8080")
			_ = os.Setenv("SCORECALC_LOG_FORMAT", "JSON")
			_ = os.Setenv("SCORECALC_RATE_LIMIT_RPS", "12.5")
			_ = os.Setenv("SCORECALC_RATE_LIMIT_BURST", "25")
			_ = os.Setenv("SCORECALC_MAX_BODY_BYTES", "1024")
			_ = os.Setenv("SCORECALC_CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.RateLimitRPS, convey.ShouldEqual, 12.5)
				convey.So(cfg.RateLimitBurst, convey.ShouldEqual, 25)
				convey.So(cfg.MaxBodyBytes, convey.ShouldEqual, 1024)
				convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"https://a.example", "https://b.example"})
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
log_level: debug
read_timeout_ms: 2000
cors_allowed_origins:
  - https://clinic.example
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv(config.EnvConfigFile, tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.ReadTimeoutMS, convey.ShouldEqual, 2000)
				convey.So(cfg.WriteTimeoutMS, convey.ShouldEqual, 10_000)
				convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"https://clinic.example"})
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile("addr: \":9090\"\nrate_limit_burst: 50\n")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv(config.EnvConfigFile, tmpFile)
			_ = os.Setenv("SCORECALC_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")      // Overridden by env
				convey.So(cfg.RateLimitBurst, convey.ShouldEqual, 50) // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv(config.EnvConfigFile, tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv(config.EnvConfigFile, "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("SCORECALC_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading metrics settings from the environment", func() {
			_ = os.Setenv("SCORECALC_METRICS_NAMESPACE", "clinic")
			_ = os.Setenv("SCORECALC_METRICS_LABELS", "env=prod, region = eu")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then the namespace and const labels are applied", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "clinic")
				convey.So(cfg.MetricsConstLabels(), convey.ShouldResemble, map[string]string{"env": "prod", "region": "eu"})
			})
		})

		convey.Convey("When a metrics label has no value separator", func() {
			_ = os.Setenv("SCORECALC_METRICS_LABELS", "prod")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "metrics_labels")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("SCORECALC_RATE_LIMIT_BURST", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		config.EnvConfigFile,
		"SCORECALC_ADDR",
		"SCORECALC_LOG_LEVEL",
		"SCORECALC_LOG_FORMAT",
		"SCORECALC_MAX_BODY_BYTES",
		"SCORECALC_RATE_LIMIT_RPS",
		"SCORECALC_RATE_LIMIT_BURST",
		"SCORECALC_CORS_ALLOWED_ORIGINS",
		"SCORECALC_READ_TIMEOUT_MS",
		"SCORECALC_WRITE_TIMEOUT_MS",
		"SCORECALC_METRICS_NAMESPACE",
		"SCORECALC_METRICS_LABELS",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "scorecalc-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
