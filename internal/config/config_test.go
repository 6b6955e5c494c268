package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	config "github.com/pitchmix/pitchmix/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDefaults(t *testing.T) {
	Convey("Given a fresh config", t, func() {
		cfg := config.New()

		Convey("Then the defaults are ready to run with", func() {
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.Addr, ShouldEqual, ":8000")
			So(cfg.DBPath, ShouldEqual, "data/pitchmix.db")
			So(cfg.CSVDir, ShouldEqual, "data/csvs")
			So(cfg.MinSampleSize, ShouldEqual, 5)
			So(cfg.DefaultPitchLimit, ShouldEqual, 500)
			So(cfg.MaxPitchLimit, ShouldEqual, 2000)
			So(cfg.QueueSize, ShouldEqual, 10_000)
			So(cfg.WorkerCount, ShouldBeGreaterThan, 0)
			So(cfg.BatchSize, ShouldEqual, 500)
		})
	})
}

func TestLoadDefaults(t *testing.T) {
	Convey("Given no overriding environment", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then load returns the defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":8000")
			So(cfg.MinSampleSize, ShouldEqual, 5)
		})
	})
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PITCHMIX_ADDR", ":9090")
	t.Setenv("PITCHMIX_DB_PATH", "/tmp/other.db")
	t.Setenv("PITCHMIX_MIN_SAMPLE_SIZE", "12")
	t.Setenv("PITCHMIX_LOG_LEVEL", "debug")

	Convey("Given PITCHMIX_ environment overrides", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then env wins over defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":9090")
			So(cfg.DBPath, ShouldEqual, "/tmp/other.db")
			So(cfg.MinSampleSize, ShouldEqual, 12)
			So(cfg.LogLevel, ShouldEqual, "debug")
		})

		Convey("And untouched keys keep their defaults", func() {
			So(cfg.CSVDir, ShouldEqual, "data/csvs")
			So(cfg.BatchSize, ShouldEqual, 500)
		})
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pitchmix.yaml")
	content := "addr: \":7070\"\nmin_sample_size: 8\nqueue_size: 256\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PITCHMIX_CONFIG", path)

	Convey("Given a YAML config file", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then the file layers over the defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":7070")
			So(cfg.MinSampleSize, ShouldEqual, 8)
			So(cfg.QueueSize, ShouldEqual, 256)
			So(cfg.DBPath, ShouldEqual, "data/pitchmix.db")
		})
	})
}

func TestLoadFileBeatenByEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pitchmix.yaml")
	if err := os.WriteFile(path, []byte("addr: \":7070\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PITCHMIX_CONFIG", path)
	t.Setenv("PITCHMIX_ADDR", ":9090")

	Convey("Given both a config file and an env override", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then env takes precedence over the file", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":9090")
		})
	})
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("PITCHMIX_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	Convey("Given a config path that does not exist", t, func() {
		_, err := config.Load(context.Background())

		Convey("Then load fails with the load sentinel", func() {
			So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
		})
	})
}

func TestValidation(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"empty addr", "PITCHMIX_ADDR", ""},
		{"empty db path", "PITCHMIX_DB_PATH", ""},
		{"non-positive sample floor", "PITCHMIX_MIN_SAMPLE_SIZE", "0"},
		{"default limit above max", "PITCHMIX_DEFAULT_PITCH_LIMIT", "5000"},
		{"zero default limit", "PITCHMIX_DEFAULT_PITCH_LIMIT", "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)

			Convey("Given a configuration the engine cannot run with", t, func() {
				_, err := config.Load(context.Background())

				Convey("Then load rejects it", func() {
					So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
				})
			})
		})
	}
}
