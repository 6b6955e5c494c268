package logger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/pitchmix/pitchmix/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInit(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("Then the global logger is available", func() {
			So(logger.Get(), ShouldNotBeNil)
		})

		Convey("And named loggers can be derived", func() {
			log := logger.Named("etl")
			So(log, ShouldNotBeNil)

			Convey("And logging at every level does not panic", func() {
				ctx := context.Background()
				So(func() {
					log.Debug(ctx, "debug line", logger.String("k", "v"))
					log.Info(ctx, "info line", logger.Int("rows", 42))
					log.Warn(ctx, "warn line", logger.Int64("id", 543037))
					log.Error(ctx, "error line", logger.Error(errors.New("boom")))
				}, ShouldNotPanic)
			})
		})
	})
}

func TestFields(t *testing.T) {
	Convey("Given the field constructors", t, func() {
		Convey("Then each carries its key and value", func() {
			So(logger.String("a", "b"), ShouldResemble, logger.Field{Key: "a", Value: "b"})
			So(logger.Int("n", 3), ShouldResemble, logger.Field{Key: "n", Value: 3})
			So(logger.Int64("id", int64(9)), ShouldResemble, logger.Field{Key: "id", Value: int64(9)})
			So(logger.Float64("v", 1.5), ShouldResemble, logger.Field{Key: "v", Value: 1.5})
			So(logger.Any("x", []int{1}), ShouldResemble, logger.Field{Key: "x", Value: []int{1}})
		})

		Convey("And the error field uses the conventional key", func() {
			err := errors.New("boom")
			f := logger.Error(err)
			So(f.Key, ShouldEqual, "error")
			So(f.Value, ShouldEqual, err)
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given the level parser", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("Then known levels are accepted", func() {
			for _, lvl := range []string{"debug", "info", "WARN", "warning", "Error", ""} {
				So(logger.SetLevelString(lvl), ShouldBeNil)
			}
		})

		Convey("And unknown levels are rejected", func() {
			So(logger.SetLevelString("verbose"), ShouldNotBeNil)
		})
	})
}
