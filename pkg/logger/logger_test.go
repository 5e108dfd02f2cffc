package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When initialised with defaults", func() {
			So(Init(), ShouldBeNil)
			So(Get(), ShouldNotBeNil)
			So(Sync(), ShouldBeNil)
		})

		Convey("When initialised with an unknown format", func() {
			So(Init(WithFormat("xml")), ShouldNotBeNil)
		})
	})
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithOutput(&buf), WithFormat("json")), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging with fields", func() {
			Get().Info(ctx, "query served", String("source", "current"), Int("rows", 3), Bool("actual", true))

			Convey("Then the line should carry every field", func() {
				var line map[string]any
				So(json.Unmarshal(buf.Bytes(), &line), ShouldBeNil)
				So(line["msg"], ShouldEqual, "query served")
				So(line["rows"], ShouldEqual, 3.0)
				So(line["actual"], ShouldEqual, true)
				So(line["source"], ShouldEqual, "current")
			})
		})

		Convey("When logging below the level", func() {
			Get().Debug(ctx, "hidden")
			So(buf.Len(), ShouldEqual, 0)

			So(SetLevelString("debug"), ShouldBeNil)
			Get().Debug(ctx, "shown", Error(errors.New("boom")))
			So(buf.String(), ShouldContainSubstring, "shown")
			So(SetLevelString("info"), ShouldBeNil)
		})

		Convey("When using a named logger", func() {
			Named("query").Warn(ctx, "slow", Float64("ms", 12.5))
			So(buf.String(), ShouldContainSubstring, `"query"`)
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level names", t, func() {
		for _, lvl := range []string{"debug", "info", "warn", "warning", "error", " INFO ", ""} {
			So(SetLevelString(lvl), ShouldBeNil)
		}
		err := SetLevelString("loud")
		So(err, ShouldNotBeNil)
		So(strings.Contains(err.Error(), "loud"), ShouldBeTrue)
		So(SetLevelString("info"), ShouldBeNil)
	})
}
