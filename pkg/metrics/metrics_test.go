package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating a manager with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithMetricPrefix("test_prefix"),
				WithMetricsEnabled(false),
				WithRefreshInterval(5*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options should be applied", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Enabled(), ShouldBeFalse)
				So(manager.RefreshInterval(), ShouldEqual, 5*time.Second)
				So(manager.name("queries_total"), ShouldEqual, "test_prefix_queries_total")
			})

			Convey("And metrics should be registered on the given registry", func() {
				manager.queriesTotal.WithLabelValues("current").Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				found := false
				for _, f := range families {
					if f.GetName() == "test_namespace_test_subsystem_test_prefix_queries_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When empty values are passed", func() {
			manager := NewManager(
				WithNamespace(""),
				WithRefreshInterval(0),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "draftboard")
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})
	})
}

func TestMetricsInit(t *testing.T) {
	Convey("Given configured metric names and labels", t, func() {
		Reset(func() { Init() })

		Convey("When initialising the global manager", func() {
			manager := Init(
				WithNamespace("fantasy"),
				WithMetricPrefix("v2"),
				WithCustomLabels(map[string]string{"instance": "a"}),
				WithRefreshInterval(time.Minute),
			)
			RecordQuery("current", 3, 1)

			Convey("Then it should become the default", func() {
				So(Default(), ShouldEqual, manager)
				So(Default().RefreshInterval(), ShouldEqual, time.Minute)
			})

			Convey("And the exposed registry should use the configured names", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)

				found := false
				for _, f := range families {
					if f.GetName() == "fantasy_predictions_v2_queries_total" {
						found = true
						labels := map[string]string{}
						for _, l := range f.GetMetric()[0].GetLabel() {
							labels[l.GetName()] = l.GetValue()
						}
						So(labels["instance"], ShouldEqual, "a")
						So(labels["source"], ShouldEqual, "current")
					}
					So(f.GetName(), ShouldStartWith, "fantasy_")
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When initialising with recording disabled", func() {
			Init(WithMetricsEnabled(false))
			RecordQuery("current", 3, 1)

			Convey("Then nothing should be counted", func() {
				So(Default().Enabled(), ShouldBeFalse)
				So(testutil.ToFloat64(globalManager.queriesTotal.WithLabelValues("current")), ShouldEqual, 0.0)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		So(Default(), ShouldNotBeNil)

		Convey("When recording a query", func() {
			before := testutil.ToFloat64(globalManager.queriesTotal.WithLabelValues("historical"))
			RecordQuery("historical", 12, 2)
			RecordQueryLatency(1.5)

			Convey("Then the query counter should increase", func() {
				after := testutil.ToFloat64(globalManager.queriesTotal.WithLabelValues("historical"))
				So(after-before, ShouldEqual, 1.0)
			})
		})

		Convey("When recording a query error", func() {
			before := testutil.ToFloat64(globalManager.queryErrors.WithLabelValues("unknown_column"))
			RecordQueryError("unknown_column")
			after := testutil.ToFloat64(globalManager.queryErrors.WithLabelValues("unknown_column"))
			So(after-before, ShouldEqual, 1.0)
		})

		Convey("When updating table gauges", func() {
			UpdateTableRows("current", 321)
			UpdatePositionAnomalies("current", 3, 1)

			Convey("Then the gauges should hold the latest values", func() {
				So(testutil.ToFloat64(globalManager.tableRows.WithLabelValues("current")), ShouldEqual, 321.0)
				So(testutil.ToFloat64(globalManager.positionAnomalies.WithLabelValues("current", "undefined")), ShouldEqual, 3.0)
				So(testutil.ToFloat64(globalManager.positionAnomalies.WithLabelValues("current", "multiple")), ShouldEqual, 1.0)
			})
		})

		Convey("When recording table and HTTP metrics", func() {
			So(func() {
				RecordTableLoadLatency(12)
				RecordNormalizeLatency(3)
				RecordActualBackfill()
				MarkTablesLoaded(time.Now())
				RecordHTTPRequest("predictions", "GET", "200")
				RecordHTTPRequestDuration("predictions", "GET", "200", 4)
				RecordErrorByType("client_error", "medium")
				RecordErrorByEndpoint("predictions", "GET", "client_error")
				RecordErrorLatency("http", "client_error", 2)
			}, ShouldNotPanic)
		})

		Convey("When recording system metrics", func() {
			So(func() {
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(8)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
			So(testutil.ToFloat64(globalManager.systemGoroutineCount), ShouldEqual, 8.0)
		})

		Convey("Then the custom registry should be gatherable", func() {
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}
