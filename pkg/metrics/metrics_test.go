package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When applying them to a manager", func() {
			registry := prometheus.NewRegistry()
			m := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithMetricPrefix("test"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(false),
				WithRefreshInterval(5*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then they should be reflected on the manager", func() {
				So(m.namespace, ShouldEqual, "test_namespace")
				So(m.subsystem, ShouldEqual, "test_subsystem")
				So(m.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
				So(m.enabled, ShouldBeFalse)
				So(m.refreshInterval, ShouldEqual, 5*time.Second)
				So(m.customLabels, ShouldResemble, map[string]string{"env": "test"})
			})

			Convey("And the prefix should apply to metric names", func() {
				m.loadsTotal.WithLabelValues("ok").Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_namespace_test_subsystem_test_loads_total")
			})
		})

		Convey("When passing empty or invalid values", func() {
			m := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithMetricPrefix(""),
				WithHistogramBuckets(nil),
				WithRefreshInterval(-1*time.Second),
				WithCustomLabels(nil),
				WithPrometheusRegistry(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then the defaults should survive", func() {
				So(m.namespace, ShouldEqual, "orgpulse")
				So(m.subsystem, ShouldEqual, "analytics")
				So(m.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
				So(m.refreshInterval, ShouldEqual, defaultRefreshInterval)
				So(m.customLabels, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerRecording(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

		Convey("When counting loads by outcome", func() {
			m.loadsTotal.WithLabelValues("ok").Inc()
			m.loadsTotal.WithLabelValues("ok").Inc()
			m.loadsTotal.WithLabelValues("degraded").Inc()

			Convey("Then each outcome should be counted separately", func() {
				So(testutil.ToFloat64(m.loadsTotal.WithLabelValues("ok")), ShouldEqual, 2)
				So(testutil.ToFloat64(m.loadsTotal.WithLabelValues("degraded")), ShouldEqual, 1)
			})
		})

		Convey("When setting snapshot gauges", func() {
			m.snapshotGeneration.Set(7)
			m.snapshotEntities.WithLabelValues("employees").Set(42)

			Convey("Then the last value should be kept", func() {
				So(testutil.ToFloat64(m.snapshotGeneration), ShouldEqual, 7)
				So(testutil.ToFloat64(m.snapshotEntities.WithLabelValues("employees")), ShouldEqual, 42)
			})
		})
	})
}

func TestGlobalRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording load metrics", func() {
			before := testutil.ToFloat64(globalManager.collectionFetchErrors.WithLabelValues("teams"))
			So(func() {
				RecordLoad("ok", 120)
				RecordLoad("degraded", 480)
				RecordCollectionFetchError("teams")
				RecordAssignmentFetchError()
				RecordAssignmentFetchLatency(12)
				RecordDuplicateAssignment()
			}, ShouldNotPanic)

			Convey("Then the collection counter should move", func() {
				So(testutil.ToFloat64(globalManager.collectionFetchErrors.WithLabelValues("teams")), ShouldEqual, before+1)
			})
		})

		Convey("When recording normalization warnings", func() {
			before := testutil.ToFloat64(globalManager.normalizationWarnings.WithLabelValues("employee"))
			RecordNormalizationWarnings("employee", 3)
			RecordNormalizationWarnings("employee", 0)

			Convey("Then only positive counts should be added", func() {
				So(testutil.ToFloat64(globalManager.normalizationWarnings.WithLabelValues("employee")), ShouldEqual, before+3)
			})
		})

		Convey("When recording aggregation and snapshot metrics", func() {
			So(func() {
				UpdateSnapshotGeneration(3)
				UpdateSnapshotEntities("sectors", 4)
				RecordAggregationLatency(0.8)
				RecordDashboardCacheHit()
				RecordDashboardCacheMiss()
				RecordDrilldown("level", "ok")
				RecordDrilldown("level", "no_target")
			}, ShouldNotPanic)
			So(testutil.ToFloat64(globalManager.snapshotGeneration), ShouldEqual, 3)
		})

		Convey("When recording HTTP and error metrics", func() {
			So(func() {
				RecordHTTPRequest("/dashboard", "GET", "200")
				RecordHTTPRequestDuration("/dashboard", "GET", "200", 3.5)
				RecordErrorByComponent("source", "timeout")
				RecordErrorByEndpoint("/drilldown", "GET", "no_target")
				RecordHTTPRequest("", "", "200")
			}, ShouldNotPanic)
		})

		Convey("When recording system metrics", func() {
			So(func() {
				UpdateSystemMemoryUsage(1024 * 1024 * 100)
				UpdateSystemGoroutineCount(100)
				RecordSystemGCPauseTime(1.0)
			}, ShouldNotPanic)
		})

		Convey("Then the registry and settings should be exposed", func() {
			So(GetRegistry(), ShouldNotBeNil)
			So(Enabled(), ShouldBeTrue)
			So(RefreshInterval(), ShouldEqual, defaultRefreshInterval)
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given concurrent recorders", t, func() {
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					RecordDashboardCacheHit()
					RecordAggregationLatency(float64(j))
					RecordHTTPRequest("/stats", "GET", "200")
				}
			}()
		}

		Convey("Then they should finish without panics", func() {
			So(func() { wg.Wait() }, ShouldNotPanic)
		})
	})
}
