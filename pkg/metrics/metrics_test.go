package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		reg := prometheus.NewRegistry()
		m := NewManager(
			WithPrometheusRegistry(reg),
			WithNamespace("test"),
			WithConstLabels(map[string]string{"env": "test"}),
		)

		Convey("Calculations are counted per calculator and outcome", func() {
			m.RecordCalculation("chads2_score", OutcomeSuccess, 2*time.Millisecond)
			m.RecordCalculation("chads2_score", OutcomeSuccess, time.Millisecond)
			m.RecordCalculation("chads2_score", OutcomeInvalid, time.Millisecond)

			So(testutil.ToFloat64(m.calculations.WithLabelValues("chads2_score", OutcomeSuccess)), ShouldEqual, 2)
			So(testutil.ToFloat64(m.calculations.WithLabelValues("chads2_score", OutcomeInvalid)), ShouldEqual, 1)
			So(testutil.CollectAndCount(m.calculationLatency), ShouldEqual, 1)
		})

		Convey("Unknown calculators do not create latency series", func() {
			m.RecordCalculation("unknown", OutcomeUnknown, time.Millisecond)
			So(testutil.CollectAndCount(m.calculationLatency), ShouldEqual, 0)
		})

		Convey("The registry gauge tracks the calculator count", func() {
			m.SetRegisteredCalculators(9)
			So(testutil.ToFloat64(m.registeredCalculators), ShouldEqual, 9)
		})

		Convey("HTTP requests, errors and rate limits are recorded", func() {
			m.RecordHTTPRequest("calculate", "POST", "200", 3*time.Millisecond)
			m.RecordError("calculate", "POST", "validation", "medium", time.Millisecond)
			m.RecordRateLimited("/api/x/calculate")

			So(testutil.ToFloat64(m.httpRequests.WithLabelValues("calculate", "POST", "200")), ShouldEqual, 1)
			So(testutil.ToFloat64(m.errorRateByType.WithLabelValues("validation", "medium")), ShouldEqual, 1)
			So(testutil.ToFloat64(m.rateLimited.WithLabelValues("/api/x/calculate")), ShouldEqual, 1)
		})

		Convey("System statistics are sampled", func() {
			mem := m.CollectSystem()
			So(mem.HeapInuse, ShouldBeGreaterThan, 0)
			So(testutil.ToFloat64(m.systemGoroutineCount), ShouldBeGreaterThan, 0)
		})

		Convey("Names carry the namespace and const labels", func() {
			m.SetRegisteredCalculators(1)
			families, err := reg.Gather()
			So(err, ShouldBeNil)
			found := false
			for _, f := range families {
				if f.GetName() == "test_api_registered_calculators" {
					found = true
					So(f.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
				}
				So(strings.HasPrefix(f.GetName(), "test_api_"), ShouldBeTrue)
			}
			So(found, ShouldBeTrue)
		})
	})
}

func TestGlobalManager(t *testing.T) {
	Convey("The global functions use the custom registry", t, func() {
		So(func() {
			RecordCalculation("ecog_performance_status", OutcomeSuccess, time.Millisecond)
			SetRegisteredCalculators(9)
			RecordHTTPRequest("healthz", "GET", "200", time.Millisecond)
			RecordRateLimited("/healthz")
			RecordError("healthz", "GET", "not_found", "medium", time.Millisecond)
			CollectSystem()
		}, ShouldNotPanic)

		families, err := GetRegistry().Gather()
		So(err, ShouldBeNil)
		So(len(families), ShouldBeGreaterThan, 0)
	})
}

func TestConfigure(t *testing.T) {
	Convey("Given a configured global manager", t, func() {
		Configure(WithNamespace("clinic"), WithConstLabels(map[string]string{"env": "staging"}))
		defer Configure()

		SetRegisteredCalculators(3)
		families, err := GetRegistry().Gather()
		So(err, ShouldBeNil)

		Convey("The exported registry uses the new namespace and labels", func() {
			found := false
			for _, f := range families {
				So(strings.HasPrefix(f.GetName(), "clinic_api_"), ShouldBeTrue)
				if f.GetName() == "clinic_api_registered_calculators" {
					found = true
					m := f.GetMetric()[0]
					So(m.GetGauge().GetValue(), ShouldEqual, 3)
					So(m.GetLabel()[0].GetName(), ShouldEqual, "env")
					So(m.GetLabel()[0].GetValue(), ShouldEqual, "staging")
				}
			}
			So(found, ShouldBeTrue)
		})
	})

	Convey("Reconfiguring starts from an empty registry", t, func() {
		Configure()
		families, err := GetRegistry().Gather()
		So(err, ShouldBeNil)
		for _, f := range families {
			So(strings.HasPrefix(f.GetName(), "scorecalc_api_"), ShouldBeTrue)
		}
	})
}

func TestWithConstLabelsCopies(t *testing.T) {
	Convey("Const labels are copied from the caller's map", t, func() {
		labels := map[string]string{"env": "prod"}
		m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()), WithConstLabels(labels))
		labels["env"] = "changed"
		So(m.constLabels["env"], ShouldEqual, "prod")
	})
}
