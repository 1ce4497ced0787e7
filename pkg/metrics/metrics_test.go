package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

// value reads the current value of a single counter or gauge.
func value(c prometheus.Collector) float64 {
	ch := make(chan prometheus.Metric, 1)
	c.Collect(ch)
	var pb dto.Metric
	if err := (<-ch).Write(&pb); err != nil {
		return -1
	}
	if pb.Counter != nil {
		return pb.Counter.GetValue()
	}
	return pb.Gauge.GetValue()
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with custom options on a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 5, 10}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then its collectors are registered under the namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.ordersDuplicate.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := map[string]bool{}
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["test_unit_orders_duplicate_total"], ShouldBeTrue)
			})
		})

		Convey("When a second manager registers on the same registry", func() {
			registry := prometheus.NewRegistry()
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then registration panics on the duplicate collectors", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording an order with a fallback", func() {
			before := value(globalManager.drawFallbacks.WithLabelValues("tercera"))
			items := value(globalManager.itemsDrawn.WithLabelValues("tercera"))
			RecordOrder("tercera", 3, true, 0.2)

			Convey("Then items and fallbacks are counted", func() {
				So(value(globalManager.drawFallbacks.WithLabelValues("tercera")), ShouldEqual, before+1)
				So(value(globalManager.itemsDrawn.WithLabelValues("tercera")), ShouldEqual, items+3)
			})
		})

		Convey("When recording penalties", func() {
			goals := value(globalManager.penaltiesTotal.WithLabelValues("primera", "goal"))
			misses := value(globalManager.penaltiesTotal.WithLabelValues("primera", "miss"))
			RecordPenalty("primera", true, 72)
			RecordPenalty("primera", false, 72)

			Convey("Then each outcome is counted", func() {
				So(value(globalManager.penaltiesTotal.WithLabelValues("primera", "goal")), ShouldEqual, goals+1)
				So(value(globalManager.penaltiesTotal.WithLabelValues("primera", "miss")), ShouldEqual, misses+1)
			})
		})

		Convey("When recording a settlement", func() {
			before := value(globalManager.tokensAwarded.WithLabelValues("segunda"))
			RecordSettlement("segunda", true, 22.5)

			Convey("Then the awarded tokens accumulate", func() {
				So(value(globalManager.tokensAwarded.WithLabelValues("segunda")), ShouldEqual, before+22.5)
			})
		})

		Convey("When updating gauges", func() {
			UpdateQueueCapacity(10)
			UpdateQueueSize(5, 10)
			UpdateLedgerPlayers(7)

			Convey("Then they hold the latest values", func() {
				So(value(globalManager.queueSize), ShouldEqual, 5)
				So(value(globalManager.queueUtilization), ShouldEqual, 0.5)
				So(value(globalManager.ledgerPlayers), ShouldEqual, 7)
			})
		})

		Convey("When recording the remaining metrics", func() {
			Convey("Then nothing panics", func() {
				So(func() {
					RecordOrderDuplicate()
					RecordQueueEnqueue()
					RecordQueueDequeue()
					RecordQueueEnqueueError()
					UpdateWorkerCount(4)
					UpdateWorkerActiveCount(1)
					RecordWorkerProcessingLatency(1.5)
					RecordWorkerError()
					RecordHTTPRequest("/orders", "POST", "200")
					RecordHTTPRequestDuration("/orders", "POST", "200", 3)
					RecordErrorByComponent("api", "validation")
					UpdateSystemMemoryUsage(1 << 20)
					UpdateSystemGoroutineCount(12)
					RecordSystemGCPauseTime(0.3)
				}, ShouldNotPanic)
				So(GetRegistry(), ShouldNotBeNil)
			})
		})
	})
}
