package observability

import (
	"math/big"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"swaprewards/events"
)

type rewardsMetrics struct {
	skips   *prometheus.CounterVec
	capHits prometheus.Counter
	points  prometheus.Counter
	accrued prometheus.Counter
}

var (
	rewardsMetricsOnce sync.Once
	rewardsRegistry    *rewardsMetrics
)

// Rewards returns the lazily-initialised metrics registry tracking accrual
// pipeline activity.
func Rewards() *rewardsMetrics {
	rewardsMetricsOnce.Do(func() {
		rewardsRegistry = &rewardsMetrics{
			skips: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "swaprewards",
				Subsystem: "engine",
				Name:      "swaps_skipped_total",
				Help:      "Count of completed swaps that earned no points, segmented by reason.",
			}, []string{"reason"}),
			capHits: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "swaprewards",
				Subsystem: "engine",
				Name:      "daily_cap_hits_total",
				Help:      "Count of accruals truncated by the per-trader daily cap.",
			}),
			accrued: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "swaprewards",
				Subsystem: "engine",
				Name:      "accruals_total",
				Help:      "Count of swaps that credited points.",
			}),
			points: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "swaprewards",
				Subsystem: "engine",
				Name:      "points_credited_total",
				Help:      "Sum of points credited across all traders.",
			}),
		}
		prometheus.MustRegister(
			rewardsRegistry.skips,
			rewardsRegistry.capHits,
			rewardsRegistry.accrued,
			rewardsRegistry.points,
		)
	})
	return rewardsRegistry
}

// MetricsEmitter decorates an event emitter with prometheus counters so the
// accrual pipeline is observable without touching the engine itself.
type MetricsEmitter struct {
	next events.Emitter
}

// NewMetricsEmitter wraps the supplied emitter; a nil inner emitter discards
// events after counting them.
func NewMetricsEmitter(next events.Emitter) *MetricsEmitter {
	if next == nil {
		next = events.NoopEmitter{}
	}
	return &MetricsEmitter{next: next}
}

// Emit implements the events.Emitter interface.
func (m *MetricsEmitter) Emit(evt events.Event) {
	if m == nil {
		return
	}
	reg := Rewards()
	switch typed := evt.(type) {
	case events.RewardsSwapSkipped:
		reg.skips.WithLabelValues(typed.Reason).Inc()
	case events.RewardsDailyCapReached:
		reg.capHits.Inc()
	case events.RewardsPointsAccrued:
		reg.accrued.Inc()
		reg.points.Add(bigToFloat(typed.Credited))
	}
	m.next.Emit(evt)
}

func bigToFloat(v *big.Int) float64 {
	if v == nil {
		return 0
	}
	f, _ := new(big.Float).SetInt(v).Float64()
	return f
}
