package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/san-kum/algoviz/internal/history"
	"github.com/san-kum/algoviz/internal/playback"
)

const namespace = "algoviz"

// Collector records playback activity as prometheus metrics. It is a
// playback.Observer and may be shared by several controllers.
type Collector struct {
	runs       *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	snapshots  *prometheus.CounterVec
	historyLen *prometheus.GaugeVec
}

var (
	_ playback.Observer       = (*Collector)(nil)
	_ playback.ResultObserver = (*Collector)(nil)
)

// New registers the collector's metrics with reg. Pass
// prometheus.DefaultRegisterer to expose them through promhttp.Handler.
func New(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Finished algorithm runs by outcome.",
		}, []string{"algorithm", "outcome"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time from start to outcome.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
		}, []string{"algorithm"}),
		snapshots: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_total",
			Help:      "Snapshots appended to history.",
		}, []string{"algorithm"}),
		historyLen: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "history_length",
			Help:      "Snapshots currently held in history.",
		}, []string{"algorithm"}),
	}
}

func (c *Collector) OnSnapshot(name string, snap history.Snapshot) {
	c.snapshots.WithLabelValues(name).Inc()
	c.historyLen.WithLabelValues(name).Set(float64(snap.Index + 1))
}

func (c *Collector) OnTransition(string, playback.State, playback.State) {}

// OnResult counts the finished run and records its elapsed time.
func (c *Collector) OnResult(res playback.Result) {
	c.runs.WithLabelValues(res.Name, res.Outcome.String()).Inc()
	c.duration.WithLabelValues(res.Name).Observe(res.Elapsed.Seconds())
}
