// Package metrics collects and exposes Prometheus metrics for the game server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the HTTP layer reports game activity to.
type Recorder interface {
	RecordGameStarted(mode string)
	RecordSubmission(status, reason string, delta int)
	SetActiveSessions(n int)
}

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	gamesStarted *prometheus.CounterVec
	submissions  *prometheus.CounterVec
	wordScore    prometheus.Histogram
	active       prometheus.Gauge
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		gamesStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wordscramble_games_started_total",
			Help: "Games started, by root word selection mode.",
		}, []string{"mode"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wordscramble_submissions_total",
			Help: "Word submissions, by outcome and rejection reason.",
		}, []string{"status", "reason"}),
		wordScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "wordscramble_word_score",
			Help:    "Score awarded per accepted word.",
			Buckets: prometheus.LinearBuckets(4, 4, 10),
		}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wordscramble_active_sessions",
			Help: "Sessions currently held in memory.",
		}),
	}

	reg.MustRegister(
		c.gamesStarted,
		c.submissions,
		c.wordScore,
		c.active,
	)
	return c
}

// RecordGameStarted counts a new or restarted game.
func (c *Collector) RecordGameStarted(mode string) {
	c.gamesStarted.WithLabelValues(mode).Inc()
}

// RecordSubmission counts a submission; accepted words also observe delta.
func (c *Collector) RecordSubmission(status, reason string, delta int) {
	if reason == "" {
		reason = "none"
	}
	c.submissions.WithLabelValues(status, reason).Inc()
	if status == "accepted" {
		c.wordScore.Observe(float64(delta))
	}
}

// SetActiveSessions sets the live session gauge.
func (c *Collector) SetActiveSessions(n int) {
	c.active.Set(float64(n))
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordGameStarted(string) {}
func (Nop) RecordSubmission(string, string, int) {}
func (Nop) SetActiveSessions(int) {}
