package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "garden"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration *prom.HistogramVec
	buildDuration prom.Histogram
	stageResults  *prom.CounterVec
	buildOutcome  *prom.CounterVec
	pagesRendered *prom.CounterVec
	documents     prom.Gauge
	brokenLinks   prom.Gauge
}

var _ Recorder = (*PrometheusRecorder)(nil)

// NewPrometheusRecorder constructs and registers the garden metrics on reg.
// A nil registry gets a private one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		pagesRendered: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pages_rendered_total",
			Help:      "Pages rendered by page kind",
		}, []string{"kind"}),
		documents: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "documents_discovered",
			Help:      "Published documents found by the last build",
		}),
		brokenLinks: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "broken_links",
			Help:      "Unresolved internal links found by the last build",
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.stageResults, pr.buildOutcome, pr.pagesRendered, pr.documents, pr.brokenLinks)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncPagesRendered(kind string, n int) {
	if p == nil {
		return
	}
	p.pagesRendered.WithLabelValues(kind).Add(float64(n))
}

func (p *PrometheusRecorder) SetDocumentsDiscovered(n int) {
	if p == nil {
		return
	}
	p.documents.Set(float64(n))
}

func (p *PrometheusRecorder) SetBrokenLinks(n int) {
	if p == nil {
		return
	}
	p.brokenLinks.Set(float64(n))
}
