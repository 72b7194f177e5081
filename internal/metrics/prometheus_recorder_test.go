package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("render", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("render", ResultSuccess)
	pr.IncBuildOutcome(BuildOutcomeSuccess)
	pr.IncPagesRendered("content", 3)
	pr.IncPagesRendered("content", 2)
	pr.SetDocumentsDiscovered(7)
	pr.SetBrokenLinks(1)

	if got := testutil.ToFloat64(pr.pagesRendered.WithLabelValues("content")); got != 5 {
		t.Fatalf("expected 5 content pages, got %v", got)
	}
	if got := testutil.ToFloat64(pr.documents); got != 7 {
		t.Fatalf("expected 7 documents, got %v", got)
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) == 0 {
		t.Fatalf("expected metrics, got none")
	}
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.ObserveBuildDuration(time.Second)
	pr.IncBuildOutcome(BuildOutcomeFailed)
	pr.IncPagesRendered("tag", 1)
}

func TestHTTPHandlerServesRegistry(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncBuildOutcome(BuildOutcomeSuccess)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `garden_build_outcomes_total{outcome="success"} 1`) {
		t.Fatalf("metric missing from scrape:\n%s", rec.Body.String())
	}
}
