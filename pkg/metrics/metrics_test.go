package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewManager(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewManager(
		WithRegistry(reg),
		WithNamespace("test"),
		WithSubsystem("unit"),
		WithHistogramBuckets([]float64{1, 10, 100}),
	)
	if m == nil {
		t.Fatal("expected manager")
	}
	if m.namespace != "test" || m.subsystem != "unit" {
		t.Errorf("options not applied: %s/%s", m.namespace, m.subsystem)
	}
}

func TestGlobalHelpers(t *testing.T) {
	// Helpers must not panic and must register on the custom registry.
	RecordReviewIngested()
	RecordSentimentLatency(12.5)
	RecordLeaderboardUpdate()
	RecordLeaderboardError()
	UpdateLeaderboardSize(3)
	RecordLeaderboardRebuild()
	RecordStoreLatency("create_review", 2.0)
	RecordStoreError("get_restaurant")
	UpdateTotalRestaurants(2)
	UpdateTotalReviews(5)
	RecordHTTPRequest("leaderboard", "GET", "200")
	RecordHTTPRequestDuration("leaderboard", "GET", "200", 1.2)

	families, err := GetRegistry().Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(families) == 0 {
		t.Error("expected registered metric families")
	}
}
