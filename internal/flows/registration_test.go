package flows

import (
	"context"
	"errors"
	"testing"

	"github.com/flowlytics/flowlytics/internal/clix"
)

func TestRegistrationMetrics(t *testing.T) {
	ex := &fakeExecutor{routes: []route{
		{match: "total_users", rows: []clix.Row{{"total_users": uint64(100)}}},
		{match: "completed_users", rows: []clix.Row{{"completed_users": uint64(40)}}},
		{match: "name AS event", rows: []clix.Row{
			{"event": "reg_start", "count": uint64(100), "percentage": float64(50)},
			{"event": "email_input", "count": uint64(60), "percentage": float64(30)},
			{"event": "reg_complete", "count": uint64(40), "percentage": float64(20)},
		}},
	}}

	m, err := RegistrationMetrics(context.Background(), ex, "p1", testFrom, testTo, "UTC")
	if err != nil {
		t.Fatal(err)
	}
	if m.TotalUsers != 100 {
		t.Fatalf("total users = %d, want 100", m.TotalUsers)
	}
	if !approxEqual(m.ConversionRate, 40) || !approxEqual(m.DropOffRate, 60) {
		t.Fatalf("rates = %.2f/%.2f, want 40/60", m.ConversionRate, m.DropOffRate)
	}
	if !approxEqual(m.ConversionRate+m.DropOffRate, 100) {
		t.Fatalf("rates must sum to 100")
	}
	if m.AverageTime != 0 {
		t.Fatalf("average time is a placeholder and must be 0")
	}
	if len(m.TopEvents) != 3 || m.TopEvents[0].Event != "reg_start" || m.TopEvents[0].Count != 100 {
		t.Fatalf("unexpected top events: %+v", m.TopEvents)
	}
	sum := 0.0
	for _, e := range m.TopEvents {
		sum += e.Percentage
	}
	if !approxEqual(sum, 100) {
		t.Fatalf("top event shares should sum to 100 over the full set, got %.2f", sum)
	}
	if ex.queryCount() != 3 {
		t.Fatalf("expected 3 sub-queries, got %d", ex.queryCount())
	}
}

func TestRegistrationMetricsNoEvents(t *testing.T) {
	ex := &fakeExecutor{}
	m, err := RegistrationMetrics(context.Background(), ex, "p1", testFrom, testTo, "UTC")
	if err != nil {
		t.Fatal(err)
	}
	if m.TotalUsers != 0 {
		t.Fatalf("total users = %d", m.TotalUsers)
	}
	// no entrants: both rates stay zero rather than reading 0/100
	if m.ConversionRate != 0 || m.DropOffRate != 0 {
		t.Fatalf("rates = %.2f/%.2f, want 0/0", m.ConversionRate, m.DropOffRate)
	}
	if len(m.TopEvents) != 0 {
		t.Fatalf("expected no top events, got %+v", m.TopEvents)
	}
}

func TestRegistrationMetricsQueryFailureFailsJoin(t *testing.T) {
	ex := &fakeExecutor{routes: []route{
		{match: "completed_users", err: errors.New("storage is down")},
		{match: "total_users", rows: []clix.Row{{"total_users": uint64(5)}}},
	}}
	_, err := RegistrationMetrics(context.Background(), ex, "p1", testFrom, testTo, "UTC")
	if !errContains(err, "storage is down") {
		t.Fatalf("expected propagated store error, got %v", err)
	}
}
