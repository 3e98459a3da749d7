package logic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/flowlytics/flowlytics/internal/clix"
	"github.com/flowlytics/flowlytics/services/dashboard/internal/types"
)

// stubStore routes queries to canned rows by substring match against the
// rendered SQL plus its bind args.
type stubRoute struct {
	match string
	rows  []clix.Row
	err   error
}

type stubStore struct {
	mu     sync.Mutex
	routes []stubRoute
}

func (s *stubStore) Query(_ context.Context, sql string, args ...any) ([]clix.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hay := sql + " " + fmt.Sprint(args...)
	for _, r := range s.routes {
		if strings.Contains(hay, r.match) {
			return r.rows, r.err
		}
	}
	return nil, nil
}

func TestFlowRegistrationStoreUnavailable(t *testing.T) {
	s := newTestSvc(t)
	id := mustCreateProject(t, s, "checkout", "")

	_, err := NewFlowRegistrationLogic(context.Background(), s).FlowRegistration(&types.FlowQuery{ProjectId: id})
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("err = %v, want ErrStoreUnavailable", err)
	}
}

func TestFlowRegistrationComputesRates(t *testing.T) {
	s := newTestSvc(t)
	id := mustCreateProject(t, s, "checkout", "")
	s.SetEvents(&stubStore{routes: []stubRoute{
		{match: "completed_users", rows: []clix.Row{{"completed_users": uint64(40)}}},
		{match: "total_users", rows: []clix.Row{{"total_users": uint64(100)}}},
		{match: "name AS event", rows: []clix.Row{
			{"event": "reg_start", "count": uint64(100), "percentage": 71.43},
			{"event": "reg_complete", "count": uint64(40), "percentage": 28.57},
		}},
	}})

	resp, err := NewFlowRegistrationLogic(context.Background(), s).FlowRegistration(&types.FlowQuery{ProjectId: id})
	if err != nil {
		t.Fatalf("FlowRegistration: %v", err)
	}
	if resp.TotalUsers != 100 || resp.ConversionRate != 40 || resp.DropOffRate != 60 {
		t.Fatalf("resp = %+v", resp)
	}
	if len(resp.TopEvents) != 2 || resp.TopEvents[0].Event != "reg_start" {
		t.Fatalf("top events = %+v", resp.TopEvents)
	}
}

func TestFlowFunnelReturnsOrderedSteps(t *testing.T) {
	s := newTestSvc(t)
	id := mustCreateProject(t, s, "checkout", "")
	s.SetEvents(&stubStore{routes: []stubRoute{
		{match: "reg_start", rows: []clix.Row{{"users": uint64(100)}}},
		{match: "email_input", rows: []clix.Row{{"users": uint64(80)}}},
		{match: "password_input", rows: []clix.Row{{"users": uint64(60)}}},
		{match: "email_sent", rows: []clix.Row{{"users": uint64(55)}}},
		{match: "email_verified", rows: []clix.Row{{"users": uint64(45)}}},
		{match: "reg_complete", rows: []clix.Row{{"users": uint64(40)}}},
	}})

	resp, err := NewFlowFunnelLogic(context.Background(), s).FlowFunnel(&types.FlowQuery{ProjectId: id})
	if err != nil {
		t.Fatalf("FlowFunnel: %v", err)
	}
	if len(resp.Steps) != 6 {
		t.Fatalf("steps = %d, want 6", len(resp.Steps))
	}
	first := resp.Steps[0]
	if first.Step != "Registration Start" || first.Users != 100 || first.ConversionRate != 100 || first.DropOffRate != 0 {
		t.Fatalf("first step = %+v", first)
	}
	second := resp.Steps[1]
	if second.Users != 80 || second.ConversionRate != 80 || second.DropOffRate != 20 {
		t.Fatalf("second step = %+v", second)
	}
}

func TestFlowPaymentAttachesFailureReasons(t *testing.T) {
	s := newTestSvc(t)
	id := mustCreateProject(t, s, "checkout", "")
	s.SetEvents(&stubStore{routes: []stubRoute{
		{match: "failure_reason", rows: []clix.Row{
			{"reason": "card_declined", "count": uint64(20)},
		}},
		{match: "'status'", rows: []clix.Row{
			{"status": "success", "count": uint64(70), "percentage": 70.0},
			{"status": "failed", "count": uint64(30), "percentage": 30.0},
		}},
	}})

	resp, err := NewFlowPaymentLogic(context.Background(), s).FlowPayment(&types.FlowQuery{ProjectId: id})
	if err != nil {
		t.Fatalf("FlowPayment: %v", err)
	}
	if len(resp.Statuses) != 2 {
		t.Fatalf("statuses = %+v", resp.Statuses)
	}
	if len(resp.Statuses[0].FailureReasons) != 0 {
		t.Fatalf("success row should carry no failure reasons: %+v", resp.Statuses[0])
	}
	failed := resp.Statuses[1]
	if failed.Status != "failed" || len(failed.FailureReasons) != 1 || failed.FailureReasons[0].Reason != "card_declined" {
		t.Fatalf("failed row = %+v", failed)
	}
}

func TestFlowQueryErrorSurfacesFromLogic(t *testing.T) {
	s := newTestSvc(t)
	id := mustCreateProject(t, s, "checkout", "")
	s.SetEvents(&stubStore{routes: []stubRoute{
		{match: "total_users", err: errors.New("clickhouse: connection refused")},
	}})

	_, err := NewFlowRegistrationLogic(context.Background(), s).FlowRegistration(&types.FlowQuery{ProjectId: id})
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("err = %v", err)
	}
}
