package logic

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/flowlytics/flowlytics/internal/clix"
	projrepo "github.com/flowlytics/flowlytics/internal/repo/gorm/projects"
	"github.com/flowlytics/flowlytics/services/dashboard/internal/svc"
	"github.com/flowlytics/flowlytics/services/dashboard/internal/types"
)

// flowScope is the validated, parsed form of a FlowQuery.
type flowScope struct {
	projectID string
	from      time.Time
	to        time.Time
	timezone  string
}

// resolveFlowScope validates the query against the projects registry and
// fills in the default date range and timezone.
func resolveFlowScope(ctx context.Context, svcCtx *svc.ServiceContext, req *types.FlowQuery) (flowScope, error) {
	projectID := strings.TrimSpace(req.ProjectId)
	if projectID == "" {
		return flowScope{}, ErrInvalidRequest
	}
	tz := strings.TrimSpace(req.Timezone)
	if tz == "" {
		tz = "UTC"
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return flowScope{}, ErrInvalidRequest
	}
	from, to, err := parseRange(req.From, req.To, svcCtx.Config.Flows.DefaultRangeDays)
	if err != nil {
		return flowScope{}, err
	}
	if repo := svcCtx.Projects(); repo != nil {
		if _, err := repo.Get(ctx, projectID); err != nil {
			if errors.Is(err, projrepo.ErrNotFound) {
				return flowScope{}, ErrProjectNotFound
			}
			return flowScope{}, err
		}
	}
	return flowScope{projectID: projectID, from: from, to: to, timezone: tz}, nil
}

// parseRange accepts RFC3339 or plain dates; an omitted range defaults to the
// trailing defaultDays window ending now.
func parseRange(from, to string, defaultDays int) (time.Time, time.Time, error) {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if from == "" && to == "" {
		if defaultDays <= 0 {
			defaultDays = 30
		}
		t2 := time.Now().UTC()
		return t2.Add(-time.Duration(defaultDays) * 24 * time.Hour), t2, nil
	}
	if from == "" || to == "" {
		return time.Time{}, time.Time{}, ErrInvalidRequest
	}
	t1, err := parseTimestamp(from)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidRequest
	}
	t2, err := parseTimestamp(to)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidRequest
	}
	if t2.Before(t1) {
		return time.Time{}, time.Time{}, ErrInvalidRequest
	}
	return t1, t2, nil
}

func parseTimestamp(val string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", val)
}

// eventStore returns the executor or ErrStoreUnavailable when ClickHouse was
// never configured.
func eventStore(svcCtx *svc.ServiceContext) (clix.Executor, error) {
	ex := svcCtx.Events()
	if ex == nil {
		return nil, ErrStoreUnavailable
	}
	return ex, nil
}
