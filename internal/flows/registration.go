package flows

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/flowlytics/flowlytics/internal/clix"
)

// RegistrationMetrics summarizes the registration funnel: entrants,
// completions, the conversion/drop-off split, and the top events by volume.
// The three sub-queries carry no data dependency and run concurrently; the
// first failure cancels the rest and fails the whole call.
func RegistrationMetrics(ctx context.Context, ex clix.Executor, projectID string, from, to time.Time, timezone string) (FlowMetrics, error) {
	base := scopedEvents(ex, timezone, projectID, from, to).
		Where("name", "IN", registrationEventNames())

	totalQuery := base.Clone().
		Select("count(distinct profile_id) AS total_users").
		Where("name", "=", "reg_start")

	completedQuery := base.Clone().
		Select("count(distinct profile_id) AS completed_users").
		Where("name", "=", "reg_complete")

	topEventsQuery := base.Clone().
		Select(
			"name AS event",
			"count(*) AS count",
			"count(*) * 100.0 / sum(count(*)) OVER () AS percentage",
		).
		GroupBy("name").
		OrderBy("count", "DESC").
		Limit(10)

	var totalRows, completedRows, eventRows []clix.Row
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totalRows, err = totalQuery.Execute(gctx)
		return err
	})
	g.Go(func() (err error) {
		completedRows, err = completedQuery.Execute(gctx)
		return err
	})
	g.Go(func() (err error) {
		eventRows, err = topEventsQuery.Execute(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return FlowMetrics{}, err
	}

	totalUsers := firstRow(totalRows).Uint64("total_users")
	completedUsers := firstRow(completedRows).Uint64("completed_users")

	metrics := FlowMetrics{
		TotalUsers: totalUsers,
		TopEvents:  make([]TopEvent, 0, len(eventRows)),
	}
	if totalUsers > 0 {
		metrics.ConversionRate = roundPercent(float64(completedUsers) * 100.0 / float64(totalUsers))
		metrics.DropOffRate = roundPercent(100.0 - metrics.ConversionRate)
	}
	for _, row := range eventRows {
		metrics.TopEvents = append(metrics.TopEvents, TopEvent{
			Event:      row.String("event"),
			Count:      row.Uint64("count"),
			Percentage: roundPercent(row.Float64("percentage")),
		})
	}
	return metrics, nil
}
