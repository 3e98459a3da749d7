package flows

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/flowlytics/flowlytics/internal/clix"
)

// PaymentMetrics groups payment events by the status carried in the event
// payload and attaches the failure-reason breakdown to failed rows. The
// breakdown is a single global aggregate, repeated verbatim on every failed
// row rather than re-scoped per row. Status and reason are free-form strings
// from the payload; events without a reason are excluded from the breakdown.
func PaymentMetrics(ctx context.Context, ex clix.Executor, projectID string, from, to time.Time, timezone string) ([]PaymentStatus, error) {
	statusQuery := scopedEvents(ex, timezone, projectID, from, to).
		Select(
			"JSONExtractString(properties, 'status') AS status",
			"count(*) AS count",
			"count(*) * 100.0 / sum(count(*)) OVER () AS percentage",
		).
		Where("name", "IN", paymentEventNames).
		GroupBy("status")

	failureQuery := scopedEvents(ex, timezone, projectID, from, to).
		Select(
			"JSONExtractString(properties, 'failure_reason') AS reason",
			"count(*) AS count",
		).
		Where("name", "=", "payment_intent.payment_failed").
		Where("JSONExtractString(properties, 'failure_reason')", "!=", "").
		GroupBy("reason").
		OrderBy("count", "DESC")

	var statusRows, failureRows []clix.Row
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		statusRows, err = statusQuery.Execute(gctx)
		return err
	})
	g.Go(func() (err error) {
		failureRows, err = failureQuery.Execute(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	reasons := make([]FailureReason, 0, len(failureRows))
	for _, row := range failureRows {
		reasons = append(reasons, FailureReason{
			Reason: row.String("reason"),
			Count:  row.Uint64("count"),
		})
	}

	statuses := make([]PaymentStatus, 0, len(statusRows))
	for _, row := range statusRows {
		item := PaymentStatus{
			Status:     row.String("status"),
			Count:      row.Uint64("count"),
			Percentage: roundPercent(row.Float64("percentage")),
		}
		if item.Status == "failed" {
			item.FailureReasons = reasons
		}
		statuses = append(statuses, item)
	}
	return statuses, nil
}
