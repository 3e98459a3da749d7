package flows

import (
	"context"
	"time"

	"github.com/flowlytics/flowlytics/internal/clix"
)

// FunnelSteps computes the registration funnel one step at a time, in the
// fixed step order. Each step's rates are relative to the preceding step's
// user count, so the queries run strictly sequentially. A step with zero
// users does not stop the walk; later steps just convert at 0%.
func FunnelSteps(ctx context.Context, ex clix.Executor, projectID string, from, to time.Time, timezone string) ([]FunnelStep, error) {
	results := make([]FunnelStep, 0, len(registrationSteps))
	for i, st := range registrationSteps {
		rows, err := scopedEvents(ex, timezone, projectID, from, to).
			Select("count(distinct profile_id) AS users").
			Where("name", "=", st.name).
			Execute(ctx)
		if err != nil {
			return nil, err
		}
		users := firstRow(rows).Uint64("users")

		conversionRate := 100.0
		dropOffRate := 0.0
		if i > 0 {
			prevUsers := results[i-1].Users
			if prevUsers > 0 {
				conversionRate = roundPercent(float64(users) * 100.0 / float64(prevUsers))
			} else {
				conversionRate = 0
			}
			dropOffRate = roundPercent(100.0 - conversionRate)
		}

		results = append(results, FunnelStep{
			Step:           st.label,
			Users:          users,
			ConversionRate: conversionRate,
			DropOffRate:    dropOffRate,
		})
	}
	return results, nil
}
