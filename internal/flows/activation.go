package flows

import (
	"context"
	"fmt"
	"time"

	"github.com/flowlytics/flowlytics/internal/clix"
)

type cohortGranularity struct {
	name string
	// truncExpr renders the cohort_date expression for a timezone.
	truncExpr string
}

var cohortGranularities = []cohortGranularity{
	{name: "week", truncExpr: "toStartOfWeek(created_at, 1, '%s') AS cohort_date"},
	{name: "month", truncExpr: "toStartOfMonth(created_at, '%s') AS cohort_date"},
}

// ActivationCohorts computes cohort retention for first-login users, once per
// granularity (week, then month), concatenated into one sequence. Day-N
// retention compares each profile's first login against today() on the
// server, so cohorts younger than N days read 0 on that offset by
// construction; that skew is part of the measurement, not corrected here.
func ActivationCohorts(ctx context.Context, ex clix.Executor, projectID string, from, to time.Time, timezone string) ([]ActivationCohort, error) {
	results := make([]ActivationCohort, 0)
	for _, gran := range cohortGranularities {
		gran := gran
		selects := []string{
			"cohort_date",
			"count(distinct profile_id) AS total_users",
		}
		for _, n := range retentionOffsets {
			selects = append(selects, fmt.Sprintf(
				"count(distinct case when dateDiff('day', first_login, today()) >= %d then profile_id end) * 100.0 / count(distinct profile_id) AS day%d",
				n, n,
			))
		}

		query := clix.New(ex, timezone).
			With("first_logins", func(qb *clix.Builder) *clix.Builder {
				return qb.From("events").
					Select(
						"profile_id",
						fmt.Sprintf(gran.truncExpr, qb.Timezone()),
						"min(created_at) AS first_login",
					).
					Where("project_id", "=", projectID).
					Where("name", "=", "first_login").
					Where("created_at", ">=", from).
					Where("created_at", "<=", to).
					GroupBy("profile_id", "cohort_date")
			}).
			From("first_logins").
			Select(selects...).
			GroupBy("cohort_date").
			OrderBy("cohort_date", "DESC")

		rows, err := query.Execute(ctx)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			results = append(results, ActivationCohort{
				Cohort: gran.name + ": " + cohortLabel(row),
				Day1:   roundPercent(row.Float64("day1")),
				Day3:   roundPercent(row.Float64("day3")),
				Day7:   roundPercent(row.Float64("day7")),
				Day14:  roundPercent(row.Float64("day14")),
				Day30:  roundPercent(row.Float64("day30")),
			})
		}
	}
	return results, nil
}

func cohortLabel(row clix.Row) string {
	if t := row.Time("cohort_date"); !t.IsZero() {
		return t.Format("2006-01-02")
	}
	return row.String("cohort_date")
}
