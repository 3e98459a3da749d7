package flows

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/flowlytics/flowlytics/internal/clix"
)

// SelfServeOverview runs the registration, payment, and activation flows
// concurrently and returns them as one composite. There is no partial
// tolerance: any constituent failure fails the whole overview.
func SelfServeOverview(ctx context.Context, ex clix.Executor, projectID string, from, to time.Time, timezone string) (Overview, error) {
	var out Overview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Registration, err = RegistrationMetrics(gctx, ex, projectID, from, to, timezone)
		return err
	})
	g.Go(func() (err error) {
		out.Payment, err = PaymentMetrics(gctx, ex, projectID, from, to, timezone)
		return err
	})
	g.Go(func() (err error) {
		out.Activation, err = ActivationCohorts(gctx, ex, projectID, from, to, timezone)
		return err
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}
	return out, nil
}
