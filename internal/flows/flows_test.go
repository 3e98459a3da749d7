package flows

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/flowlytics/flowlytics/internal/clix"
)

// fakeExecutor routes each query to canned rows by matching a substring
// against the rendered SQL plus its bind args. Matching instead of queueing
// keeps results deterministic when the engine fans queries out concurrently.
type route struct {
	match string
	rows  []clix.Row
	err   error
}

type fakeExecutor struct {
	mu      sync.Mutex
	routes  []route
	queries []string
}

func (f *fakeExecutor) Query(_ context.Context, sql string, args ...any) ([]clix.Row, error) {
	f.mu.Lock()
	f.queries = append(f.queries, sql)
	f.mu.Unlock()
	hay := sql + " " + fmt.Sprint(args...)
	for _, r := range f.routes {
		if strings.Contains(hay, r.match) {
			return r.rows, r.err
		}
	}
	return nil, nil
}

func (f *fakeExecutor) queryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

var (
	testFrom = time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	testTo   = time.Date(2026, 7, 31, 23, 59, 59, 0, time.UTC)
)

func approxEqual(a, b float64) bool {
	const eps = 1e-9
	if a > b {
		return a-b < eps
	}
	return b-a < eps
}

func errContains(err error, sub string) bool {
	return err != nil && strings.Contains(err.Error(), sub)
}
