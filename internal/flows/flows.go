// Package flows computes funnel conversion, drop-off, and cohort-retention
// statistics for the self-serve flows (registration, payment, activation)
// from the append-only events table. Every function is a pure read
// projection: it composes clix queries, runs the independent ones
// concurrently, and reduces the raw rows into typed aggregates.
package flows

import (
	"math"
	"time"

	"github.com/flowlytics/flowlytics/internal/clix"
)

// FlowMetrics is the funnel-wide summary for a flow.
type FlowMetrics struct {
	TotalUsers     uint64     `json:"totalUsers"`
	ConversionRate float64    `json:"conversionRate"`
	DropOffRate    float64    `json:"dropOffRate"`
	AverageTime    float64    `json:"averageTime"`
	TopEvents      []TopEvent `json:"topEvents"`
}

// TopEvent is one entry of the top-events breakdown; Percentage is the
// share-of-total across the full scoped event set, not cumulative.
type TopEvent struct {
	Event      string  `json:"event"`
	Count      uint64  `json:"count"`
	Percentage float64 `json:"percentage"`
}

// FunnelStep carries per-step attrition. Rates are relative to the
// immediately preceding step, not to the funnel entry count.
type FunnelStep struct {
	Step           string  `json:"step"`
	Users          uint64  `json:"users"`
	ConversionRate float64 `json:"conversionRate"`
	DropOffRate    float64 `json:"dropOffRate"`
	AverageTime    float64 `json:"averageTime"`
}

// PaymentStatus is one observed payment status with its share of all scoped
// payment events. FailureReasons is only attached to failed rows and is the
// same global breakdown on each of them.
type PaymentStatus struct {
	Status         string          `json:"status"`
	Count          uint64          `json:"count"`
	Percentage     float64         `json:"percentage"`
	FailureReasons []FailureReason `json:"failureReasons,omitempty"`
}

type FailureReason struct {
	Reason string `json:"reason"`
	Count  uint64 `json:"count"`
}

// ActivationCohort is retention for one cohort of first-time users. Day-N
// values measure elapsed time against the wall clock at query time, so
// recent cohorts read low on the longer offsets until enough days pass.
type ActivationCohort struct {
	Cohort string  `json:"cohort"`
	Day1   float64 `json:"day1"`
	Day3   float64 `json:"day3"`
	Day7   float64 `json:"day7"`
	Day14  float64 `json:"day14"`
	Day30  float64 `json:"day30"`
}

// Overview combines the three self-serve flows.
type Overview struct {
	Registration FlowMetrics        `json:"registration"`
	Payment      []PaymentStatus    `json:"payment"`
	Activation   []ActivationCohort `json:"activation"`
}

type step struct {
	name  string
	label string
}

// Fixed per-flow vocabularies. These are data tables loaded once at process
// start; nothing redefines them at runtime.
var registrationSteps = []step{
	{name: "reg_start", label: "Registration Start"},
	{name: "email_input", label: "Email Input"},
	{name: "password_input", label: "Password Setup"},
	{name: "email_sent", label: "Email Verification Sent"},
	{name: "email_verified", label: "Email Verified"},
	{name: "reg_complete", label: "Registration Complete"},
}

var paymentEventNames = []string{
	"checkout.session.completed",
	"payment_intent.succeeded",
	"payment_intent.payment_failed",
	"checkout.session.expired",
}

var retentionOffsets = []int{1, 3, 7, 14, 30}

func registrationEventNames() []string {
	names := make([]string, len(registrationSteps))
	for i, s := range registrationSteps {
		names[i] = s.name
	}
	return names
}

// scopedEvents builds the shared scope predicate every flow query starts
// from: one project, one closed date range.
func scopedEvents(ex clix.Executor, timezone, projectID string, from, to time.Time) *clix.Builder {
	return clix.New(ex, timezone).
		From("events").
		Where("project_id", "=", projectID).
		Where("created_at", ">=", from).
		Where("created_at", "<=", to)
}

func firstRow(rows []clix.Row) clix.Row {
	if len(rows) == 0 {
		return clix.Row{}
	}
	return rows[0]
}

func roundPercent(val float64) float64 {
	return math.Round(val*100) / 100
}
