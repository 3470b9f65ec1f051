// Package usage reports embedding token consumption against the
// configured budget.
package usage

import (
	"context"
	"time"
)

// Period selects the reporting window.
type Period string

const (
	// PeriodDay reports the current UTC day.
	PeriodDay Period = "day"
	// PeriodMonth reports the current UTC month.
	PeriodMonth Period = "month"
)

// Report describes token consumption for one period.
// Limit 0 means unlimited; Remaining is -1 in that case.
type Report struct {
	Period      Period
	PeriodStart int64 // unix millis
	PeriodEnd   int64 // unix millis
	TokensUsed  int64
	TokenLimit  int64
	Remaining   int64
	Exhausted   bool
}

// Service handles usage reporting.
type Service struct {
	br BudgetReader
}

// New creates a Service. br can be nil (unlimited mode).
func New(br BudgetReader) *Service {
	return &Service{br: br}
}

// GetReport builds a usage report for the given period. Unknown periods
// report the day window.
func (s *Service) GetReport(_ context.Context, period Period) Report {
	now := time.Now().UTC()

	var start, end time.Time
	var limit, used, remaining int64

	switch period {
	case PeriodMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, 0)
		if s.br != nil {
			limit = s.br.MonthlyLimit()
			used = s.br.MonthlyUsed()
			remaining = s.br.RemainingMonthly()
		}
	default:
		period = PeriodDay
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		end = start.Add(24 * time.Hour)
		if s.br != nil {
			limit = s.br.DailyLimit()
			used = s.br.DailyUsed()
			remaining = s.br.RemainingDaily()
		}
	}

	if s.br == nil {
		remaining = -1
	}

	return Report{
		Period:      period,
		PeriodStart: start.UnixMilli(),
		PeriodEnd:   end.UnixMilli(),
		TokensUsed:  used,
		TokenLimit:  limit,
		Remaining:   remaining,
		Exhausted:   limit > 0 && remaining <= 0,
	}
}
