package calendar

import (
	"context"
	"errors"
	"time"

	"transport-service/internal/clock"
)

// Verdict is the oracle's answer for one date. Reason is set only when
// the date is not a school day.
type Verdict struct {
	IsSchoolDay bool   `json:"isSchoolDay"`
	Reason      string `json:"reason,omitempty"`
}

// Canonical reasons for the rules the oracle owns. Non-school days from
// the admin table carry their stored reason instead.
const (
	ReasonWeekend      = "Weekend"
	ReasonOutsideYear  = "Outside school year"
	ReasonMidYearBreak = "Mid-year break"
)

// Oracle classifies a date as school day or not via a fixed-priority,
// short-circuiting rule chain:
//
//  1. weekend
//  2. exact match in the non-school-day table
//  3. outside the configured school year (inclusive range)
//  4. inside the configured mid-year break (inclusive range)
//
// It only reads; it never writes.
type Oracle struct {
	repo Repository
}

func NewOracle(repo Repository) *Oracle {
	return &Oracle{repo: repo}
}

func (o *Oracle) IsSchoolDay(ctx context.Context, date time.Time) (Verdict, error) {
	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return Verdict{Reason: ReasonWeekend}, nil
	}

	day := date.Format(clock.DateLayout)

	nonSchoolDay, err := o.repo.FindNonSchoolDay(ctx, day)
	if err != nil && !errors.Is(err, ErrDayNotFound) {
		return Verdict{}, err
	}
	if nonSchoolDay != nil {
		return Verdict{Reason: nonSchoolDay.Reason}, nil
	}

	cfg, err := o.repo.GetConfig(ctx)
	if err != nil {
		// Absent config disables the range rules, it is not an error.
		if errors.Is(err, ErrConfigAbsent) {
			return Verdict{IsSchoolDay: true}, nil
		}
		return Verdict{}, err
	}

	// YYYY-MM-DD strings compare in date order.
	if cfg.SchoolYearStart != "" && cfg.SchoolYearEnd != "" {
		if day < cfg.SchoolYearStart || day > cfg.SchoolYearEnd {
			return Verdict{Reason: ReasonOutsideYear}, nil
		}
	}

	if cfg.MidYearBreakStart != "" && cfg.MidYearBreakEnd != "" {
		if day >= cfg.MidYearBreakStart && day <= cfg.MidYearBreakEnd {
			return Verdict{Reason: ReasonMidYearBreak}, nil
		}
	}

	return Verdict{IsSchoolDay: true}, nil
}
