// Package recurring turns fixed-cost templates (rent, subscriptions) into
// queued receipt drafts on their schedule.
package recurring

import (
	"fmt"
	"time"

	"kakeibo/internal/core"
)

// DuenessChecker decides whether a template should produce a draft now,
// given when it last did.
type DuenessChecker interface {
	IsDue(lastExecution, now time.Time, startDate core.Date) bool
}

// DailyChecker fires once per calendar day.
type DailyChecker struct{}

func (DailyChecker) IsDue(lastExecution, now time.Time, _ core.Date) bool {
	if lastExecution.IsZero() {
		return true
	}
	return lastExecution.Format("2006-01-02") != now.Format("2006-01-02")
}

// WeeklyChecker fires when 7 or more days have passed since the last run.
type WeeklyChecker struct{}

func (WeeklyChecker) IsDue(lastExecution, now time.Time, _ core.Date) bool {
	if lastExecution.IsZero() {
		return true
	}
	return now.Sub(lastExecution).Hours()/24 >= 7
}

// MonthlyChecker fires once per month, on the template's start day. Months
// shorter than the start day fire on their last day instead.
type MonthlyChecker struct{}

func (MonthlyChecker) IsDue(lastExecution, now time.Time, startDate core.Date) bool {
	if lastExecution.IsZero() {
		return true
	}

	if lastExecution.Year() == now.Year() && lastExecution.Month() == now.Month() {
		return false
	}

	return now.Day() >= clampDay(startDate.Day(), now)
}

// YearlyChecker fires once per year, on the template's start month and day.
type YearlyChecker struct{}

func (YearlyChecker) IsDue(lastExecution, now time.Time, startDate core.Date) bool {
	if lastExecution.IsZero() {
		return true
	}

	if lastExecution.Year() == now.Year() {
		return false
	}

	if now.Month() < startDate.Month() {
		return false
	}
	if now.Month() == startDate.Month() {
		return now.Day() >= clampDay(startDate.Day(), now)
	}
	return true
}

// clampDay keeps a target day of month inside the current month, so a
// template anchored on the 31st still fires in February.
func clampDay(day int, now time.Time) int {
	lastDay := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()
	if day > lastDay {
		return lastDay
	}
	return day
}

var checkers = map[core.Frequency]DuenessChecker{
	core.Daily:   DailyChecker{},
	core.Weekly:  WeeklyChecker{},
	core.Monthly: MonthlyChecker{},
	core.Yearly:  YearlyChecker{},
}

// CheckerFor returns the checker for a frequency.
func CheckerFor(frequency core.Frequency) (DuenessChecker, error) {
	checker, ok := checkers[frequency]
	if !ok {
		return nil, fmt.Errorf("unknown frequency: %s", frequency)
	}
	return checker, nil
}
