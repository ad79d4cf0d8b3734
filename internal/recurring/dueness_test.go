package recurring

import (
	"testing"
	"time"

	"kakeibo/internal/core"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 12, 0, 0, 0, time.UTC)
}

func TestDailyChecker(t *testing.T) {
	checker := DailyChecker{}
	start := core.NewDate(2026, 1, 1)

	tests := []struct {
		name          string
		lastExecution time.Time
		now           time.Time
		want          bool
	}{
		{"never executed", time.Time{}, date(2026, 8, 29), true},
		{"executed yesterday", date(2026, 8, 28), date(2026, 8, 29), true},
		{"executed today", date(2026, 8, 29), date(2026, 8, 29), false},
		{"executed earlier today", date(2026, 8, 29).Add(-3 * time.Hour), date(2026, 8, 29), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.IsDue(tt.lastExecution, tt.now, start); got != tt.want {
				t.Errorf("IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeeklyChecker(t *testing.T) {
	checker := WeeklyChecker{}
	start := core.NewDate(2026, 1, 1)

	tests := []struct {
		name          string
		lastExecution time.Time
		now           time.Time
		want          bool
	}{
		{"never executed", time.Time{}, date(2026, 8, 29), true},
		{"six days ago", date(2026, 8, 23), date(2026, 8, 29), false},
		{"seven days ago", date(2026, 8, 22), date(2026, 8, 29), true},
		{"two weeks ago", date(2026, 8, 15), date(2026, 8, 29), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.IsDue(tt.lastExecution, tt.now, start); got != tt.want {
				t.Errorf("IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMonthlyChecker(t *testing.T) {
	checker := MonthlyChecker{}

	tests := []struct {
		name          string
		lastExecution time.Time
		now           time.Time
		startDate     core.Date
		want          bool
	}{
		{"never executed", time.Time{}, date(2026, 8, 29), core.NewDate(2026, 1, 15), true},
		{"already this month", date(2026, 8, 15), date(2026, 8, 29), core.NewDate(2026, 1, 15), false},
		{"new month, target reached", date(2026, 7, 15), date(2026, 8, 15), core.NewDate(2026, 1, 15), true},
		{"new month, before target day", date(2026, 7, 15), date(2026, 8, 10), core.NewDate(2026, 1, 15), false},
		{"target 31st in february", date(2026, 1, 31), date(2026, 2, 28), core.NewDate(2026, 1, 31), true},
		{"target 31st, february not ended", date(2026, 1, 31), date(2026, 2, 20), core.NewDate(2026, 1, 31), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.IsDue(tt.lastExecution, tt.now, tt.startDate); got != tt.want {
				t.Errorf("IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestYearlyChecker(t *testing.T) {
	checker := YearlyChecker{}

	tests := []struct {
		name          string
		lastExecution time.Time
		now           time.Time
		startDate     core.Date
		want          bool
	}{
		{"never executed", time.Time{}, date(2026, 8, 29), core.NewDate(2024, 4, 1), true},
		{"already this year", date(2026, 4, 1), date(2026, 8, 29), core.NewDate(2024, 4, 1), false},
		{"new year, before target month", date(2025, 4, 1), date(2026, 3, 20), core.NewDate(2024, 4, 1), false},
		{"new year, target month and day", date(2025, 4, 1), date(2026, 4, 1), core.NewDate(2024, 4, 1), true},
		{"new year, past target month", date(2025, 4, 1), date(2026, 6, 1), core.NewDate(2024, 4, 1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.IsDue(tt.lastExecution, tt.now, tt.startDate); got != tt.want {
				t.Errorf("IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckerFor(t *testing.T) {
	for _, freq := range []core.Frequency{core.Daily, core.Weekly, core.Monthly, core.Yearly} {
		if _, err := CheckerFor(freq); err != nil {
			t.Errorf("CheckerFor(%s) error = %v", freq, err)
		}
	}
	if _, err := CheckerFor(core.Frequency("fortnightly")); err == nil {
		t.Error("CheckerFor(fortnightly) expected error")
	}
}
