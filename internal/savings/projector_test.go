package savings

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestProjector() *Projector {
	return New(WithClock(func() time.Time { return fixedNow }))
}

func TestProjectTwelveMonthsAtTenPercent(t *testing.T) {
	deadline := fixedNow.AddDate(0, 0, 360)
	p := newTestProjector().Project(dec("12000"), decimal.Zero, deadline, dec("10000"))

	if p.DaysLeft != 360 || p.MonthsLeft != 12 || p.WeeksLeft != 52 {
		t.Fatalf("periods = %d/%d/%d, want 360/12/52", p.DaysLeft, p.MonthsLeft, p.WeeksLeft)
	}
	if !p.Monthly.Equal(dec("1000")) {
		t.Fatalf("monthly = %s, want 1000", p.Monthly)
	}
	if !p.Weekly.Equal(dec("231")) {
		t.Fatalf("weekly = %s, want 231", p.Weekly)
	}
	if p.IncomePercentage == nil || !p.IncomePercentage.Equal(dec("10")) {
		t.Fatalf("income percentage = %v, want 10", p.IncomePercentage)
	}
	if p.Feasibility != EasilyAchievable {
		t.Fatalf("feasibility = %q, want %q at the 10%% boundary", p.Feasibility, EasilyAchievable)
	}
}

func TestProjectRoundsUpToWholeUnits(t *testing.T) {
	deadline := fixedNow.AddDate(0, 0, 90)
	p := newTestProjector().Project(dec("1000"), dec("0.5"), deadline, dec("5000"))
	// 999.5 / 3 months = 333.17 -> 334
	if !p.Monthly.Equal(dec("334")) {
		t.Fatalf("monthly = %s, want 334", p.Monthly)
	}
	// 999.5 / 13 weeks = 76.88 -> 77
	if !p.Weekly.Equal(dec("77")) {
		t.Fatalf("weekly = %s, want 77", p.Weekly)
	}
}

func TestProjectPartialDayCountsAsFullDay(t *testing.T) {
	deadline := fixedNow.Add(30*24*time.Hour + time.Hour)
	p := newTestProjector().Project(dec("100"), decimal.Zero, deadline, dec("1000"))
	if p.DaysLeft != 31 || p.MonthsLeft != 2 {
		t.Fatalf("days/months = %d/%d, want 31/2", p.DaysLeft, p.MonthsLeft)
	}
}

func TestProjectWithoutIncome(t *testing.T) {
	deadline := fixedNow.AddDate(0, 0, 60)
	p := newTestProjector().Project(dec("1000"), dec("400"), deadline, decimal.Zero)

	if p.Feasibility != Indeterminate {
		t.Fatalf("feasibility = %q, want %q", p.Feasibility, Indeterminate)
	}
	if p.IncomePercentage != nil {
		t.Fatalf("income percentage should be absent, got %s", p.IncomePercentage)
	}
	// Falls back to target/12 and target/52, ignoring what is already saved.
	if !p.Monthly.Equal(dec("84")) || !p.Weekly.Equal(dec("20")) {
		t.Fatalf("monthly/weekly = %s/%s, want 84/20", p.Monthly, p.Weekly)
	}
}

func TestProjectPastDeadlineIsDegenerateNotRejected(t *testing.T) {
	deadline := fixedNow.AddDate(0, 0, -45)
	p := newTestProjector().Project(dec("6000"), dec("1000"), deadline, dec("10000"))

	if p.DaysLeft != -45 {
		t.Fatalf("days left = %d, want -45", p.DaysLeft)
	}
	if p.MonthsLeft != 1 || p.WeeksLeft != 1 {
		t.Fatalf("periods should clamp to 1, got %d/%d", p.MonthsLeft, p.WeeksLeft)
	}
	if !p.Monthly.Equal(dec("5000")) || !p.Weekly.Equal(dec("5000")) {
		t.Fatalf("whole remaining amount should be due, got %s/%s", p.Monthly, p.Weekly)
	}
	if p.Feasibility != Challenging {
		t.Fatalf("feasibility = %q, want challenging", p.Feasibility)
	}
}

func TestClassifyThresholds(t *testing.T) {
	tests := []struct {
		pct  string
		want Feasibility
	}{
		{"0", EasilyAchievable},
		{"10", EasilyAchievable},
		{"10.01", Reasonable},
		{"20", Reasonable},
		{"20.5", Moderate},
		{"30", Moderate},
		{"30.01", Challenging},
		{"250", Challenging},
	}
	for _, tt := range tests {
		t.Run(tt.pct, func(t *testing.T) {
			if got := Classify(dec(tt.pct)); got != tt.want {
				t.Errorf("Classify(%s) = %q, want %q", tt.pct, got, tt.want)
			}
		})
	}
}

func TestProjectIsDeterministic(t *testing.T) {
	p := newTestProjector()
	deadline := fixedNow.AddDate(0, 6, 0)
	a := p.Project(dec("5000"), dec("100"), deadline, dec("3000"))
	b := p.Project(dec("5000"), dec("100"), deadline, dec("3000"))
	if !a.Monthly.Equal(b.Monthly) || !a.Weekly.Equal(b.Weekly) || a.Feasibility != b.Feasibility ||
		!a.IncomePercentage.Equal(*b.IncomePercentage) {
		t.Fatalf("projections differ: %+v vs %+v", a, b)
	}
}
