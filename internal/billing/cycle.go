// Package billing implements the card billing-cycle calculator, the
// split-payment installment planner, and the statement aggregator. All
// functions are pure and operate on in-memory values; persistence belongs
// to the service layer.
package billing

import (
	"fmt"
	"time"
)

// Cycle is one statement period for a card, derived from its withdraw day.
// Membership is inclusive on both ends.
type Cycle struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether d falls within the cycle (Start <= d <= End).
func (c Cycle) Contains(d time.Time) bool {
	return !d.Before(c.Start) && !d.After(c.End)
}

// CycleFor returns the billing cycle that contains date for a card whose
// statement closes on withdrawDay. The candidate boundary is the (clamped)
// withdraw day in the same month as date; if it is on-or-before date the
// cycle starts there, otherwise the cycle starts at the previous month's
// boundary. A date exactly on a boundary belongs to the cycle that starts
// that day.
//
// withdrawDay must be in [1, 31]; anything else is a caller bug and panics.
func CycleFor(date time.Time, withdrawDay int) Cycle {
	if withdrawDay < 1 || withdrawDay > 31 {
		panic(fmt.Sprintf("billing: withdraw day %d out of range [1, 31]", withdrawDay))
	}

	candidate := boundary(date.Year(), date.Month(), withdrawDay, date.Location())
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	if !candidate.After(day) {
		next := boundary(date.Year(), date.Month()+1, withdrawDay, date.Location())
		return Cycle{Start: candidate, End: next}
	}
	prev := boundary(date.Year(), date.Month()-1, withdrawDay, date.Location())
	return Cycle{Start: prev, End: candidate}
}

// boundary returns midnight of the cycle boundary in the given month,
// clamping withdrawDay to the month's length (day 31 in February becomes
// Feb 28/29). month may be 0 or 13; time.Date normalizes it.
func boundary(year int, month time.Month, withdrawDay int, loc *time.Location) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	day := withdrawDay
	if last := daysIn(first.Year(), first.Month(), loc); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, loc)
}

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month, loc *time.Location) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// AddMonths advances t by the given number of calendar months, clamping the
// day-of-month when the target month is shorter (Jan 31 + 1 -> Feb 28/29).
// This differs from time.AddDate, which normalizes overflow into the
// following month.
func AddMonths(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	day := t.Day()
	if last := daysIn(first.Year(), first.Month(), t.Location()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
