package services

import "time"

// WeekIdentifier returns the Monday of t's ISO week as YYYY-MM-DD. Sundays
// count as day 7 of the previous week, so their Monday is six days back.
// This single helper keys the weekly submission guard, the leaderboard and
// record creation so all three agree on period boundaries.
func WeekIdentifier(t time.Time) string {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	wd := int(d.Weekday())
	var monday time.Time
	if wd == 0 {
		monday = d.AddDate(0, 0, -6)
	} else {
		monday = d.AddDate(0, 0, 1-wd)
	}
	return monday.Format("2006-01-02")
}

// MonthIdentifier returns t's month as YYYY-MM, the monthly-rewards period key.
func MonthIdentifier(t time.Time) string {
	return t.Format("2006-01")
}

// NextSubmissionDate returns the day the weekly submission window reopens:
// the Sunday following t.
func NextSubmissionDate(t time.Time) string {
	next := t.AddDate(0, 0, 7-int(t.Weekday()))
	return next.Format("2006-01-02")
}
