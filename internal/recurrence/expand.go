package recurrence

import (
	"sort"
	"time"
)

// Expand materializes the occurrence dates for a pattern anchored at the given
// date. The result is ascending, duplicate-free, starts on or after the anchor
// and never exceeds MaxOccurrences entries, regardless of the end condition.
//
// A zero anchor or a pattern that fails validation yields an empty sequence so
// callers can show "no preview available" instead of failing.
func Expand(p Pattern, anchor time.Time) []time.Time {
	if anchor.IsZero() || p.Validate() != nil {
		return nil
	}

	limit := MaxOccurrences
	if p.End.Kind == EndAfterCount && p.End.Count < limit {
		limit = p.End.Count
	}

	gen := generator{
		anchor: anchor,
		limit:  limit,
	}
	if p.End.Kind == EndUntilDate {
		gen.until = *p.End.Until
	}

	switch effectiveType(p) {
	case Daily:
		gen.daily(p.Interval)
	case Weekly:
		gen.weekly(p.Interval, effectiveWeekdays(p))
	case Monthly:
		if p.MonthlyMode == ByWeekday {
			gen.monthlyByWeekday(p.Interval)
		} else {
			gen.monthlyByDate(p.Interval)
		}
	}

	return gen.dates
}

// effectiveType collapses custom patterns onto daily or weekly behavior:
// weekday selection makes them weekly, otherwise they repeat daily.
func effectiveType(p Pattern) Type {
	if p.Type != Custom {
		return p.Type
	}
	if len(p.Weekdays) > 0 {
		return Weekly
	}
	return Daily
}

// effectiveWeekdays falls back to the anchor's own weekday when none are
// selected.
func effectiveWeekdays(p Pattern) []time.Weekday {
	if len(p.Weekdays) == 0 {
		return nil
	}
	seen := make(map[time.Weekday]bool, len(p.Weekdays))
	days := make([]time.Weekday, 0, len(p.Weekdays))
	for _, d := range p.Weekdays {
		wd := time.Weekday(d)
		if !seen[wd] {
			seen[wd] = true
			days = append(days, wd)
		}
	}
	sort.Slice(days, func(i, j int) bool {
		return mondayIndex(days[i]) < mondayIndex(days[j])
	})
	return days
}

type generator struct {
	anchor time.Time
	until  time.Time // zero when the pattern has no until date
	limit  int
	dates  []time.Time
}

// emit appends a candidate occurrence. It returns false once generation must
// stop, either because the until date was passed or the cap was reached.
// Candidates before the anchor are skipped but do not stop generation.
func (g *generator) emit(d time.Time) bool {
	if d.Before(g.anchor) {
		return true
	}
	if !g.until.IsZero() && dayAfter(d, g.until) {
		return false
	}
	g.dates = append(g.dates, d)
	return len(g.dates) < g.limit
}

func (g *generator) daily(interval int) {
	for k := 0; ; k++ {
		if !g.emit(g.anchor.AddDate(0, 0, k*interval)) {
			return
		}
	}
}

func (g *generator) weekly(interval int, days []time.Weekday) {
	if len(days) == 0 {
		days = []time.Weekday{g.anchor.Weekday()}
	}
	// Weeks run Mon..Sun and are counted from the anchor's week, so an
	// every-2-weeks rule skips whole calendar weeks, not 14-day windows.
	weekStart := g.anchor.AddDate(0, 0, -mondayIndex(g.anchor.Weekday()))
	for w := 0; ; w++ {
		start := weekStart.AddDate(0, 0, w*interval*7)
		for _, d := range days {
			if !g.emit(start.AddDate(0, 0, mondayIndex(d))) {
				return
			}
		}
	}
}

// monthlyByDate repeats on the anchor's day-of-month. Months with fewer days
// clamp to their last day (anchor Jan 31 recurs on Feb 29 in a leap year).
func (g *generator) monthlyByDate(interval int) {
	year, month, day := g.anchor.Date()
	hour, min, sec := g.anchor.Clock()
	for k := 0; ; k++ {
		first := time.Date(year, month+time.Month(k*interval), 1, 0, 0, 0, 0, g.anchor.Location())
		d := day
		if last := daysInMonth(first.Month(), first.Year()); d > last {
			d = last
		}
		occ := time.Date(first.Year(), first.Month(), d, hour, min, sec, 0, g.anchor.Location())
		if !g.emit(occ) {
			return
		}
	}
}

// monthlyByWeekday repeats on the Nth weekday of the month, N derived from the
// anchor (day 1-7 is the 1st, 8-14 the 2nd, ...). Months without an Nth
// occurrence of that weekday are skipped.
func (g *generator) monthlyByWeekday(interval int) {
	weekday := g.anchor.Weekday()
	nth := (g.anchor.Day() + 6) / 7
	year, month, _ := g.anchor.Date()
	hour, min, sec := g.anchor.Clock()
	for k := 0; ; k++ {
		first := time.Date(year, month+time.Month(k*interval), 1, 0, 0, 0, 0, g.anchor.Location())
		day, ok := nthWeekdayOfMonth(first.Year(), first.Month(), weekday, nth)
		if !ok {
			continue
		}
		occ := time.Date(first.Year(), first.Month(), day, hour, min, sec, 0, g.anchor.Location())
		if !g.emit(occ) {
			return
		}
	}
}

// nthWeekdayOfMonth returns the day-of-month of the nth given weekday, or
// false when the month has no nth occurrence (n = 5 in most months).
func nthWeekdayOfMonth(year int, month time.Month, weekday time.Weekday, nth int) (int, bool) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	day := 1 + offset + (nth-1)*7
	if day > daysInMonth(month, year) {
		return 0, false
	}
	return day, true
}

func daysInMonth(month time.Month, year int) int {
	// Move to next month, roll back a day.
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return firstOfMonth.AddDate(0, 1, -1).Day()
}

// dayAfter reports whether a falls on a later calendar day than b, ignoring
// the time of day, so an until date admits occurrences on the date itself.
func dayAfter(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay > by
	}
	if am != bm {
		return am > bm
	}
	return ad > bd
}
