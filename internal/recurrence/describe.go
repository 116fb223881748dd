package recurrence

import (
	"fmt"
	"strings"
)

// Describe renders a short human-readable summary of a pattern, e.g.
// "Weekly on Mon, Wed for 10 occurrences" or
// "Every 2 months (by weekday) until Dec 31, 2024".
func Describe(p Pattern) string {
	var text string

	switch p.Type {
	case Daily:
		if p.Interval == 1 {
			text = "Daily"
		} else {
			text = fmt.Sprintf("Every %d days", p.Interval)
		}
	case Weekly:
		if p.Interval == 1 {
			text = "Weekly"
		} else {
			text = fmt.Sprintf("Every %d weeks", p.Interval)
		}
		if len(p.Weekdays) > 0 {
			text += " on " + dayList(p)
		}
	case Monthly:
		if p.Interval == 1 {
			text = "Monthly"
		} else {
			text = fmt.Sprintf("Every %d months", p.Interval)
		}
		if p.MonthlyMode == ByWeekday {
			text += " (by weekday)"
		}
	case Custom:
		if len(p.Weekdays) > 0 {
			text = "Custom: " + dayList(p)
		} else {
			text = "Daily (custom)"
		}
	default:
		text = string(p.Type)
	}

	switch p.End.Kind {
	case EndUntilDate:
		if p.End.Until != nil {
			text += " until " + p.End.Until.Format("Jan 02, 2006")
		}
	case EndAfterCount:
		text += fmt.Sprintf(" for %d occurrences", p.End.Count)
	}

	return text
}

func dayList(p Pattern) string {
	days := effectiveWeekdays(p)
	labels := make([]string, len(days))
	for i, d := range days {
		labels[i] = Weekday(d).Label()
	}
	return strings.Join(labels, ", ")
}
