package recurrence

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Type selects the base repetition unit of a pattern.
type Type string

const (
	Daily   Type = "daily"
	Weekly  Type = "weekly"
	Monthly Type = "monthly"
	Custom  Type = "custom"
)

// MonthlyMode picks how a monthly pattern anchors within the month.
type MonthlyMode string

const (
	// ByDate repeats on the same day-of-month as the anchor.
	ByDate MonthlyMode = "date"
	// ByWeekday repeats on the Nth weekday of the month (e.g. 2nd Tuesday).
	ByWeekday MonthlyMode = "weekday"
)

// EndKind discriminates the end condition of a pattern.
type EndKind string

const (
	EndAfterCount EndKind = "occurrences"
	EndUntilDate  EndKind = "date"
	EndNever      EndKind = "never"
)

const (
	// MaxOccurrences bounds every expansion, including "never" patterns.
	MaxOccurrences = 50
	// PreviewLimit is how many occurrences the UI shows before confirming.
	PreviewLimit = 20
	// MaxStoredCount is the upper bound for an occurrence-count end condition.
	MaxStoredCount = 365
)

// End describes when a pattern stops producing occurrences.
type End struct {
	Kind  EndKind    `json:"kind"`
	Count int        `json:"count,omitempty"`
	Until *time.Time `json:"until,omitempty"`
}

// Pattern is the structured recurrence configuration stored on a master task.
type Pattern struct {
	Type        Type        `json:"type"`
	Interval    int         `json:"interval"`
	Weekdays    []Weekday   `json:"weekdays,omitempty"`
	MonthlyMode MonthlyMode `json:"monthlyMode,omitempty"`
	End         End         `json:"end"`
}

// Validate checks the pattern for internal consistency. A nil error means
// Expand will produce a non-panicking, bounded sequence.
func (p Pattern) Validate() error {
	switch p.Type {
	case Daily, Weekly, Monthly, Custom:
	default:
		return fmt.Errorf("unknown recurrence type %q", p.Type)
	}

	if p.Interval < 1 {
		return fmt.Errorf("interval must be at least 1, got %d", p.Interval)
	}

	if p.Type == Monthly {
		switch p.MonthlyMode {
		case ByDate, ByWeekday, "":
		default:
			return fmt.Errorf("unknown monthly mode %q", p.MonthlyMode)
		}
	}

	for _, d := range p.Weekdays {
		if d < Weekday(time.Sunday) || d > Weekday(time.Saturday) {
			return fmt.Errorf("invalid weekday %d", int(d))
		}
	}

	switch p.End.Kind {
	case EndAfterCount:
		if p.End.Count < 1 || p.End.Count > MaxStoredCount {
			return fmt.Errorf("occurrence count must be between 1 and %d, got %d", MaxStoredCount, p.End.Count)
		}
	case EndUntilDate:
		if p.End.Until == nil {
			return fmt.Errorf("end condition %q requires an until date", EndUntilDate)
		}
	case EndNever:
	default:
		return fmt.Errorf("unknown end condition %q", p.End.Kind)
	}

	return nil
}

// Weekday wraps time.Weekday so patterns serialize with unambiguous day names
// instead of numbers. Sunday is 0, matching time.Weekday.
type Weekday time.Weekday

var weekdayNames = map[string]Weekday{
	"sun": Weekday(time.Sunday),
	"mon": Weekday(time.Monday),
	"tue": Weekday(time.Tuesday),
	"wed": Weekday(time.Wednesday),
	"thu": Weekday(time.Thursday),
	"fri": Weekday(time.Friday),
	"sat": Weekday(time.Saturday),
}

// Label returns the short English day name, e.g. "Mon".
func (w Weekday) Label() string {
	return time.Weekday(w).String()[:3]
}

func (w Weekday) MarshalJSON() ([]byte, error) {
	if w < Weekday(time.Sunday) || w > Weekday(time.Saturday) {
		return nil, fmt.Errorf("invalid weekday %d", int(w))
	}
	return json.Marshal(strings.ToLower(w.Label()))
}

func (w *Weekday) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("weekday must be a day name: %w", err)
	}
	name = strings.ToLower(strings.TrimSpace(name))
	if len(name) > 3 {
		name = name[:3]
	}
	day, ok := weekdayNames[name]
	if !ok {
		return fmt.Errorf("unknown weekday %q", name)
	}
	*w = day
	return nil
}

// mondayIndex maps a weekday to its offset from Monday, so weeks iterate
// Mon..Sun the way the scheduling UI presents them.
func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}
