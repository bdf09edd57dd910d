package models

import (
	"time"

	"github.com/julianstephens/tally/internal/constants"
)

// Target tracks a numeric daily goal such as fiber grams or water litres.
type Target struct {
	Value  float64 `json:"value" validate:"gte=0"`
	Target float64 `json:"target" validate:"gte=0"`
}

// Met reports whether the value reached the target.
func (t Target) Met() bool {
	return t.Value >= t.Target
}

// CheckedItem is the state of one template item on a given day.
type CheckedItem struct {
	ID        string     `json:"id" validate:"required"`
	Checked   bool       `json:"checked"`
	Timestamp *time.Time `json:"timestamp,omitempty"` // set when Checked became true
}

// DailySection references a template section by name.
type DailySection struct {
	SectionName     string        `json:"section_name" validate:"required"`
	Items           []CheckedItem `json:"items" validate:"dive"`
	SectionComplete bool          `json:"section_complete"`
}

// DailyEntry is one calendar day of checklist state.
type DailyEntry struct {
	ID          string         `json:"id"`
	Date        string         `json:"date" validate:"required,datetime=2006-01-02"` // YYYY-MM-DD format
	Sections    []DailySection `json:"sections" validate:"dive"`
	DayComplete bool           `json:"day_complete"`
	Notes       string         `json:"notes,omitempty"`
	Fiber       *Target        `json:"fiber,omitempty"`
	Water       *Target        `json:"water,omitempty"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// FiberOrDefault returns the fiber tracker, defaulting to zero against the
// default target when absent. A missing or non-positive goal also takes the
// default.
func (e DailyEntry) FiberOrDefault() Target {
	return withDefault(e.Fiber, constants.DefaultFiberTarget)
}

// WaterOrDefault returns the water tracker, defaulting to zero against the
// default target when absent. A missing or non-positive goal also takes the
// default.
func (e DailyEntry) WaterOrDefault() Target {
	return withDefault(e.Water, constants.DefaultWaterTarget)
}

func withDefault(t *Target, goal float64) Target {
	if t == nil {
		return Target{Value: 0, Target: goal}
	}
	out := *t
	if out.Target <= 0 {
		out.Target = goal
	}
	return out
}

// FindSection returns a pointer to the named section so callers can mutate it.
func (e *DailyEntry) FindSection(name string) *DailySection {
	for i := range e.Sections {
		if e.Sections[i].SectionName == name {
			return &e.Sections[i]
		}
	}
	return nil
}

// CheckedCount returns the number of checked items in the section.
func (s DailySection) CheckedCount() int {
	n := 0
	for _, item := range s.Items {
		if item.Checked {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the entry.
func (e DailyEntry) Clone() DailyEntry {
	out := e
	out.Sections = make([]DailySection, len(e.Sections))
	for i, s := range e.Sections {
		s.Items = append([]CheckedItem(nil), s.Items...)
		out.Sections[i] = s
	}
	if e.Fiber != nil {
		f := *e.Fiber
		out.Fiber = &f
	}
	if e.Water != nil {
		w := *e.Water
		out.Water = &w
	}
	return out
}
