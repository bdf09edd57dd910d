// Package validation checks templates, entries and settings for problems that
// struct tags alone cannot express, and reports them as conflicts.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/scoring"
	"github.com/julianstephens/tally/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictInvalidField       ConflictType = "invalid_field"
	ConflictDuplicateSection   ConflictType = "duplicate_section"
	ConflictDuplicateItem      ConflictType = "duplicate_item"
	ConflictUnreachableMinimum ConflictType = "unreachable_minimum"
	ConflictUnknownSection     ConflictType = "unknown_section"
	ConflictDuplicateDate      ConflictType = "duplicate_date"
	ConflictStaleFlag          ConflictType = "stale_flag"
	ConflictInvalidTime        ConflictType = "invalid_time"
	ConflictInvalidTimezone    ConflictType = "invalid_timezone"
	ConflictInvalidTarget      ConflictType = "invalid_target"
)

// Conflict is one detected problem.
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string   // YYYY-MM-DD, for entry conflicts
	Items       []string // section names or item ids involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Err returns the conflicts as a single error, or nil.
func (vr *ValidationResult) Err() error {
	if !vr.HasConflicts() {
		return nil
	}
	msgs := make([]string, len(vr.Conflicts))
	for i, c := range vr.Conflicts {
		msgs[i] = c.Description
	}
	return errors.New(strings.Join(msgs, "; "))
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

func (vr *ValidationResult) add(c Conflict) {
	vr.Conflicts = append(vr.Conflicts, c)
}

// Validator validates templates, entries and settings.
type Validator struct {
	structs *validator.Validate
}

// New creates a new Validator
func New() *Validator {
	return &Validator{structs: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *Validator) checkStruct(result *ValidationResult, date string, s any) {
	err := v.structs.Struct(s)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		result.add(Conflict{Type: ConflictInvalidField, Date: date, Description: err.Error()})
		return
	}
	for _, fe := range fieldErrs {
		desc := fmt.Sprintf("%s fails %q", fe.Namespace(), fe.Tag())
		if date != "" {
			desc = fmt.Sprintf("Entry %s: %s", date, desc)
		}
		result.add(Conflict{Type: ConflictInvalidField, Date: date, Description: desc, Items: []string{fe.Field()}})
	}
}

// ValidateTemplate checks tags, unique section names, unique item ids across
// the whole template, and that every section minimum can be reached.
func (v *Validator) ValidateTemplate(tmpl models.Template) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	v.checkStruct(&result, "", tmpl)

	sections := make(map[string]bool)
	items := make(map[string]string) // item id -> section
	for _, s := range tmpl.Sections {
		if sections[s.Name] {
			result.add(Conflict{
				Type:        ConflictDuplicateSection,
				Description: fmt.Sprintf("Duplicate section name: %q", s.Name),
				Items:       []string{s.Name},
			})
		}
		sections[s.Name] = true

		for _, item := range s.Items {
			if item.ID == "" {
				continue
			}
			if other, ok := items[item.ID]; ok {
				result.add(Conflict{
					Type:        ConflictDuplicateItem,
					Description: fmt.Sprintf("Item id %q is used in both %q and %q", item.ID, other, s.Name),
					Items:       []string{item.ID},
				})
				continue
			}
			items[item.ID] = s.Name
		}

		if s.MinRequired > len(s.Items) {
			result.add(Conflict{
				Type:        ConflictUnreachableMinimum,
				Description: fmt.Sprintf("Section %q requires %d checked items but has only %d", s.Name, s.MinRequired, len(s.Items)),
				Items:       []string{s.Name},
			})
		}
	}

	return result
}

// ValidateEntries checks each entry against the template: date format, one
// entry per date, known sections, sane targets, and whether the stored
// completion flags still match a fresh computation.
func (v *Validator) ValidateEntries(entries []models.DailyEntry, tmpl models.Template) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	seen := make(map[string]bool)
	for _, e := range entries {
		v.checkStruct(&result, e.Date, e)

		if seen[e.Date] {
			result.add(Conflict{
				Type:        ConflictDuplicateDate,
				Date:        e.Date,
				Description: fmt.Sprintf("More than one entry for %s", e.Date),
			})
		}
		seen[e.Date] = true

		for _, s := range e.Sections {
			if _, ok := tmpl.FindSection(s.SectionName); !ok {
				result.add(Conflict{
					Type:        ConflictUnknownSection,
					Date:        e.Date,
					Description: fmt.Sprintf("Entry %s references section %q which is not in the template", e.Date, s.SectionName),
					Items:       []string{s.SectionName},
				})
			}
		}

		targets := []struct {
			name string
			t    *models.Target
		}{{"fiber", e.Fiber}, {"water", e.Water}}
		for _, tt := range targets {
			name, t := tt.name, tt.t
			if t != nil && (t.Value < 0 || t.Target < 0) {
				result.add(Conflict{
					Type:        ConflictInvalidTarget,
					Date:        e.Date,
					Description: fmt.Sprintf("Entry %s has a negative %s value", e.Date, name),
					Items:       []string{name},
				})
			}
		}

		if e.DayComplete != scoring.DayComplete(e, tmpl) {
			result.add(Conflict{
				Type:        ConflictStaleFlag,
				Date:        e.Date,
				Description: fmt.Sprintf("Entry %s has a stale completion flag", e.Date),
			})
		}
	}

	return result
}

// ValidateSettings checks the timezone, reminder times and default targets.
func (v *Validator) ValidateSettings(settings models.Settings) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	if !utils.ValidateTimezone(settings.Timezone) {
		result.add(Conflict{
			Type:        ConflictInvalidTimezone,
			Description: fmt.Sprintf("Unknown timezone: %q", settings.Timezone),
		})
	}
	for _, rt := range settings.ReminderTimes {
		if !utils.ValidateTimeFormat(rt) {
			result.add(Conflict{
				Type:        ConflictInvalidTime,
				Description: fmt.Sprintf("Invalid reminder time %q (expected HH:MM)", rt),
				Items:       []string{rt},
			})
		}
	}
	if settings.FiberTarget < 0 || settings.WaterTarget < 0 {
		result.add(Conflict{
			Type:        ConflictInvalidTarget,
			Description: "Default targets cannot be negative",
		})
	}

	return result
}
