// Package scoring derives completion verdicts for daily checklist entries.
package scoring

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/models"
)

// SectionComplete reports whether a day section satisfies its template section.
// A section whose name is not in the template is never complete.
func SectionComplete(section models.DailySection, tmpl models.Template) bool {
	ts, ok := tmpl.FindSection(section.SectionName)
	if !ok {
		return false
	}
	return section.CheckedCount() >= ts.Threshold()
}

// DailyScore returns the completion fraction of an entry.
//
// The numerator counts every checked item in the entry, including items the
// template no longer knows about, plus one point per met numeric target. The
// denominator is the item count of the current template plus one point per
// target, so an entry created against an older template can score above 1.
func DailyScore(entry models.DailyEntry, tmpl models.Template) float64 {
	checked := 0
	for _, s := range entry.Sections {
		checked += s.CheckedCount()
	}
	if entry.FiberOrDefault().Met() {
		checked++
	}
	if entry.WaterOrDefault().Met() {
		checked++
	}
	total := tmpl.ItemCount() + constants.TargetPoints
	return float64(checked) / float64(total)
}

// DayComplete reports whether the entry reaches the completion threshold.
func DayComplete(entry models.DailyEntry, tmpl models.Template) bool {
	return DailyScore(entry, tmpl) >= constants.CompletionThreshold
}

// IsPerfect reports whether every point of the day was earned.
func IsPerfect(entry models.DailyEntry, tmpl models.Template) bool {
	return DailyScore(entry, tmpl) == 1
}

// Percent returns the daily score as a rounded percentage.
func Percent(entry models.DailyEntry, tmpl models.Template) int {
	return int(math.Round(DailyScore(entry, tmpl) * 100))
}

// Recompute refreshes the derived section and day flags in place.
func Recompute(entry *models.DailyEntry, tmpl models.Template) {
	for i := range entry.Sections {
		entry.Sections[i].SectionComplete = SectionComplete(entry.Sections[i], tmpl)
	}
	entry.DayComplete = DayComplete(*entry, tmpl)
}

// NewEntry builds an empty entry for date with one unchecked item per template item.
func NewEntry(date string, tmpl models.Template, settings models.Settings) models.DailyEntry {
	fiberTarget := settings.FiberTarget
	if fiberTarget <= 0 {
		fiberTarget = constants.DefaultFiberTarget
	}
	waterTarget := settings.WaterTarget
	if waterTarget <= 0 {
		waterTarget = constants.DefaultWaterTarget
	}

	entry := models.DailyEntry{
		ID:        uuid.New().String(),
		Date:      date,
		Sections:  make([]models.DailySection, 0, len(tmpl.Sections)),
		Fiber:     &models.Target{Value: 0, Target: fiberTarget},
		Water:     &models.Target{Value: 0, Target: waterTarget},
		UpdatedAt: time.Now().UTC(),
	}
	for _, ts := range tmpl.Sections {
		ds := models.DailySection{
			SectionName: ts.Name,
			Items:       make([]models.CheckedItem, 0, len(ts.Items)),
		}
		for _, item := range ts.Items {
			ds.Items = append(ds.Items, models.CheckedItem{ID: item.ID})
		}
		entry.Sections = append(entry.Sections, ds)
	}
	Recompute(&entry, tmpl)
	return entry
}

// Recent returns up to n entries, newest first. The input is not modified.
// A non-positive n returns every entry.
func Recent(entries []models.DailyEntry, n int) []models.DailyEntry {
	sorted := make([]models.DailyEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date > sorted[j].Date
	})
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// CompletionRate returns the rounded percentage of complete days among the
// most recent n entries.
func CompletionRate(entries []models.DailyEntry, tmpl models.Template, n int) int {
	recent := Recent(entries, n)
	if len(recent) == 0 {
		return 0
	}
	complete := 0
	for _, e := range recent {
		if DayComplete(e, tmpl) {
			complete++
		}
	}
	return roundPercent(complete, len(recent))
}

// SectionCompletionRate returns the rounded percentage of the most recent n
// entries in which the named section was complete. Entries without the
// section count as incomplete.
func SectionCompletionRate(entries []models.DailyEntry, tmpl models.Template, sectionName string, n int) int {
	recent := Recent(entries, n)
	if len(recent) == 0 {
		return 0
	}
	complete := 0
	for i := range recent {
		s := recent[i].FindSection(sectionName)
		if s != nil && SectionComplete(*s, tmpl) {
			complete++
		}
	}
	return roundPercent(complete, len(recent))
}

func roundPercent(part, whole int) int {
	return int(math.Round(float64(part) / float64(whole) * 100))
}
