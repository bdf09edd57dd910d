// Package history holds the pure operations over a dated entry history:
// upsert-by-date and the local-wins merge used by remote sync.
package history

import (
	"sort"

	"github.com/julianstephens/tally/internal/models"
)

// SortDesc orders entries newest first in place.
func SortDesc(entries []models.DailyEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date > entries[j].Date
	})
}

// Find returns the entry for date.
func Find(entries []models.DailyEntry, date string) (models.DailyEntry, bool) {
	for _, e := range entries {
		if e.Date == date {
			return e, true
		}
	}
	return models.DailyEntry{}, false
}

// Upsert returns a new history with entry replacing any entry of the same
// date, sorted newest first.
func Upsert(entries []models.DailyEntry, entry models.DailyEntry) []models.DailyEntry {
	out := make([]models.DailyEntry, 0, len(entries)+1)
	replaced := false
	for _, e := range entries {
		if e.Date == entry.Date {
			if !replaced {
				out = append(out, entry)
				replaced = true
			}
			continue
		}
		out = append(out, e)
	}
	if !replaced {
		out = append(out, entry)
	}
	SortDesc(out)
	return out
}

// Merge folds remote into local. Every local entry is kept as is; remote
// entries are adopted only for dates local does not have. The second return
// value lists the adopted entries.
func Merge(local, remote []models.DailyEntry) ([]models.DailyEntry, []models.DailyEntry) {
	have := make(map[string]struct{}, len(local))
	out := make([]models.DailyEntry, 0, len(local)+len(remote))
	for _, e := range local {
		have[e.Date] = struct{}{}
		out = append(out, e)
	}

	var adopted []models.DailyEntry
	for _, e := range remote {
		if _, ok := have[e.Date]; ok {
			continue
		}
		have[e.Date] = struct{}{}
		out = append(out, e)
		adopted = append(adopted, e)
	}
	SortDesc(out)
	return out, adopted
}
