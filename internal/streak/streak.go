// Package streak computes consecutive-day adherence runs from entry history.
package streak

import (
	"sort"

	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/scoring"
	"github.com/julianstephens/tally/internal/utils"
)

// Calculate returns the current and longest streak of qualifying days.
//
// A day qualifies when its freshly computed score reaches the completion
// threshold; the stored DayComplete flag is ignored. The current streak is
// only non-zero when the newest qualifying day is today or yesterday. Entries
// with unparseable dates never qualify. The result does not depend on the
// order of entries.
func Calculate(entries []models.DailyEntry, tmpl models.Template, today string) models.Streak {
	days := qualifyingDays(entries, tmpl)
	if len(days) == 0 {
		return models.Streak{}
	}

	anchored := false
	if todayN, err := utils.DayNumber(today); err == nil {
		gap := todayN - days[0]
		anchored = gap == 0 || gap == 1
	}

	var (
		current int
		longest int
		run     = 1
		first   = true
	)
	for i := 1; i <= len(days); i++ {
		if i < len(days) && days[i-1]-days[i] == 1 {
			run++
			continue
		}
		if first {
			if anchored {
				current = run
			}
			first = false
		}
		if run > longest {
			longest = run
		}
		run = 1
	}
	if current > longest {
		longest = current
	}
	return models.Streak{Current: current, Longest: longest}
}

// qualifyingDays returns the distinct civil day numbers of qualifying entries, newest first.
func qualifyingDays(entries []models.DailyEntry, tmpl models.Template) []int {
	seen := make(map[int]struct{}, len(entries))
	days := make([]int, 0, len(entries))
	for _, e := range entries {
		if !scoring.DayComplete(e, tmpl) {
			continue
		}
		n, err := utils.DayNumber(e.Date)
		if err != nil {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		days = append(days, n)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(days)))
	return days
}
