// Package streak derives the journaling streak from entry dates.
package streak

import (
	"sort"
	"time"

	"github.com/julianstephens/gratilog/internal/models"
	"github.com/julianstephens/gratilog/internal/utils"
)

// Compute returns the number of consecutive calendar days, ending today or
// yesterday, that have at least one date. Days are taken in today's location.
func Compute(dates []time.Time, today time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	loc := today.Location()
	seen := make(map[string]bool, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		key := utils.DayKey(d, loc)
		if !seen[key] {
			seen[key] = true
			days = append(days, midnight(d, loc))
		}
	}

	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	todayKey := midnight(today, loc)
	yesterdayKey := todayKey.AddDate(0, 0, -1)
	if !days[0].Equal(todayKey) && !days[0].Equal(yesterdayKey) {
		return 0
	}

	count := 1
	for i := 0; i < len(days)-1; i++ {
		// AddDate keeps this correct across DST transitions
		if !days[i+1].AddDate(0, 0, 1).Equal(days[i]) {
			break
		}
		count++
	}
	return count
}

// FromEntries computes the streak over journal entry dates.
func FromEntries(entries []models.JournalEntry, today time.Time) int {
	dates := make([]time.Time, len(entries))
	for i, e := range entries {
		dates[i] = e.Date
	}
	return Compute(dates, today)
}

func midnight(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
