// Package report derives calorie summaries from food entries held by the
// client store.
package report

import (
	"slices"
	"time"

	"github.com/spec-kit/diet-tracker/internal/client/state"
)

// RecentWindow is the span the dashboard treats as recent.
const RecentWindow = 7 * 24 * time.Hour

// DayTotal is one user's intake on one calendar day.
type DayTotal struct {
	UserID       string
	Day          time.Time
	Calories     float64
	Entries      int
	CheatEntries int
}

// Exceeds reports whether the day's total is over threshold.
func (d DayTotal) Exceeds(threshold int) bool {
	return d.Calories > float64(threshold)
}

// DailyTotals groups foods by creator and calendar day in loc. Cheat entries
// are counted but do not contribute calories. Results are ordered by user,
// then day ascending.
func DailyTotals(foods []state.Food, loc *time.Location) []DayTotal {
	if loc == nil {
		loc = time.UTC
	}
	type key struct {
		user string
		day  time.Time
	}
	totals := make(map[key]*DayTotal)
	for _, f := range foods {
		t := f.TimeConsumed.In(loc)
		k := key{user: f.Creator.ID, day: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)}
		dt, ok := totals[k]
		if !ok {
			dt = &DayTotal{UserID: k.user, Day: k.day}
			totals[k] = dt
		}
		dt.Entries++
		if f.IsCheatFood {
			dt.CheatEntries++
			continue
		}
		dt.Calories += f.Calorie
	}

	out := make([]DayTotal, 0, len(totals))
	for _, dt := range totals {
		out = append(out, *dt)
	}
	slices.SortFunc(out, func(a, b DayTotal) int {
		if a.UserID != b.UserID {
			if a.UserID < b.UserID {
				return -1
			}
			return 1
		}
		return a.Day.Compare(b.Day)
	})
	return out
}

// ExceededDays returns the totals over threshold.
func ExceededDays(totals []DayTotal, threshold int) []DayTotal {
	var out []DayTotal
	for _, t := range totals {
		if t.Exceeds(threshold) {
			out = append(out, t)
		}
	}
	return out
}

// ExceededDaysByUser checks each user's totals against their own threshold.
// Users without an entry in thresholds use fallback.
func ExceededDaysByUser(totals []DayTotal, thresholds map[string]int, fallback int) []DayTotal {
	var out []DayTotal
	for _, t := range totals {
		limit, ok := thresholds[t.UserID]
		if !ok {
			limit = fallback
		}
		if t.Exceeds(limit) {
			out = append(out, t)
		}
	}
	return out
}

// Recent returns entries consumed within RecentWindow of now.
func Recent(foods []state.Food, now time.Time) []state.Food {
	cutoff := now.Add(-RecentWindow)
	return filter(foods, func(f state.Food) bool { return !f.TimeConsumed.Before(cutoff) })
}

// Older returns entries consumed before RecentWindow of now.
func Older(foods []state.Food, now time.Time) []state.Food {
	cutoff := now.Add(-RecentWindow)
	return filter(foods, func(f state.Food) bool { return f.TimeConsumed.Before(cutoff) })
}

// AverageCalories is the mean non-cheat intake per recorded day.
func AverageCalories(totals []DayTotal) float64 {
	if len(totals) == 0 {
		return 0
	}
	var sum float64
	for _, t := range totals {
		sum += t.Calories
	}
	return sum / float64(len(totals))
}

func filter(foods []state.Food, keep func(state.Food) bool) []state.Food {
	var out []state.Food
	for _, f := range foods {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}
