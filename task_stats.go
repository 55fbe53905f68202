package main

import (
	"math"
	"time"
)

// streakCap bounds StreakPlaceholder; the badge shows at most two digits.
const streakCap = 99

// Stats are aggregate counts over a task collection. They are recomputed from
// scratch on every call and never maintained incrementally.
type Stats struct {
	Total           int
	Completed       int
	Pending         int
	ProgressPercent int
	Overdue         int

	// StreakPlaceholder is the completed count capped at 99. It is not a
	// consecutive-day streak; no real streak definition exists yet.
	StreakPlaceholder int
}

// ComputeStats derives Stats from tasks. now decides which tasks are overdue.
func ComputeStats(tasks []Task, now time.Time) Stats {
	var st Stats
	for _, t := range tasks {
		st.Total++
		if t.Completed {
			st.Completed++
		}
		if t.IsOverdue(now) {
			st.Overdue++
		}
	}
	st.Pending = st.Total - st.Completed
	st.ProgressPercent = progressPercent(st.Completed, st.Total)
	st.StreakPlaceholder = min(st.Completed, streakCap)
	return st
}

// progressPercent is round(completed/total*100), or 0 for an empty list.
func progressPercent(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
