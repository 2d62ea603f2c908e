// Package streak computes consecutive-day writing streaks from note
// creation timestamps.
package streak

import (
	"sort"
	"time"
)

type Streaks struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// Calculate collapses each timestamp to a local calendar day and derives the
// longest run of consecutive days plus the run ending today. If today has no
// note, Current is 0 regardless of how recent the last run was.
func Calculate(created []time.Time, today time.Time, loc *time.Location) Streaks {
	if len(created) == 0 {
		return Streaks{}
	}

	daySet := make(map[time.Time]struct{}, len(created))
	for _, t := range created {
		daySet[dayOf(t, loc)] = struct{}{}
	}

	days := make([]time.Time, 0, len(daySet))
	for d := range daySet {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest := 1
	run := 1
	for i := 1; i < len(days); i++ {
		if days[i-1].AddDate(0, 0, 1).Equal(days[i]) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	current := 0
	for d := dayOf(today, loc); ; d = d.AddDate(0, 0, -1) {
		if _, ok := daySet[d]; !ok {
			break
		}
		current++
	}

	return Streaks{Current: current, Longest: longest}
}

func dayOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
