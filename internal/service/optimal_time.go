package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/maheshrc27/clipcast/internal/pipeline"
	"github.com/maheshrc27/clipcast/internal/repository"
)

// MinAnalyticsSamples is the smallest trailing-30-day sample count that
// justifies overwriting a user's optimal posting times. Below it the
// prior preference is kept to avoid churn on sparse data.
const MinAnalyticsSamples = 5

// OptimalPostTimes derives up to three recommended daily posting times
// from engagement samples. Hours are bucketed in the given timezone,
// ranked by mean engagement rate, and the selected hours are returned
// in chronological order as "HH:00" strings. Ties on mean engagement
// resolve to the earlier hour.
func OptimalPostTimes(samples []*repository.HourlyEngagement, loc *time.Location) []string {
	type hourStat struct {
		hour  int
		total float64
		count int
	}

	stats := make(map[int]*hourStat)
	for _, s := range samples {
		hour := s.ScheduledTime.In(loc).Hour()
		st, ok := stats[hour]
		if !ok {
			st = &hourStat{hour: hour}
			stats[hour] = st
		}
		st.total += s.EngagementRate
		st.count++
	}

	ranked := make([]*hourStat, 0, len(stats))
	for _, st := range stats {
		ranked = append(ranked, st)
	}

	// Sort by hour first so equal means keep chronological order after
	// the stable sort on engagement.
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].hour < ranked[j].hour
	})
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].total/float64(ranked[i].count) > ranked[j].total/float64(ranked[j].count)
	})

	if len(ranked) > 3 {
		ranked = ranked[:3]
	}

	hours := make([]int, 0, len(ranked))
	for _, st := range ranked {
		hours = append(hours, st.hour)
	}
	sort.Ints(hours)

	times := make([]string, 0, len(hours))
	for _, h := range hours {
		times = append(times, fmt.Sprintf("%02d:00", h))
	}
	return times
}

// NextPostTime picks the earliest optimal slot strictly after now in
// the given timezone, rolling over to the first slot tomorrow when the
// day is exhausted.
func NextPostTime(optimalTimes []string, timezone string, now time.Time) (time.Time, error) {
	if len(optimalTimes) == 0 {
		return time.Time{}, pipeline.Validationf("no optimal post times configured")
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}

	local := now.In(loc)
	for _, t := range optimalTimes {
		var hours, minutes int
		if _, err := fmt.Sscanf(t, "%d:%d", &hours, &minutes); err != nil {
			return time.Time{}, pipeline.Validationf("invalid optimal time %q", t)
		}

		slot := time.Date(local.Year(), local.Month(), local.Day(), hours, minutes, 0, 0, loc)
		if slot.After(now) {
			return slot, nil
		}
	}

	var hours, minutes int
	if _, err := fmt.Sscanf(optimalTimes[0], "%d:%d", &hours, &minutes); err != nil {
		return time.Time{}, pipeline.Validationf("invalid optimal time %q", optimalTimes[0])
	}
	tomorrow := local.AddDate(0, 0, 1)
	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), hours, minutes, 0, 0, loc), nil
}
