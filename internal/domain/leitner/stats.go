package leitner

import (
	"sort"
	"time"
)

// Streak holds consecutive-day review statistics.
type Streak struct {
	Current int `json:"streak_days"`
	Longest int `json:"longest_streak"`
}

// ComputeStreak derives streaks from the instants at which reviews happened.
// A day counts when it holds at least one review. The current streak must end
// today or yesterday, otherwise it is zero.
func (p *Policy) ComputeStreak(reviewedAt []time.Time, now time.Time) Streak {
	if len(reviewedAt) == 0 {
		return Streak{}
	}

	loc := p.location()
	seen := make(map[time.Time]struct{}, len(reviewedAt))
	days := make([]time.Time, 0, len(reviewedAt))
	for _, t := range reviewedAt {
		start := Day(t, loc).Start
		if _, ok := seen[start]; ok {
			continue
		}
		seen[start] = struct{}{}
		days = append(days, start)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	var s Streak
	run := 1
	for i := 1; i < len(days); i++ {
		if isPreviousDay(days[i], days[i-1], loc) {
			run++
			continue
		}
		if run > s.Longest {
			s.Longest = run
		}
		run = 1
	}
	if run > s.Longest {
		s.Longest = run
	}

	today := p.Today(now).Start
	yesterday := Day(today.Add(-time.Hour), loc).Start
	if !days[0].Equal(today) && !days[0].Equal(yesterday) {
		return s
	}

	s.Current = 1
	for i := 1; i < len(days); i++ {
		if !isPreviousDay(days[i], days[i-1], loc) {
			break
		}
		s.Current++
	}
	return s
}

// isPreviousDay reports whether day is the calendar day just before next.
func isPreviousDay(day, next time.Time, loc *time.Location) bool {
	return Day(next.Add(-time.Hour), loc).Start.Equal(day)
}

// AccuracyRate returns the share of correct answers as a percentage rounded
// to one decimal place. It is zero when there are no reviews.
func AccuracyRate(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	pct := float64(correct) * 100 / float64(total)
	return float64(int(pct*10+0.5)) / 10
}
