package leitner

// RemainingCapacity returns how many more reviews fit under the daily limit.
func (p *Policy) RemainingCapacity(completedToday int) int {
	remaining := p.DailyLimit - completedToday
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsLimitReached reports whether the user has used up today's reviews.
func (p *Policy) IsLimitReached(completedToday int) bool {
	return completedToday >= p.DailyLimit
}

// Catchup reports whether overdue cards may be offered and how many.
// The count is bounded by the overdue backlog, the remaining capacity and
// the catch-up cap, and is zero whenever catch-up is unavailable.
func (p *Policy) Catchup(overdue, completedToday int) (available bool, count int) {
	available = completedToday < p.DailyLimit
	if !available {
		return false, 0
	}
	return true, minInt(overdue, p.RemainingCapacity(completedToday), p.CatchupCap)
}

func minInt(first int, rest ...int) int {
	m := first
	for _, v := range rest {
		if v < m {
			m = v
		}
	}
	if m < 0 {
		return 0
	}
	return m
}
