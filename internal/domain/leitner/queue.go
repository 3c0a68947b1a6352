package leitner

import (
	"sort"
	"time"

	"github.com/phrazzld/leitner-api/internal/domain"
)

// Urgency is the exclusive bucket a schedulable card falls into at a given
// instant.
type Urgency int

// Urgency buckets, most urgent first.
const (
	Overdue Urgency = iota
	DueNow
	DueLaterToday
	DueTomorrow
	NotYetDue
)

// String implements fmt.Stringer.
func (u Urgency) String() string {
	switch u {
	case Overdue:
		return "overdue"
	case DueNow:
		return "due_now"
	case DueLaterToday:
		return "due_later_today"
	case DueTomorrow:
		return "due_tomorrow"
	case NotYetDue:
		return "not_yet_due"
	default:
		return "unknown"
	}
}

// Classify places a due date into exactly one urgency bucket relative to now.
func (p *Policy) Classify(due, now time.Time) Urgency {
	today := p.Today(now)
	switch {
	case due.Before(today.Start):
		return Overdue
	case today.Contains(due) && !due.After(now):
		return DueNow
	case today.Contains(due):
		return DueLaterToday
	case p.Tomorrow(now).Contains(due):
		return DueTomorrow
	default:
		return NotYetDue
	}
}

// QueueSummary holds the aggregate counts shown to a user. The urgency counts
// are disjoint: DueNow covers cards due earlier today and at or before now,
// while cards due before today are counted only in Overdue.
type QueueSummary struct {
	DueNow            int  `json:"due_now"`
	DueToday          int  `json:"due_today"`
	DueTomorrow       int  `json:"due_tomorrow"`
	Overdue           int  `json:"overdue"`
	CatchupAvailable  bool `json:"catchup_available"`
	CatchupCount      int  `json:"catchup_count"`
	TodayReviews      int  `json:"today_reviews"`
	DailyLimit        int  `json:"daily_limit"`
	DailyLimitReached bool `json:"daily_limit_reached"`
	RemainingCapacity int  `json:"remaining_capacity"`
}

// Queue is a user's schedulable cards partitioned by urgency. Every bucket
// is ordered by due date ascending.
type Queue struct {
	Summary QueueSummary
	Buckets map[Urgency][]*domain.Flashcard
}

// Cards returns the cards in bucket u.
func (q *Queue) Cards(u Urgency) []*domain.Flashcard {
	return q.Buckets[u]
}

// BuildQueue partitions cards and computes the summary. Cards that are not
// accepted or are graduated are ignored.
func (p *Policy) BuildQueue(cards []*domain.Flashcard, completedToday int, now time.Time) *Queue {
	q := &Queue{Buckets: make(map[Urgency][]*domain.Flashcard, 5)}

	for _, card := range cards {
		if card == nil || !card.IsSchedulable() {
			continue
		}
		u := p.Classify(card.NextDueDate, now)
		q.Buckets[u] = append(q.Buckets[u], card)
	}

	for _, bucket := range q.Buckets {
		sortByDueDate(bucket)
	}

	overdue := len(q.Buckets[Overdue])
	available, count := p.Catchup(overdue, completedToday)

	q.Summary = QueueSummary{
		DueNow:            len(q.Buckets[DueNow]),
		DueToday:          len(q.Buckets[DueNow]) + len(q.Buckets[DueLaterToday]),
		DueTomorrow:       len(q.Buckets[DueTomorrow]),
		Overdue:           overdue,
		CatchupAvailable:  available,
		CatchupCount:      count,
		TodayReviews:      completedToday,
		DailyLimit:        p.DailyLimit,
		DailyLimitReached: p.IsLimitReached(completedToday),
		RemainingCapacity: p.RemainingCapacity(completedToday),
	}
	return q
}

func sortByDueDate(cards []*domain.Flashcard) {
	sort.SliceStable(cards, func(i, j int) bool {
		if cards[i].NextDueDate.Equal(cards[j].NextDueDate) {
			return cards[i].ID.String() < cards[j].ID.String()
		}
		return cards[i].NextDueDate.Before(cards[j].NextDueDate)
	})
}
