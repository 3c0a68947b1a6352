package leitner

import "github.com/phrazzld/leitner-api/internal/domain"

// SelectSession picks the cards for one study session from q: due-now cards
// first, then overdue cards up to the catch-up count when includeCatchup is
// set. The result never exceeds min(SessionSize, remaining capacity) and is
// empty once the daily limit is reached.
func (p *Policy) SelectSession(q *Queue, includeCatchup bool) []*domain.Flashcard {
	budget := minInt(p.SessionSize, q.Summary.RemainingCapacity)
	if budget == 0 {
		return []*domain.Flashcard{}
	}

	selected := make([]*domain.Flashcard, 0, budget)
	for _, card := range q.Cards(DueNow) {
		if len(selected) == budget {
			return selected
		}
		selected = append(selected, card)
	}

	if !includeCatchup || !q.Summary.CatchupAvailable {
		return selected
	}

	overdue := q.Cards(Overdue)
	for i := 0; i < len(overdue) && i < q.Summary.CatchupCount; i++ {
		if len(selected) == budget {
			break
		}
		selected = append(selected, overdue[i])
	}
	return selected
}
