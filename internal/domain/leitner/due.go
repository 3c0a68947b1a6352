package leitner

import (
	"fmt"
	"time"

	"github.com/phrazzld/leitner-api/internal/domain"
)

// NeverDue is the due date assigned to graduated cards. It sorts after every
// real due date and is never reached by the queue.
var NeverDue = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// NextDueDate returns when a card that has just entered box should be reviewed
// again. The result depends only on its arguments.
func (p *Policy) NextDueDate(box domain.Box, reviewedAt time.Time) (time.Time, error) {
	if box == domain.Graduated {
		return NeverDue, nil
	}

	interval, ok := p.Intervals[box]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidBox, string(box))
	}
	return reviewedAt.Add(interval), nil
}

// Apply runs the box state machine and the due-date policy together and
// returns the card's new schedule.
func (p *Policy) Apply(current domain.Box, isCorrect bool, reviewedAt time.Time) (domain.Schedule, error) {
	next, err := NextBox(current, isCorrect)
	if err != nil {
		return domain.Schedule{}, err
	}

	due, err := p.NextDueDate(next, reviewedAt)
	if err != nil {
		return domain.Schedule{}, err
	}

	return domain.Schedule{Box: next, NextDueDate: due}, nil
}
