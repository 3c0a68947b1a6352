package leitner

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/leitner-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func card(box domain.Box, due time.Time) *domain.Flashcard {
	return &domain.Flashcard{
		ID:          uuid.New(),
		DeckID:      uuid.New(),
		Question:    "q",
		Answer:      "a",
		Status:      domain.FlashcardStatusAccepted,
		Box:         box,
		NextDueDate: due,
	}
}

func cards(n int, box domain.Box, due time.Time) []*domain.Flashcard {
	out := make([]*domain.Flashcard, n)
	for i := range out {
		out[i] = card(box, due)
	}
	return out
}

func TestClassify(t *testing.T) {
	t.Parallel()

	p := NewDefaultPolicy()
	now := time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		due  time.Time
		want Urgency
	}{
		{"yesterday morning", time.Date(2025, 7, 14, 9, 0, 0, 0, time.UTC), Overdue},
		{"last instant of yesterday", time.Date(2025, 7, 14, 23, 59, 59, 0, time.UTC), Overdue},
		{"start of today", time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC), DueNow},
		{"exactly now", now, DueNow},
		{"one second later", now.Add(time.Second), DueLaterToday},
		{"tonight", time.Date(2025, 7, 15, 23, 0, 0, 0, time.UTC), DueLaterToday},
		{"start of tomorrow", time.Date(2025, 7, 16, 0, 0, 0, 0, time.UTC), DueTomorrow},
		{"tomorrow evening", time.Date(2025, 7, 16, 22, 0, 0, 0, time.UTC), DueTomorrow},
		{"day after tomorrow", time.Date(2025, 7, 17, 0, 0, 0, 0, time.UTC), NotYetDue},
		{"never due", NeverDue, NotYetDue},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, p.Classify(tc.due, now))
		})
	}
}

func TestBuildQueue_PartitionIsComplete(t *testing.T) {
	p := NewDefaultPolicy()
	now := time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC)

	var all []*domain.Flashcard
	// Spread due dates across three days either side of now, hour by hour.
	for h := -72; h <= 72; h++ {
		all = append(all, card(domain.Box2, now.Add(time.Duration(h)*time.Hour)))
	}

	q := p.BuildQueue(all, 0, now)

	total := 0
	seen := make(map[uuid.UUID]Urgency)
	for u, bucket := range q.Buckets {
		total += len(bucket)
		for _, c := range bucket {
			prev, dup := seen[c.ID]
			require.False(t, dup, "card %s appears in %s and %s", c.ID, prev, u)
			seen[c.ID] = u
		}
	}
	assert.Equal(t, len(all), total)

	s := q.Summary
	assert.Equal(t, len(q.Cards(DueNow))+len(q.Cards(DueLaterToday)), s.DueToday)
	assert.GreaterOrEqual(t, s.DueToday, s.DueNow)
	for _, c := range q.Cards(Overdue) {
		assert.False(t, p.Today(now).Contains(c.NextDueDate), "overdue card counted in today's window")
	}
}

func TestBuildQueue_IgnoresUnschedulableCards(t *testing.T) {
	p := NewDefaultPolicy()
	now := time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC)

	pending := card(domain.Box1, now)
	pending.Status = domain.FlashcardStatusPending
	rejected := card(domain.Box1, now)
	rejected.Status = domain.FlashcardStatusRejected
	graduated := card(domain.Graduated, NeverDue)

	q := p.BuildQueue([]*domain.Flashcard{pending, rejected, graduated, nil, card(domain.Box1, now)}, 0, now)

	assert.Equal(t, 1, q.Summary.DueNow)
	assert.Equal(t, 0, q.Summary.DueTomorrow)
	assert.Empty(t, q.Cards(NotYetDue))
}

func TestBuildQueue_BucketsSortedByDueDate(t *testing.T) {
	p := NewDefaultPolicy()
	now := time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC)

	late := card(domain.Box1, now.Add(-time.Hour))
	early := card(domain.Box1, now.Add(-5*time.Hour))
	middle := card(domain.Box1, now.Add(-3*time.Hour))

	q := p.BuildQueue([]*domain.Flashcard{late, early, middle}, 0, now)

	got := q.Cards(DueNow)
	require.Len(t, got, 3)
	assert.Equal(t, early.ID, got[0].ID)
	assert.Equal(t, middle.ID, got[1].ID)
	assert.Equal(t, late.ID, got[2].ID)
}

func TestBuildQueue_CatchupCount(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC)
	yesterday := now.Add(-30 * time.Hour)

	tests := []struct {
		name          string
		overdue       int
		completed     int
		wantAvailable bool
		wantCount     int
	}{
		{"no overdue", 0, 0, true, 0},
		{"small backlog", 5, 0, true, 5},
		{"backlog capped at 20", 40, 0, true, 20},
		{"capacity smaller than cap", 40, 45, true, 5},
		{"backlog smaller than capacity", 3, 45, true, 3},
		{"limit reached", 40, 50, false, 0},
		{"over limit", 10, 70, false, 0},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p := NewDefaultPolicy()
			q := p.BuildQueue(cards(tc.overdue, domain.Box1, yesterday), tc.completed, now)
			assert.Equal(t, tc.overdue, q.Summary.Overdue)
			assert.Equal(t, tc.wantAvailable, q.Summary.CatchupAvailable)
			assert.Equal(t, tc.wantCount, q.Summary.CatchupCount)
		})
	}
}

// A card due yesterday at 09:00 is overdue at 10:00 today and not part of
// today's count.
func TestBuildQueue_YesterdayIsOverdueNotToday(t *testing.T) {
	p := NewDefaultPolicy()
	now := time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC)
	c := card(domain.Box2, time.Date(2025, 7, 14, 9, 0, 0, 0, time.UTC))

	q := p.BuildQueue([]*domain.Flashcard{c}, 0, now)

	assert.Equal(t, 1, q.Summary.Overdue)
	assert.Equal(t, 0, q.Summary.DueToday)
	assert.Equal(t, 0, q.Summary.DueNow)
}

// At the daily limit the due-now count is still reported but catch-up closes.
func TestBuildQueue_LimitReachedKeepsDueNow(t *testing.T) {
	p := NewDefaultPolicy()
	now := time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC)

	due := cards(7, domain.Box1, now.Add(-time.Hour))
	overdue := cards(4, domain.Box1, now.Add(-48*time.Hour))

	before := p.BuildQueue(append(append([]*domain.Flashcard{}, due...), overdue...), 0, now)
	after := p.BuildQueue(append(append([]*domain.Flashcard{}, due...), overdue...), 50, now)

	assert.Equal(t, before.Summary.DueNow, after.Summary.DueNow)
	assert.Equal(t, 7, after.Summary.DueNow)
	assert.False(t, after.Summary.CatchupAvailable)
	assert.Equal(t, 0, after.Summary.CatchupCount)
	assert.True(t, after.Summary.DailyLimitReached)
	assert.Equal(t, 0, after.Summary.RemainingCapacity)
}

func TestUrgencyString(t *testing.T) {
	assert.Equal(t, "overdue", Overdue.String())
	assert.Equal(t, "due_now", DueNow.String())
	assert.Equal(t, "due_later_today", DueLaterToday.String())
	assert.Equal(t, "due_tomorrow", DueTomorrow.String())
	assert.Equal(t, "not_yet_due", NotYetDue.String())
	assert.Equal(t, "unknown", Urgency(42).String())
}
