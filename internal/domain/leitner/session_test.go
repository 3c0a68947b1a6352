package leitner

import (
	"testing"
	"time"

	"github.com/phrazzld/leitner-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectSession(t *testing.T) {
	now := time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC)

	dueNow := func(n int) []*domain.Flashcard { return cards(n, domain.Box1, now.Add(-time.Hour)) }
	overdue := func(n int) []*domain.Flashcard { return cards(n, domain.Box2, now.Add(-36*time.Hour)) }

	tests := []struct {
		name           string
		dueNow         int
		overdue        int
		completed      int
		includeCatchup bool
		wantLen        int
	}{
		{"due now only", 5, 0, 0, false, 5},
		{"bounded by session size", 30, 0, 0, false, 20},
		{"catch-up excluded", 5, 10, 0, false, 5},
		{"catch-up included", 5, 10, 0, true, 15},
		{"catch-up fills up to session size", 15, 30, 0, true, 20},
		{"bounded by remaining capacity", 10, 10, 45, true, 5},
		{"empty at the limit", 10, 10, 50, true, 0},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			p := NewDefaultPolicy()
			all := append(dueNow(tc.dueNow), overdue(tc.overdue)...)
			q := p.BuildQueue(all, tc.completed, now)

			got := p.SelectSession(q, tc.includeCatchup)
			require.NotNil(t, got)
			assert.Len(t, got, tc.wantLen)
		})
	}
}

func TestSelectSession_DueNowBeforeOverdue(t *testing.T) {
	p := NewDefaultPolicy()
	now := time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC)

	d1 := card(domain.Box1, now.Add(-2*time.Hour))
	d2 := card(domain.Box1, now.Add(-time.Hour))
	o1 := card(domain.Box3, now.Add(-72*time.Hour))

	q := p.BuildQueue([]*domain.Flashcard{o1, d2, d1}, 0, now)
	got := p.SelectSession(q, true)

	require.Len(t, got, 3)
	assert.Equal(t, d1.ID, got[0].ID)
	assert.Equal(t, d2.ID, got[1].ID)
	assert.Equal(t, o1.ID, got[2].ID)
}

func TestSelectSession_CatchupRespectsCap(t *testing.T) {
	p, err := NewPolicy(PolicyConfig{CatchupCap: 3, SessionSize: 40})
	require.NoError(t, err)
	now := time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC)

	q := p.BuildQueue(cards(10, domain.Box1, now.Add(-48*time.Hour)), 0, now)
	got := p.SelectSession(q, true)

	assert.Len(t, got, 3)
}
