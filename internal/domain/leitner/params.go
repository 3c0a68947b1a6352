package leitner

import (
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/leitner-api/internal/domain"
)

// Default policy values
const (
	DefaultBox1Interval = 24 * time.Hour
	DefaultBox2Interval = 3 * 24 * time.Hour
	DefaultBox3Interval = 7 * 24 * time.Hour
	DefaultDailyLimit   = 50
	DefaultCatchupCap   = 20
	DefaultSessionSize  = 20
)

// Policy validation errors
var (
	ErrInvalidInterval    = errors.New("box intervals must be positive and strictly increasing")
	ErrInvalidDailyLimit  = errors.New("daily limit must be greater than 0")
	ErrInvalidCatchupCap  = errors.New("catch-up cap must be greater than 0")
	ErrInvalidSessionSize = errors.New("session size must be greater than 0")
)

// Policy holds every tunable of the scheduler.
type Policy struct {
	// Intervals maps each non-terminal box to the delay added to the review instant.
	Intervals map[domain.Box]time.Duration

	// DailyLimit is the number of reviews a user may complete per calendar day.
	DailyLimit int

	// CatchupCap bounds how many overdue cards are offered at once.
	CatchupCap int

	// SessionSize bounds how many cards a single study session contains.
	SessionSize int

	// Location is the reference timezone for calendar-day boundaries.
	Location *time.Location
}

// PolicyConfig allows overriding the default values when creating a Policy.
// Zero values keep the defaults.
type PolicyConfig struct {
	Box1Interval time.Duration
	Box2Interval time.Duration
	Box3Interval time.Duration
	DailyLimit   int
	CatchupCap   int
	SessionSize  int
	Location     *time.Location
}

// NewDefaultPolicy returns the policy used when nothing is configured:
// 1, 3 and 7 day intervals, 50 reviews per day, UTC day boundaries.
func NewDefaultPolicy() *Policy {
	return &Policy{
		Intervals: map[domain.Box]time.Duration{
			domain.Box1: DefaultBox1Interval,
			domain.Box2: DefaultBox2Interval,
			domain.Box3: DefaultBox3Interval,
		},
		DailyLimit:  DefaultDailyLimit,
		CatchupCap:  DefaultCatchupCap,
		SessionSize: DefaultSessionSize,
		Location:    time.UTC,
	}
}

// NewPolicy builds a Policy from cfg on top of the defaults and validates it.
func NewPolicy(cfg PolicyConfig) (*Policy, error) {
	p := NewDefaultPolicy()

	if cfg.Box1Interval != 0 {
		p.Intervals[domain.Box1] = cfg.Box1Interval
	}
	if cfg.Box2Interval != 0 {
		p.Intervals[domain.Box2] = cfg.Box2Interval
	}
	if cfg.Box3Interval != 0 {
		p.Intervals[domain.Box3] = cfg.Box3Interval
	}
	if cfg.DailyLimit != 0 {
		p.DailyLimit = cfg.DailyLimit
	}
	if cfg.CatchupCap != 0 {
		p.CatchupCap = cfg.CatchupCap
	}
	if cfg.SessionSize != 0 {
		p.SessionSize = cfg.SessionSize
	}
	if cfg.Location != nil {
		p.Location = cfg.Location
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks that the policy is internally consistent. Higher boxes must
// get strictly longer intervals.
func (p *Policy) Validate() error {
	prev := time.Duration(0)
	for _, b := range []domain.Box{domain.Box1, domain.Box2, domain.Box3} {
		d, ok := p.Intervals[b]
		if !ok || d <= prev {
			return fmt.Errorf("%w: %s=%s", ErrInvalidInterval, b, d)
		}
		prev = d
	}
	if p.DailyLimit <= 0 {
		return ErrInvalidDailyLimit
	}
	if p.CatchupCap <= 0 {
		return ErrInvalidCatchupCap
	}
	if p.SessionSize <= 0 {
		return ErrInvalidSessionSize
	}
	return nil
}

func (p *Policy) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}
