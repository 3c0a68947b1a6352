package leitner

import "time"

// Window is a half-open time range [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Day returns the calendar day containing t in loc. Days are built with
// time.Date so DST transitions yield 23 or 25 hour windows.
func Day(t time.Time, loc *time.Location) Window {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	end := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc)
	return Window{Start: start, End: end}
}

// Today returns the calendar day containing now in the policy's timezone.
func (p *Policy) Today(now time.Time) Window {
	return Day(now, p.location())
}

// Tomorrow returns the calendar day after the one containing now.
func (p *Policy) Tomorrow(now time.Time) Window {
	today := p.Today(now)
	return Day(today.End, p.location())
}
