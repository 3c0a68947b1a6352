// Package leitner implements the Leitner-box spaced repetition scheduler as a
// set of pure functions over a configurable Policy: box transitions, due-date
// assignment, calendar-day windows, queue classification, catch-up and
// daily-cap arithmetic, and review statistics.
//
// Nothing in this package performs I/O or reads the wall clock. Every function
// that depends on the current instant receives it as an explicit argument.
package leitner
