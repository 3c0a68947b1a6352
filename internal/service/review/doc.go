// Package review records answers to flashcards and moves each card through
// the Leitner boxes.
//
// A submission reads the card, applies the box state machine and due-date
// policy, appends the review and conditionally updates the card, all in one
// transaction. When the conditional update loses to a concurrent writer the
// whole read-compute-write cycle is retried from fresh state.
package review
