// Package domain contains the core business entities of the scheduler:
// flashcards with their Leitner box state and the append-only review log.
// It is independent of any specific infrastructure or delivery mechanism.
package domain
