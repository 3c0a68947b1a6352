// Package store defines the persistence contracts used by the scheduler
// services: flashcard reads and conditional schedule updates, the append-only
// review log, and the transaction helper that binds them together.
//
// Implementations live under internal/platform.
package store
