// Package cache stores computed queue summaries per user for a bounded time.
//
// Entries are keyed by user and by a caller-chosen variant key (deck filter and
// calendar day), so a whole user can be invalidated at once when one of their
// reviews commits.
package cache
