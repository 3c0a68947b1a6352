// Package metrics exposes Prometheus collectors for the scheduler: review
// outcomes and box transitions, optimistic-concurrency conflicts, session
// construction and summary cache behaviour.
package metrics
