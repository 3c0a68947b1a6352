// Package clock supplies the current instant to the rest of the application.
// Scheduler code never reads the wall clock directly; callers obtain "now" from
// a Clock once per operation and pass it down explicitly.
package clock
