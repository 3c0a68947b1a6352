// Package study answers "what should I review now?": queue summaries, study
// sessions bounded by the daily review limit, and progress statistics derived
// from the review log.
package study
