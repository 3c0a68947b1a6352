// Package api exposes the scheduler over HTTP: study sessions, queue
// summaries, progress, and review submission and history. Handlers translate
// requests into service calls and service errors into status codes and safe
// messages.
package api
