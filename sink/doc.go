// Package sink holds dispatch implementations and the plumbing they share.
//
// A sink is anything usable as an xnotify.Dispatcher. The Layer never sees
// delivery outcomes, so every sink decides for itself what a failed delivery
// means through a FailurePolicy:
//
//   - FailPanic (default): panic on the goroutine that logged the event.
//   - FailLog: hand the error to an ErrorHandler and drop the report.
//   - FailIgnore: drop the report silently.
//
// Callers who would rather receive the error call the sink's Send method
// directly instead of going through a Layer.
package sink
