// Package playback drives an algorithm run and the scrubbing of its history.
//
// A [Controller] owns one loaded algorithm, its live data set and a
// [history.Recorder]:
//
//   - [Controller.Start]: run the algorithm, blocking until it ends
//   - [Controller.Stop]: request cancellation; the runner sees it at its next poll
//   - [Controller.StepForward], [Controller.StepBackward], [Controller.Seek]: navigate while idle
//   - [Controller.Reset], [Controller.InjectCustomData]: replace the live data while idle
//   - [Compare]: run several algorithms concurrently on the same input
//
// # States
//
//	Idle -> Running -> Completed | Cancelled | Failed -> Idle
//
// [Controller.State] reports Idle or Running; [View] carries the last
// terminal outcome.
//
// # Publications
//
// Every label or data publication from the runner appends exactly one
// snapshot. A bare label reuses the current data and bare data reuses the
// current label. Publications after a stop request are dropped.
//
// # Observers
//
// [Observer] implementations see every snapshot and transition in order,
// under the controller lock. Implementations that also satisfy
// [ResultObserver] receive each finished [Result].
//
// # Thread Safety
//
// Controller methods are safe for concurrent use. The runner executes on
// the goroutine that called Start.
package playback
