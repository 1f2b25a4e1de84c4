// Package history records the snapshots captured during an algorithm run.
//
// A [Recorder] is an append-only list of [Snapshot] values with a cursor:
//
//   - [Recorder.Append]: deep-copy a data set and label, move the cursor to it
//   - [Recorder.Seek], [Recorder.Forward], [Recorder.Backward]: move the cursor
//   - [Recorder.Reset]: drop everything
//
// Snapshots handed out are clones, so callers cannot alter recorded state.
// Moving the cursor never changes the recorded list. A Recorder is safe for
// concurrent use.
package history
