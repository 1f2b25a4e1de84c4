// Package runner defines the contract between algorithm bodies and the
// playback controller.
//
// A [Runner] receives an [Env] holding a private copy of the data and four
// callbacks:
//
//	Publish(data)  record a new data set under the current label
//	Step(label)    record a new label against the current data
//	Speed()        current delay per step
//	Cancelled()    whether a stop was requested
//
// Bodies check Cancelled at every loop iteration and around recursion, and
// again after every [Env.Pause]. A body that notices cancellation returns,
// either nil or [ErrCancelled]. [Env.Show] publishes a label and its data
// as one logical step, label first.
//
// [Invoke] runs a body and converts a panic into a [PanicError].
package runner
