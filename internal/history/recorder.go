package history

import (
	"sync"

	"github.com/san-kum/algoviz/internal/dataset"
)

// Snapshot is one captured state of the data set plus the step label that
// describes it.
type Snapshot struct {
	Index int
	Step  string
	Data  dataset.DataSet
}

func (s Snapshot) Clone() Snapshot {
	s.Data = s.Data.Clone()
	return s
}

// Recorder is an append-only, cursor-addressed log of snapshots for one run.
// Stored data is never handed out directly; callers receive clones.
type Recorder struct {
	mu        sync.RWMutex
	snapshots []Snapshot
	cursor    int
}

func New() *Recorder {
	return NewWithCapacity(64)
}

func NewWithCapacity(n int) *Recorder {
	return &Recorder{snapshots: make([]Snapshot, 0, n), cursor: -1}
}

// Append deep-copies ds, pairs it with step and moves the cursor to it.
func (r *Recorder) Append(ds dataset.DataSet, step string) Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := Snapshot{Index: len(r.snapshots), Step: step, Data: ds.Clone()}
	r.snapshots = append(r.snapshots, snap)
	r.cursor = snap.Index
	return snap.Clone()
}

// Seek moves the cursor to i and returns the snapshot there. Out of range
// indices leave the cursor alone and return false.
func (r *Recorder) Seek(i int) (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i < 0 || i >= len(r.snapshots) {
		return Snapshot{}, false
	}
	r.cursor = i
	return r.snapshots[i].Clone(), true
}

func (r *Recorder) Forward() (Snapshot, bool) {
	return r.Seek(r.Cursor() + 1)
}

func (r *Recorder) Backward() (Snapshot, bool) {
	c := r.Cursor()
	if c <= 0 {
		return Snapshot{}, false
	}
	return r.Seek(c - 1)
}

func (r *Recorder) CanForward() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cursor >= 0 && r.cursor < len(r.snapshots)-1
}

func (r *Recorder) CanBackward() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cursor > 0
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = r.snapshots[:0]
	r.cursor = -1
}

func (r *Recorder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.snapshots)
}

// Cursor returns the current position, -1 when empty.
func (r *Recorder) Cursor() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cursor
}

func (r *Recorder) At(i int) (Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i < 0 || i >= len(r.snapshots) {
		return Snapshot{}, false
	}
	return r.snapshots[i].Clone(), true
}

// Steps returns every label in capture order.
func (r *Recorder) Steps() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	steps := make([]string, len(r.snapshots))
	for i, s := range r.snapshots {
		steps[i] = s.Step
	}
	return steps
}
