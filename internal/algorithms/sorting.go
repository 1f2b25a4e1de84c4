package algorithms

import (
	"github.com/san-kum/algoviz/internal/dataset"
	"github.com/san-kum/algoviz/internal/runner"
)

func BubbleSort(env runner.Env) error {
	d := env.Data
	n := len(d)
	env.Step("Bubble sort: repeatedly swap adjacent out-of-order pairs")

	for i := 0; i < n-1; i++ {
		swapped := false
		for j := 0; j < n-i-1; j++ {
			if env.Cancelled() {
				return nil
			}
			d.WithTags(dataset.TagDefault)
			markSorted(d, n-i, n)
			d[j].Tag, d[j+1].Tag = dataset.TagComparing, dataset.TagComparing
			env.Show(d, "")
			env.Pause(1)
			if env.Cancelled() {
				return nil
			}

			if d[j].Value > d[j+1].Value {
				env.Stepf("Swap %g and %g", d[j].Value, d[j+1].Value)
				d.Swap(j, j+1)
				env.Publish(d)
				env.Pause(1)
				if env.Cancelled() {
					return nil
				}
				swapped = true
			}
		}
		if !swapped {
			break
		}
	}

	d.WithTags(dataset.TagSorted)
	env.Show(d, "Array sorted")
	return nil
}

func SelectionSort(env runner.Env) error {
	d := env.Data
	n := len(d)

	for i := 0; i < n-1; i++ {
		if env.Cancelled() {
			return nil
		}
		minIdx := i
		d[i].Tag = dataset.TagActive
		env.Show(d, "Looking for the minimum from position "+itoa(i))
		env.Pause(1)

		for j := i + 1; j < n; j++ {
			if env.Cancelled() {
				return nil
			}
			d[j].Tag = dataset.TagComparing
			env.Publish(d)
			env.Pause(0.5)
			if env.Cancelled() {
				return nil
			}
			if d[j].Value < d[minIdx].Value {
				if minIdx != i {
					d[minIdx].Tag = dataset.TagDefault
				}
				minIdx = j
				d[j].Tag = dataset.TagTarget
				env.Show(d, "New minimum "+ftoa(d[j].Value))
			} else {
				d[j].Tag = dataset.TagDefault
			}
		}

		if env.Cancelled() {
			return nil
		}
		if minIdx != i {
			env.Stepf("Move %g to position %d", d[minIdx].Value, i)
			d.Swap(i, minIdx)
			d[minIdx].Tag = dataset.TagDefault
		}
		d[i].Tag = dataset.TagSorted
		env.Publish(d)
		env.Pause(1)
	}

	d.WithTags(dataset.TagSorted)
	env.Show(d, "Array sorted")
	return nil
}

func InsertionSort(env runner.Env) error {
	d := env.Data

	for i := 1; i < len(d); i++ {
		if env.Cancelled() {
			return nil
		}
		d[i].Tag = dataset.TagActive
		env.Show(d, "Insert "+ftoa(d[i].Value)+" into the sorted prefix")
		env.Pause(1)

		for j := i; j > 0 && d[j-1].Value > d[j].Value; j-- {
			if env.Cancelled() {
				return nil
			}
			d[j-1].Tag = dataset.TagComparing
			d.Swap(j-1, j)
			env.Publish(d)
			env.Pause(1)
			if env.Cancelled() {
				return nil
			}
			d[j].Tag = dataset.TagDefault
		}
		if env.Cancelled() {
			return nil
		}
		d.WithTags(dataset.TagDefault)
		markSorted(d, 0, i+1)
		env.Publish(d)
	}

	d.WithTags(dataset.TagSorted)
	env.Show(d, "Array sorted")
	return nil
}

func QuickSort(env runner.Env) error {
	d := env.Data
	env.Step("Quick sort: partition around a pivot, then recurse")
	if !quickSort(env, d, 0, len(d)-1) {
		return nil
	}
	d.WithTags(dataset.TagSorted)
	env.Show(d, "Array sorted")
	return nil
}

// quickSort reports false once cancellation has been observed.
func quickSort(env runner.Env, d dataset.DataSet, lo, hi int) bool {
	if env.Cancelled() {
		return false
	}
	if lo >= hi {
		if lo == hi {
			d[lo].Tag = dataset.TagSorted
		}
		return true
	}

	p, ok := partition(env, d, lo, hi)
	if !ok {
		return false
	}
	if !quickSort(env, d, lo, p-1) {
		return false
	}
	return quickSort(env, d, p+1, hi)
}

func partition(env runner.Env, d dataset.DataSet, lo, hi int) (int, bool) {
	pivot := d[hi].Value
	d[hi].Tag = dataset.TagTarget
	env.Show(d, "Pivot "+ftoa(pivot)+" for range "+itoa(lo)+".."+itoa(hi))
	env.Pause(1)

	i := lo
	for j := lo; j < hi; j++ {
		if env.Cancelled() {
			return 0, false
		}
		d[j].Tag = dataset.TagComparing
		env.Publish(d)
		env.Pause(0.5)
		if env.Cancelled() {
			return 0, false
		}
		if d[j].Value < pivot {
			d.Swap(i, j)
			i++
		}
		d[j].Tag = dataset.TagDefault
		if i > lo {
			d[i-1].Tag = dataset.TagDefault
		}
	}

	env.Stepf("Place pivot %g at position %d", pivot, i)
	d.Swap(i, hi)
	d[hi].Tag = dataset.TagDefault
	d[i].Tag = dataset.TagSorted
	env.Publish(d)
	env.Pause(1)
	return i, !env.Cancelled()
}

func MergeSort(env runner.Env) error {
	d := env.Data
	env.Step("Merge sort: split in halves, sort each, merge")
	if !mergeSort(env, d, 0, len(d)) {
		return nil
	}
	d.WithTags(dataset.TagSorted)
	env.Show(d, "Array sorted")
	return nil
}

func mergeSort(env runner.Env, d dataset.DataSet, lo, hi int) bool {
	if env.Cancelled() {
		return false
	}
	if hi-lo < 2 {
		return true
	}
	mid := (lo + hi) / 2
	if !mergeSort(env, d, lo, mid) || !mergeSort(env, d, mid, hi) {
		return false
	}
	if env.Cancelled() {
		return false
	}

	env.Stepf("Merge %d..%d with %d..%d", lo, mid-1, mid, hi-1)
	left := d[lo:mid].Clone()
	right := d[mid:hi].Clone()
	i, j, k := 0, 0, lo
	for i < len(left) || j < len(right) {
		if env.Cancelled() {
			return false
		}
		if j >= len(right) || (i < len(left) && left[i].Value <= right[j].Value) {
			d[k] = left[i]
			i++
		} else {
			d[k] = right[j]
			j++
		}
		d[k].Tag = dataset.TagActive
		env.Publish(d)
		env.Pause(0.5)
		d[k].Tag = dataset.TagDefault
		k++
	}
	return !env.Cancelled()
}

func markSorted(d dataset.DataSet, from, to int) {
	for k := from; k < to && k < len(d); k++ {
		d[k].Tag = dataset.TagSorted
	}
}
