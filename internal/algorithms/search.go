package algorithms

import (
	"sort"
	"strconv"

	"github.com/san-kum/algoviz/internal/dataset"
	"github.com/san-kum/algoviz/internal/runner"
)

// searchTarget picks the element tagged as target, falling back to the last
// element so a seeded array always has something to find.
func searchTarget(d dataset.DataSet) float64 {
	for _, e := range d {
		if e.Tag == dataset.TagTarget {
			return e.Value
		}
	}
	return d[len(d)-1].Value
}

func LinearSearch(env runner.Env) error {
	d := env.Data
	if len(d) == 0 || env.Cancelled() {
		return nil
	}
	target := searchTarget(d)
	d.WithTags(dataset.TagDefault)
	env.Show(d, "Searching for "+ftoa(target))
	env.Pause(1)

	for i := range d {
		if env.Cancelled() {
			return nil
		}
		d[i].Tag = dataset.TagComparing
		env.Show(d, "Check position "+itoa(i))
		env.Pause(1)
		if env.Cancelled() {
			return nil
		}
		if d[i].Value == target {
			d[i].Tag = dataset.TagTarget
			env.Show(d, "Found "+ftoa(target)+" at position "+itoa(i))
			return nil
		}
		d[i].Tag = dataset.TagDefault
	}
	env.Show(d, ftoa(target)+" not found")
	return nil
}

func BinarySearch(env runner.Env) error {
	d := env.Data
	if len(d) == 0 || env.Cancelled() {
		return nil
	}
	target := searchTarget(d)
	d.WithTags(dataset.TagDefault)
	sort.SliceStable(d, func(i, j int) bool { return d[i].Value < d[j].Value })
	env.Show(d, "Sorted input, searching for "+ftoa(target))
	env.Pause(1)

	lo, hi := 0, len(d)-1
	for lo <= hi {
		if env.Cancelled() {
			return nil
		}
		mid := lo + (hi-lo)/2
		d.WithTags(dataset.TagDefault)
		for k := lo; k <= hi; k++ {
			d[k].Tag = dataset.TagHighlight
		}
		d[mid].Tag = dataset.TagComparing
		env.Show(d, "Range "+itoa(lo)+".."+itoa(hi)+", middle "+ftoa(d[mid].Value))
		env.Pause(1)
		if env.Cancelled() {
			return nil
		}

		switch {
		case d[mid].Value == target:
			d.WithTags(dataset.TagDefault)
			d[mid].Tag = dataset.TagTarget
			env.Show(d, "Found "+ftoa(target)+" at position "+itoa(mid))
			return nil
		case d[mid].Value < target:
			lo = mid + 1
		default:
			hi = mid - 1
		}
	}
	d.WithTags(dataset.TagDefault)
	env.Show(d, ftoa(target)+" not found")
	return nil
}

func itoa(i int) string { return strconv.Itoa(i) }

func ftoa(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }
