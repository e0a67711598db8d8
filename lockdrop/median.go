package lockdrop

import "sort"

// medianFilter keeps the last width values and reports their median.
// For an even number of values the upper of the two middle values is used.
type medianFilter struct {
	width  int
	window []uint64
}

func newMedianFilter(width int) *medianFilter {
	if width < 1 {
		width = 1
	}
	return &medianFilter{
		width:  width,
		window: make([]uint64, 0, width),
	}
}

// Consume pushes v, evicting the oldest value when full, and returns the median.
func (f *medianFilter) Consume(v uint64) uint64 {
	if len(f.window) == f.width {
		copy(f.window, f.window[1:])
		f.window = f.window[:f.width-1]
	}
	f.window = append(f.window, v)

	sorted := make([]uint64, len(f.window))
	copy(sorted, f.window)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return sorted[len(sorted)/2]
}
