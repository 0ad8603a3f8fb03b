package dataset

import (
	"fmt"
	"math"
)

// Omit stands for a slice bound which was left out. It selects the start or the end of the dataset depending on the
// direction of the step.
const Omit = math.MinInt

// SlicePositions returns the positions selected by slicing a sequence of the given length.
func SlicePositions(length int, start int, stop int, step int) ([]int, error) {
	if step == Omit {
		step = 1
	}
	if step == 0 {
		return nil, fmt.Errorf("%w: slice step must not be zero", ErrInvalidArgument)
	}

	var count int
	if step > 0 {
		start = clampBound(start, length, 0, 0, length)
		stop = clampBound(stop, length, length, 0, length)
		if start < stop {
			count = (stop-start-1)/step + 1
		}
	} else {
		start = clampBound(start, length, length-1, -1, length-1)
		stop = clampBound(stop, length, -1, -1, length-1)
		if stop < start {
			count = (start-stop-1)/(-step) + 1
		}
	}

	result := make([]int, count)
	for i := range result {
		result[i] = start + i*step
	}
	return result, nil
}

// clampBound resolves a single slice bound. Omitted bounds take the default, negative bounds count from the end and
// the result is clamped to [lower, upper].
func clampBound(bound int, length int, defaultBound int, lower int, upper int) int {
	if bound == Omit {
		return defaultBound
	}
	if bound < 0 {
		bound += length
	}
	return min(max(bound, lower), upper)
}
