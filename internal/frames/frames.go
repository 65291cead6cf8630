// Package frames selects the frame numbers to screenshot: explicit lists
// pass through as given, random selection draws from a range bounded by
// the shortest clip, and a source offset aligns test encodes that start
// partway into the source.
package frames

import (
	"fmt"
	"math/rand"
	"sort"

	"screengen/internal/errors"
)

// stopMargin keeps random selection away from the final frames, where
// encodes commonly end a few frames short of their source.
const stopMargin = 5

// RandomRange describes a random frame request: Count distinct frames
// drawn from [Start, Stop).
type RandomRange struct {
	Start int
	Stop  int
	Count int
}

// Random draws Count distinct frame numbers from the requested range,
// sorted ascending. Stop is clamped to the shortest clip's frame count
// minus a safety margin; a Start beyond the shortest clip is an error.
// A nil rng draws from the process-global source.
func Random(rng *rand.Rand, r RandomRange, frameCounts []int) ([]int, error) {
	if len(frameCounts) == 0 {
		return nil, errors.NewConfigError("random frames: no clips to select from")
	}
	if r.Count <= 0 {
		return nil, errors.NewConfigError(fmt.Sprintf("random frames: count must be positive, got %d", r.Count))
	}

	smallest := frameCounts[0]
	for _, n := range frameCounts[1:] {
		if n < smallest {
			smallest = n
		}
	}
	if r.Start > smallest {
		return nil, errors.NewConfigError("random frames: start frame is greater than the smallest clip's end frame")
	}

	stop := r.Stop
	if stop > smallest-stopMargin {
		stop = smallest - stopMargin
	}
	span := stop - r.Start
	if span < r.Count {
		return nil, errors.NewConfigError(fmt.Sprintf(
			"random frames: range [%d, %d) cannot supply %d distinct frames", r.Start, stop, r.Count))
	}

	permute := rand.Perm
	if rng != nil {
		permute = rng.Perm
	}
	perm := permute(span)
	selected := make([]int, r.Count)
	for i := 0; i < r.Count; i++ {
		selected[i] = r.Start + perm[i]
	}
	sort.Ints(selected)
	return selected, nil
}

// Offset returns a copy of frames with each number shifted by offset.
// Applied to the source clip only, so source screenshots line up with a
// test encode that begins offset frames into the source.
func Offset(frames []int, offset int) []int {
	out := make([]int, len(frames))
	for i, f := range frames {
		out[i] = f + offset
	}
	return out
}

// TrimRange is an inclusive frame window applied to the source clip
// before comparison.
type TrimRange struct {
	Start int
	End   int
}

// Validate rejects empty or inverted windows.
func (t TrimRange) Validate() error {
	if t.Start >= t.End {
		return errors.NewConfigError(fmt.Sprintf(
			"invalid frame range [%d, %d]: start of range must be less than end", t.Start, t.End))
	}
	if t.Start < 0 {
		return errors.NewConfigError(fmt.Sprintf("invalid frame range [%d, %d]: start must not be negative", t.Start, t.End))
	}
	return nil
}
