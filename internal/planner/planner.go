package planner

import "math"

// AdjustCount returns requested when the video is at least requested
// seconds long; otherwise max(1, floor(duration)).
func AdjustCount(duration float64, requested int) int {
	if requested < 1 {
		requested = 1
	}
	if duration >= float64(requested) {
		return requested
	}
	n := int(math.Floor(duration))
	if n < 1 {
		return 1
	}
	return n
}

// Timestamps returns count whole-second seek positions spread evenly over
// duration: t_i = min(floor(interval*i), floor(duration)-1) with
// interval = max(duration/count, 1), clamped to zero. The result is
// non-decreasing and, for duration >= 1, strictly below floor(duration).
func Timestamps(duration float64, count int) []int {
	if count < 1 {
		return nil
	}
	if duration < 0 {
		duration = 0
	}
	interval := math.Max(duration/float64(count), 1)
	last := int(math.Floor(duration)) - 1

	ts := make([]int, count)
	for i := range ts {
		t := int(math.Floor(interval * float64(i)))
		if t > last {
			t = last
		}
		if t < 0 {
			t = 0
		}
		ts[i] = t
	}
	return ts
}

// PlanThumbnails combines [AdjustCount] and [Timestamps].
func PlanThumbnails(duration float64, requested int) ThumbPlan {
	count := AdjustCount(duration, requested)
	return ThumbPlan{
		Requested:  requested,
		Count:      count,
		Timestamps: Timestamps(duration, count),
		Reduced:    count < requested,
	}
}

// PadThumbnails repeats the last path until want entries exist. An empty
// input stays empty, and a list already at or above want is returned as is.
func PadThumbnails(paths []string, want int) []string {
	if len(paths) == 0 || len(paths) >= want {
		return paths
	}
	out := make([]string, len(paths), want)
	copy(out, paths)
	last := paths[len(paths)-1]
	for len(out) < want {
		out = append(out, last)
	}
	return out
}
