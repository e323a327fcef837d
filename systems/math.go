package systems

import "math"

// clampInt clamps an int between min and max.
func clampInt(v, minVal, maxVal int) int {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// clampFloat clamps a float64 between min and max.
func clampFloat(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// roundHalfUp rounds to the nearest integer with .5 going up (toward +Inf),
// which is what canvas colour strings expect; math.Round rounds half away from zero.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// randRange returns a uniform sample in [min, max).
func randRange(rng interface{ Float64() float64 }, minVal, maxVal float64) float64 {
	return rng.Float64()*(maxVal-minVal) + minVal
}
