package audio

import "math"

// RMSEnergy computes the root-mean-square energy of normalized samples.
// Returns a value between 0.0 and 1.0.
func RMSEnergy(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}

	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// PeakAmplitude returns the maximum absolute amplitude in the samples.
// Returns a value between 0.0 and 1.0 for in-range input.
func PeakAmplitude(samples []float32) float64 {
	var peak float64
	for _, s := range samples {
		abs := math.Abs(float64(s))
		if abs > peak {
			peak = abs
		}
	}
	return peak
}
