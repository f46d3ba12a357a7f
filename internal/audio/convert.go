package audio

import (
	"encoding/binary"
	"math"
)

// Resample converts between sample rates by linear interpolation. Voice
// already band-limited well below 8kHz survives this fine; it is not
// meant for music. The tail sample is held when interpolation would
// read past the input.
func Resample(input []float32, fromRate, toRate int) []float32 {
	if fromRate == toRate || len(input) == 0 {
		return input
	}

	ratio := float64(toRate) / float64(fromRate)
	output := make([]float32, int(math.Ceil(float64(len(input))*ratio)))

	for i := range output {
		srcPos := float64(i) / ratio
		srcIdx := int(srcPos)
		if srcIdx >= len(input)-1 {
			output[i] = input[len(input)-1]
			continue
		}
		frac := float32(srcPos - float64(srcIdx))
		output[i] = input[srcIdx]*(1-frac) + input[srcIdx+1]*frac
	}
	return output
}

func PCMBytesToInt16(pcm []byte) []int16 {
	samples := make([]int16, len(pcm)/2)
	for i := 0; i < len(samples); i++ {
		samples[i] = int16(binary.LittleEndian.Uint16(pcm[i*2:]))
	}
	return samples
}

func Int16ToPCMBytes(samples []int16) []byte {
	pcm := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(s))
	}
	return pcm
}

func Int16ToFloat32(samples []int16) []float32 {
	result := make([]float32, len(samples))
	for i, s := range samples {
		result[i] = float32(s) / 32768.0
	}
	return result
}

// Float32ToInt16 quantizes normalized samples to 16-bit PCM. Rounding
// keeps the round trip through Int16ToFloat32 within one quantization
// step, and int16 inputs survive the trip exactly.
func Float32ToInt16(samples []float32) []int16 {
	result := make([]int16, len(samples))
	for i, s := range samples {
		v := math.Round(float64(s) * 32768.0)
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		result[i] = int16(v)
	}
	return result
}
