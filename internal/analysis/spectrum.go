package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

type Spectrum struct {
	Freqs []float64
	Power []float64
}

// PowerSpectrum removes the mean of data and returns the magnitude of each
// non-negative frequency bin. dt is the sample spacing in seconds.
func PowerSpectrum(data []float64, dt float64) Spectrum {
	n := len(data)
	if n < 2 || dt <= 0 {
		return Spectrum{}
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	centred := make([]float64, n)
	for i, v := range data {
		centred[i] = v - mean
	}

	bins := fft.FFTReal(centred)
	half := n/2 + 1
	s := Spectrum{
		Freqs: make([]float64, half),
		Power: make([]float64, half),
	}
	for k := 0; k < half; k++ {
		s.Freqs[k] = float64(k) / (float64(n) * dt)
		s.Power[k] = cmplx.Abs(bins[k]) / float64(n)
	}
	return s
}

// Dominant returns the frequency of the strongest bin above DC, or 0.
func (s Spectrum) Dominant() float64 {
	best, idx := 0.0, 0
	for k := 1; k < len(s.Power); k++ {
		if s.Power[k] > best {
			best, idx = s.Power[k], k
		}
	}
	if idx == 0 {
		return 0
	}
	return s.Freqs[idx]
}

func DominantFrequency(data []float64, dt float64) float64 {
	return PowerSpectrum(data, dt).Dominant()
}

// SettleTime returns the earliest time after which every value stays within
// tol of the final value. ok is false when the series is empty or non-finite.
func SettleTime(times, values []float64, tol float64) (t float64, ok bool) {
	n := len(values)
	if n == 0 || len(times) != n {
		return 0, false
	}
	final := values[n-1]
	if math.IsNaN(final) || math.IsInf(final, 0) {
		return 0, false
	}
	settled := n - 1
	for i := n - 1; i >= 0; i-- {
		if math.Abs(values[i]-final) > tol {
			break
		}
		settled = i
	}
	return times[settled], true
}
