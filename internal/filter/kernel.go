package filter

import (
	"math"
	"sync"
)

// GaussianKernel generates a normalized 1D Gaussian kernel for sigma.
//
// The kernel size is 2 * ceil(sigma * 3) + 1, covering three standard
// deviations. For sigma <= 0 it returns the identity kernel [1].
func GaussianKernel(sigma float64) []float32 {
	if sigma <= 0 {
		return []float32{1.0}
	}

	half := int(math.Ceil(sigma * 3))
	kernel := make([]float32, half*2+1)

	twoSigmaSq := 2 * sigma * sigma
	sum := 0.0
	weights := make([]float64, len(kernel))
	for i := range weights {
		x := float64(i - half)
		weights[i] = math.Exp(-(x * x) / twoSigmaSq)
		sum += weights[i]
	}
	for i, w := range weights {
		kernel[i] = float32(w / sum)
	}
	return kernel
}

// kernels caches Gaussian kernels keyed by sigma quantized to 0.01.
var kernels sync.Map // map[int][]float32

// CachedGaussianKernel returns a shared Gaussian kernel for sigma.
// The returned slice must not be modified.
func CachedGaussianKernel(sigma float64) []float32 {
	key := int(math.Round(sigma * 100))
	if k, ok := kernels.Load(key); ok {
		return k.([]float32)
	}
	k, _ := kernels.LoadOrStore(key, GaussianKernel(float64(key)/100))
	return k.([]float32)
}
