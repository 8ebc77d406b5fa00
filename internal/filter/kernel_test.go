package filter

import (
	"math"
	"testing"
)

func TestGaussianKernelZeroSigma(t *testing.T) {
	for _, sigma := range []float64{0, -5} {
		kernel := GaussianKernel(sigma)
		if len(kernel) != 1 || kernel[0] != 1.0 {
			t.Errorf("GaussianKernel(%v) = %v, want [1]", sigma, kernel)
		}
	}
}

func TestGaussianKernelNormalized(t *testing.T) {
	for _, sigma := range []float64{0.5, 1, 2, 3, 5} {
		kernel := GaussianKernel(sigma)

		var sum float32
		for _, v := range kernel {
			sum += v
		}
		if math.Abs(float64(sum)-1.0) > 0.001 {
			t.Errorf("GaussianKernel(%v) sum = %v, want ~1.0", sigma, sum)
		}
	}
}

func TestGaussianKernelShape(t *testing.T) {
	kernel := GaussianKernel(2)
	n := len(kernel)
	if n != 13 {
		t.Fatalf("GaussianKernel(2) len = %d, want 13", n)
	}
	center := n / 2
	for i := 0; i < n/2; i++ {
		j := n - 1 - i
		if math.Abs(float64(kernel[i]-kernel[j])) > 0.0001 {
			t.Errorf("kernel[%d] = %v != kernel[%d] = %v (asymmetric)", i, kernel[i], j, kernel[j])
		}
		if kernel[i] >= kernel[center] {
			t.Errorf("kernel[%d] = %v >= center %v", i, kernel[i], kernel[center])
		}
	}
}

func TestCachedGaussianKernel(t *testing.T) {
	k1 := CachedGaussianKernel(1.5)
	k2 := CachedGaussianKernel(1.5)
	if &k1[0] != &k2[0] {
		t.Error("CachedGaussianKernel(1.5) returned different slices")
	}
	if len(CachedGaussianKernel(1)) == len(CachedGaussianKernel(3)) {
		t.Error("kernels for different sigmas have equal length")
	}
}
