package filter

import "sync"

// Blur writes a Gaussian-blurred copy of the RGB channels of src into dst,
// three float32 values per pixel. dst must hold at least w*h*3 values.
// Edges are extended by clamping.
func Blur(src []uint8, w, h int, sigma float64, dst []float32) {
	kernel := CachedGaussianKernel(sigma)
	temp := getTempBuffer(w * h * 3)
	defer putTempBuffer(temp)

	blurHorizontal(src, temp, w, h, kernel)
	blurVertical(temp, dst, w, h, kernel)
}

// blurHorizontal convolves each row of src into temp (RGB float32).
func blurHorizontal(src []uint8, temp []float32, w, h int, kernel []float32) {
	half := len(kernel) / 2
	for y := 0; y < h; y++ {
		row := src[y*w*4 : (y+1)*w*4]
		for x := 0; x < w; x++ {
			var r, g, b float32
			for k, weight := range kernel {
				kx := clampInt(x+k-half, 0, w-1)
				i := kx * 4
				r += float32(row[i]) * weight
				g += float32(row[i+1]) * weight
				b += float32(row[i+2]) * weight
			}
			t := (y*w + x) * 3
			temp[t] = r
			temp[t+1] = g
			temp[t+2] = b
		}
	}
}

// blurVertical convolves each column of temp into dst.
func blurVertical(temp, dst []float32, w, h int, kernel []float32) {
	half := len(kernel) / 2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, b float32
			for k, weight := range kernel {
				ky := clampInt(y+k-half, 0, h-1)
				t := (ky*w + x) * 3
				r += temp[t] * weight
				g += temp[t+1] * weight
				b += temp[t+2] * weight
			}
			d := (y*w + x) * 3
			dst[d] = r
			dst[d+1] = g
			dst[d+2] = b
		}
	}
}

// floatBuffer wraps a slice for sync.Pool to avoid allocation warnings.
type floatBuffer struct {
	data []float32
}

var tempBufferPool = sync.Pool{
	New: func() interface{} {
		return &floatBuffer{}
	},
}

// getTempBuffer returns a scratch buffer of exactly size elements.
// Contents are unspecified; callers overwrite every element.
func getTempBuffer(size int) []float32 {
	wrapper := tempBufferPool.Get().(*floatBuffer)
	if cap(wrapper.data) < size {
		return make([]float32, size)
	}
	return wrapper.data[:size]
}

// putTempBuffer returns a scratch buffer to the pool.
func putTempBuffer(buf []float32) {
	// Only pool reasonably-sized buffers
	if cap(buf) <= 16*1024*1024 {
		tempBufferPool.Put(&floatBuffer{data: buf[:cap(buf)]})
	}
}

// clampInt clamps v to [minVal, maxVal].
func clampInt(v, minVal, maxVal int) int {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// clampUint8 clamps v to [0, 255] and rounds to nearest.
func clampUint8(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
