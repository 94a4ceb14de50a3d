package core

import algofft "github.com/MeKo-Christian/algo-fft"

// Zero sets all values in buf to 0.
func Zero[F algofft.Float](buf []F) {
	for i := range buf {
		buf[i] = 0
	}
}

// CopyInto copies src into dst and returns the number of copied elements.
func CopyInto[F algofft.Float](dst, src []F) int {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	copy(dst[:n], src[:n])
	return n
}
