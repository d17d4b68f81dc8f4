package engine

import "math"

// gaussianProximity maps a Euclidean distance onto (0, 1] with a Gaussian
// kernel. Sigma is floored at one pixel to keep the kernel finite.
func gaussianProximity(dist, sigma float64) float64 {
	if sigma < 1.0 {
		sigma = 1.0
	}
	return math.Exp(-(dist * dist) / (2.0 * sigma * sigma))
}

// meanProximity averages the Gaussian closeness of the gaze trace to the
// target trace over the window. All four slices are index-aligned.
func meanProximity(gx, gy, tx, ty []float64, sigma float64) float64 {
	if len(gx) == 0 {
		return 0.0
	}
	var sum float64
	for i := range gx {
		dx := gx[i] - tx[i]
		dy := gy[i] - ty[i]
		sum += gaussianProximity(math.Sqrt(dx*dx+dy*dy), sigma)
	}
	return sum / float64(len(gx))
}

// proximityScore maps a mean proximity in (0, 1] onto [-1, 1] so it mixes
// with the correlation term on the same scale.
func proximityScore(gx, gy, tx, ty []float64, sigma float64) float64 {
	return 2.0*meanProximity(gx, gy, tx, ty, sigma) - 1.0
}
