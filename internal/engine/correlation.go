package engine

import "math"

// minCorrSamples is the smallest series length for which correlation is
// defined. Shorter series yield a neutral 0.0, never an error.
const minCorrSamples = 3

// normFloor guards against zero-variance signals (a frozen gaze or a frozen
// target): below it the correlation is undefined and reported as 0.0.
const normFloor = 1e-9

// pearson returns the Pearson correlation coefficient of a and b. Series of
// different length are right-aligned and truncated to the shorter one.
func pearson(a, b []float64) float64 {
	if len(a) < minCorrSamples || len(b) < minCorrSamples {
		return 0.0
	}
	if len(a) != len(b) {
		m := len(a)
		if len(b) < m {
			m = len(b)
		}
		a = a[len(a)-m:]
		b = b[len(b)-m:]
	}

	var meanA, meanB float64
	for i := range a {
		meanA += a[i]
		meanB += b[i]
	}
	n := float64(len(a))
	meanA /= n
	meanB /= n

	var dot, normA, normB float64
	for i := range a {
		da := a[i] - meanA
		db := b[i] - meanB
		dot += da * db
		normA += da * da
		normB += db * db
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom < normFloor {
		return 0.0
	}
	return dot / denom
}

// maxLaggedPearson evaluates pearson at every integer lag in
// [-maxLag, maxLag] and returns the maximum. A positive lag shifts a forward
// against b, compensating the perceptual latency between target motion and
// the gaze response. Returns 0.0 when no lag leaves enough overlap.
func maxLaggedPearson(a, b []float64, maxLag int) float64 {
	if len(a) < minCorrSamples || len(b) < minCorrSamples {
		return 0.0
	}

	m := len(a)
	if len(b) < m {
		m = len(b)
	}
	a = a[len(a)-m:]
	b = b[len(b)-m:]

	if maxLag < 0 {
		maxLag = 0
	}
	if maxLag == 0 {
		return pearson(a, b)
	}

	best := 0.0
	found := false
	for k := -maxLag; k <= maxLag; k++ {
		if k >= m || -k >= m {
			continue
		}
		var aa, bb []float64
		switch {
		case k == 0:
			aa, bb = a, b
		case k > 0:
			aa, bb = a[k:], b[:len(b)-k]
		default:
			aa, bb = a[:len(a)+k], b[-k:]
		}

		if len(aa) < minCorrSamples || len(bb) < minCorrSamples {
			continue
		}

		c := pearson(aa, bb)
		if !found || c > best {
			best = c
			found = true
		}
	}

	if !found {
		return 0.0
	}
	return best
}
