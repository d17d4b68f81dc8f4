package engine

import "sort"

// window is the rolling, time-pruned sample buffer behind the pursuit
// decision. Every series is index-aligned: entry i of each slice belongs to
// the same sample. Target positions are stored per option label so the
// scoring pass never has to re-evaluate the motion model for past samples.
type window struct {
	labels []string

	t  []float64
	gx []float64
	gy []float64
	tx map[string][]float64
	ty map[string][]float64
	sx []float64
	sy []float64
}

func newWindow(labels []string) *window {
	w := &window{
		labels: labels,
		tx:     make(map[string][]float64, len(labels)),
		ty:     make(map[string][]float64, len(labels)),
	}
	for _, lab := range labels {
		w.tx[lab] = nil
		w.ty[lab] = nil
	}
	return w
}

func (w *window) len() int { return len(w.t) }

// append records one sample tuple: timestamp, gaze position, every option
// target position and the submit target position.
func (w *window) append(t, gx, gy float64, targets map[string][2]float64, sx, sy float64) {
	w.t = append(w.t, t)
	w.gx = append(w.gx, gx)
	w.gy = append(w.gy, gy)
	for _, lab := range w.labels {
		p := targets[lab]
		w.tx[lab] = append(w.tx[lab], p[0])
		w.ty[lab] = append(w.ty[lab], p[1])
	}
	w.sx = append(w.sx, sx)
	w.sy = append(w.sy, sy)
}

// prune drops every entry older than windowMS behind the newest sample,
// keeping all series aligned.
func (w *window) prune(windowMS int) {
	if len(w.t) == 0 {
		return
	}
	minT := w.t[len(w.t)-1] - float64(windowMS)/1000.0

	cut := 0
	for cut < len(w.t) && w.t[cut] < minT {
		cut++
	}
	if cut == 0 {
		return
	}

	w.t = trim(w.t, cut)
	w.gx = trim(w.gx, cut)
	w.gy = trim(w.gy, cut)
	for _, lab := range w.labels {
		w.tx[lab] = trim(w.tx[lab], cut)
		w.ty[lab] = trim(w.ty[lab], cut)
	}
	w.sx = trim(w.sx, cut)
	w.sy = trim(w.sy, cut)
}

// trim drops the first cut entries in place, reusing the backing array.
func trim(s []float64, cut int) []float64 {
	n := copy(s, s[cut:])
	return s[:n]
}

func (w *window) reset() {
	w.t = w.t[:0]
	w.gx = w.gx[:0]
	w.gy = w.gy[:0]
	for _, lab := range w.labels {
		w.tx[lab] = w.tx[lab][:0]
		w.ty[lab] = w.ty[lab][:0]
	}
	w.sx = w.sx[:0]
	w.sy = w.sy[:0]
}

// samplePeriod estimates the inter-sample interval as the median of
// consecutive timestamp deltas. With fewer than 6 samples, or a degenerate
// median, it falls back to a nominal 30 Hz tracker.
func (w *window) samplePeriod() float64 {
	const fallback = 1.0 / 30.0
	if len(w.t) < 6 {
		return fallback
	}

	deltas := make([]float64, len(w.t)-1)
	for i := 1; i < len(w.t); i++ {
		deltas[i-1] = w.t[i] - w.t[i-1]
	}
	sort.Float64s(deltas)

	var dt float64
	n := len(deltas)
	if n%2 == 1 {
		dt = deltas[n/2]
	} else {
		dt = 0.5 * (deltas[n/2-1] + deltas[n/2])
	}

	if dt <= 1e-6 {
		return fallback
	}
	return dt
}

// maxLagSamples converts the lag-search bound from milliseconds into samples
// at the estimated sampling rate.
func (w *window) maxLagSamples(maxLagMS int) int {
	lagS := float64(maxLagMS) / 1000.0
	if lagS < 0 {
		lagS = 0
	}
	dt := w.samplePeriod()
	return int(lagS/dt + 0.5)
}
