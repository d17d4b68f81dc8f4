package engine

// dwellGraceS is the fixed settle period before dwell progress starts to
// accrue. It absorbs saccade overshoot when the gaze first lands in an area.
const dwellGraceS = 0.700

// Dwell activates an area after the gaze stays inside it for a configured
// threshold. Progress is 0 during the grace period, then rises linearly to 1;
// crossing the threshold fires the area and restarts the timer, so a
// sustained dwell re-activates without leaving the area.
type Dwell struct {
	cfg        Config
	hitTest    HitTestFunc
	onActivate func(Area)

	tracking bool
	area     Area
	startT   float64
	progress float64
}

// NewDwell builds a dwell engine over the given hit-test.
func NewDwell(cfg Config, hitTest HitTestFunc, onActivate func(Area)) *Dwell {
	return &Dwell{cfg: cfg, hitTest: hitTest, onActivate: onActivate}
}

// Area returns the currently tracked area, if any.
func (d *Dwell) Area() (Area, bool) { return d.area, d.tracking }

// Progress reports the dwell completion in [0,1] for feedback UI.
func (d *Dwell) Progress() float64 { return d.progress }

// Observe ingests one mapped gaze sample at monotonic time t (seconds).
func (d *Dwell) Observe(t, x, y float64) {
	area := d.hitTest(x, y)

	// Neutral zones never trigger and clear tracking entirely.
	if area.Kind == AreaNone || area.Kind == AreaRest {
		d.tracking = false
		d.progress = 0.0
		return
	}

	if !d.tracking || d.area != area {
		d.tracking = true
		d.area = area
		d.startT = t
		d.progress = 0.0
		return
	}

	elapsed := t - d.startT
	if elapsed < dwellGraceS {
		d.progress = 0.0
		return
	}

	threshold := float64(d.cfg.DwellThresholdMS) / 1000.0
	effective := threshold - dwellGraceS
	if effective < 1e-3 {
		effective = 1e-3
	}
	d.progress = clamp01((elapsed - dwellGraceS) / effective)

	if elapsed >= threshold {
		if d.onActivate != nil {
			d.onActivate(area)
		}
		d.startT = t
		d.progress = 0.0
	}
}

// LoseTracking resets the engine when the gaze sample cannot be mapped.
func (d *Dwell) LoseTracking() {
	d.tracking = false
	d.progress = 0.0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
