package engine

// Blink is an edge-triggered hold detector: a blink onset starts a timer, and
// once the closure has been held past the threshold the area under the
// current gaze is activated exactly once. Release re-arms the detector.
type Blink struct {
	cfg        Config
	gazeArea   func() (Area, bool)
	onActivate func(Area)

	blinking bool
	onsetT   float64
	fired    bool
}

// NewBlink builds a blink engine. gazeArea resolves the area under the most
// recent gaze position and reports false when no mapped sample exists.
func NewBlink(cfg Config, gazeArea func() (Area, bool), onActivate func(Area)) *Blink {
	return &Blink{cfg: cfg, gazeArea: gazeArea, onActivate: onActivate}
}

// Observe ingests one blink-state sample at monotonic time t (seconds).
func (b *Blink) Observe(t float64, blinking bool) {
	switch {
	case blinking && !b.blinking:
		b.blinking = true
		b.onsetT = t
		b.fired = false

	case blinking && b.blinking:
		if b.fired {
			return
		}
		if (t-b.onsetT)*1000.0 >= float64(b.cfg.BlinkThresholdMS) {
			b.fired = true
			area, ok := b.gazeArea()
			if !ok || area.Kind == AreaNone || area.Kind == AreaRest {
				return
			}
			if b.onActivate != nil {
				b.onActivate(area)
			}
		}

	case !blinking && b.blinking:
		b.blinking = false
		b.fired = false
	}
}
