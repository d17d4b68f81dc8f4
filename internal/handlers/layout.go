package handlers

import (
	"gazequest/internal/engine"
)

// orbitShapes is the cycling shape assignment for option targets. Adjacent
// options also alternate direction, so every on-screen trajectory stays
// visually distinct.
var orbitShapes = []engine.Shape{
	engine.ShapeCircle,
	engine.ShapeSquare,
	engine.ShapeTriangle,
	engine.ShapeRectangle,
}

type rect struct {
	x0, y0, x1, y1 float64
}

func (r rect) contains(x, y float64) bool {
	return x >= r.x0 && x < r.x1 && y >= r.y0 && y < r.y1
}

// Layout derives all on-screen geometry of one question from the client's
// reported widget size: option zones and orbits across the upper band, a rest
// band in the middle, and reset/submit zones along the bottom.
type Layout struct {
	width, height float64
	labels        []string

	optionRects []rect
	resetRect   rect
	restRect    rect
	submitRect  rect

	orbits map[string]engine.Orbit
	submit engine.OscillationPath
}

// NewLayout computes the layout for the given option labels and widget size.
func NewLayout(labels []string, width, height float64, cfg engine.Config) *Layout {
	l := &Layout{
		width:  width,
		height: height,
		labels: labels,
		orbits: make(map[string]engine.Orbit, len(labels)),
	}

	n := len(labels)
	if n == 0 {
		n = 1
	}
	colW := width / float64(n)

	// Upper band: one column per option, inset so the columns do not touch.
	bandTop := 0.06 * height
	bandBot := 0.60 * height
	inset := 0.04 * colW
	for i, label := range labels {
		x0 := float64(i) * colW
		l.optionRects = append(l.optionRects, rect{x0 + inset, bandTop, x0 + colW - inset, bandBot})

		cx := x0 + colW/2.0
		cy := 0.33 * height
		base := 0.30 * min(colW, bandBot-bandTop)

		orbit := engine.Orbit{
			Shape:     orbitShapes[i%len(orbitShapes)],
			CX:        cx,
			CY:        cy,
			FreqHz:    cfg.OptionFrequencyHz,
			Clockwise: i%2 == 0,
		}
		switch orbit.Shape {
		case engine.ShapeSquare:
			orbit.HalfW = 0.8 * base
		case engine.ShapeRectangle:
			orbit.HalfW = base
			orbit.HalfH = 0.55 * base
		default:
			orbit.Radius = base
		}
		l.orbits[label] = orbit
	}

	// Middle band: resting the gaze here never accumulates evidence.
	l.restRect = rect{0, bandBot, width, 0.76 * height}

	// Bottom band: reset on the left, the oscillating submit target in the
	// wide center, rest on the right.
	l.resetRect = rect{0, 0.76 * height, 0.22 * width, height}
	l.submitRect = rect{0.28 * width, 0.76 * height, 0.72 * width, height}

	l.submit = engine.OscillationPath{
		CX:     0.50 * width,
		CY:     0.87 * height,
		AmpX:   0.20 * width,
		FreqHz: cfg.SubmitFrequencyHz,
	}
	return l
}

// HitTest maps a gaze point onto the screen areas the dwell and blink
// modalities act on.
func (l *Layout) HitTest(x, y float64) engine.Area {
	for i, r := range l.optionRects {
		if r.contains(x, y) {
			return engine.OptionArea(i)
		}
	}
	switch {
	case l.resetRect.contains(x, y):
		return engine.Area{Kind: engine.AreaReset}
	case l.submitRect.contains(x, y):
		return engine.Area{Kind: engine.AreaSubmit}
	case l.restRect.contains(x, y):
		return engine.Area{Kind: engine.AreaRest}
	}
	return engine.Area{Kind: engine.AreaNone}
}

// Orbits returns the per-label pursuit trajectories.
func (l *Layout) Orbits() map[string]engine.Orbit { return l.orbits }

// SubmitPath returns the submit target trajectory.
func (l *Layout) SubmitPath() engine.OscillationPath { return l.submit }

// zoneJSON is one named screen region in the layout description.
type zoneJSON struct {
	Kind  string  `json:"kind"`
	Label string  `json:"label,omitempty"`
	X0    float64 `json:"x0"`
	Y0    float64 `json:"y0"`
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
}

// layoutJSON is the client-facing description of the computed geometry, so
// the widget can draw zones and moving targets exactly where the server
// scores them.
type layoutJSON struct {
	Zones  []zoneJSON              `json:"zones"`
	Orbits map[string]engine.Orbit `json:"orbits"`
	Submit engine.OscillationPath  `json:"submit"`
}

// Describe returns the JSON-ready layout description.
func (l *Layout) Describe() layoutJSON {
	zones := make([]zoneJSON, 0, len(l.optionRects)+3)
	for i, r := range l.optionRects {
		zones = append(zones, zoneJSON{Kind: "option", Label: l.labels[i], X0: r.x0, Y0: r.y0, X1: r.x1, Y1: r.y1})
	}
	zones = append(zones,
		zoneJSON{Kind: "rest", X0: l.restRect.x0, Y0: l.restRect.y0, X1: l.restRect.x1, Y1: l.restRect.y1},
		zoneJSON{Kind: "reset", X0: l.resetRect.x0, Y0: l.resetRect.y0, X1: l.resetRect.x1, Y1: l.resetRect.y1},
		zoneJSON{Kind: "submit", X0: l.submitRect.x0, Y0: l.submitRect.y0, X1: l.submitRect.x1, Y1: l.submitRect.y1},
	)
	return layoutJSON{Zones: zones, Orbits: l.orbits, Submit: l.submit}
}
