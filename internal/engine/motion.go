package engine

import "math"

// Shape enumerates the supported orbit trajectories.
type Shape int

const (
	ShapeCircle Shape = iota
	ShapeSquare
	ShapeTriangle
	ShapeRectangle
)

func (s Shape) String() string {
	switch s {
	case ShapeCircle:
		return "circle"
	case ShapeSquare:
		return "square"
	case ShapeTriangle:
		return "triangle"
	case ShapeRectangle:
		return "rectangle"
	}
	return "unknown"
}

// ParseShape maps a questionnaire shape name onto a Shape. Unknown names fall
// back to a circle.
func ParseShape(name string) Shape {
	switch name {
	case "square":
		return ShapeSquare
	case "triangle":
		return ShapeTriangle
	case "rectangle":
		return ShapeRectangle
	default:
		return ShapeCircle
	}
}

// Orbit is a deterministic parametric trajectory around a center point.
// PositionAt is a pure function of time: no incremental integration, so the
// trajectory cannot drift regardless of sample jitter.
type Orbit struct {
	Shape     Shape   `json:"shape"`
	CX        float64 `json:"cx"`
	CY        float64 `json:"cy"`
	Radius    float64 `json:"radius"`     // circle and triangle circumradius
	HalfW     float64 `json:"half_w"`     // square/rectangle half extents
	HalfH     float64 `json:"half_h"`
	FreqHz    float64 `json:"freq_hz"`
	Clockwise bool    `json:"clockwise"`
}

// PositionAt returns the target position at t seconds.
func (o Orbit) PositionAt(t float64) (x, y float64) {
	switch o.Shape {
	case ShapeSquare:
		return o.perimeterPos(t, o.HalfW, o.HalfW)
	case ShapeRectangle:
		return o.perimeterPos(t, o.HalfW, o.HalfH)
	case ShapeTriangle:
		return o.trianglePos(t)
	default:
		return o.circlePos(t)
	}
}

func (o Orbit) circlePos(t float64) (float64, float64) {
	omega := 2.0 * math.Pi * o.FreqHz
	s := 1.0
	if !o.Clockwise {
		s = -1.0
	}
	ang := s * omega * t
	return o.CX + o.Radius*math.Cos(ang), o.CY + o.Radius*math.Sin(ang)
}

// progress returns the normalized cycle position u in [0,1), reversed for
// counter-clockwise traversal.
func (o Orbit) progress(t float64) float64 {
	u := math.Mod(t*o.FreqHz, 1.0)
	if u < 0 {
		u += 1.0
	}
	if !o.Clockwise {
		u = math.Mod(1.0-u, 1.0)
	}
	return u
}

// perimeterPos walks the axis-aligned rectangle perimeter in four linear
// segments: top, right, bottom, left.
func (o Orbit) perimeterPos(t float64, hw, hh float64) (float64, float64) {
	p := o.progress(t) * 4.0

	x0, x1 := o.CX-hw, o.CX+hw
	y0, y1 := o.CY-hh, o.CY+hh

	switch {
	case p < 1.0:
		return x0 + (x1-x0)*p, y0
	case p < 2.0:
		return x1, y0 + (y1-y0)*(p-1.0)
	case p < 3.0:
		return x1 - (x1-x0)*(p-2.0), y1
	default:
		return x0, y1 - (y1-y0)*(p-3.0)
	}
}

func (o Orbit) trianglePos(t float64) (float64, float64) {
	r := o.Radius
	v0x, v0y := o.CX, o.CY-r
	v1x, v1y := o.CX+(math.Sqrt(3)/2.0)*r, o.CY+0.5*r
	v2x, v2y := o.CX-(math.Sqrt(3)/2.0)*r, o.CY+0.5*r

	// Counter-clockwise swaps the second and third vertex, mirroring the
	// traversal direction.
	vx := [3]float64{v0x, v1x, v2x}
	vy := [3]float64{v0y, v1y, v2y}
	if !o.Clockwise {
		vx = [3]float64{v0x, v2x, v1x}
		vy = [3]float64{v0y, v2y, v1y}
	}

	u := math.Mod(t*o.FreqHz, 1.0)
	if u < 0 {
		u += 1.0
	}
	p := u * 3.0

	seg := int(p)
	if seg > 2 {
		seg = 2
	}
	s := p - float64(seg)
	ax, ay := vx[seg], vy[seg]
	bx, by := vx[(seg+1)%3], vy[(seg+1)%3]
	return ax + (bx-ax)*s, ay + (by-ay)*s
}

// OscillationPath is the submit target's trajectory: a sinusoidal oscillation
// around a center. The stock presets move on the X axis only (AmpY = 0) but
// the model is fully two-dimensional.
type OscillationPath struct {
	CX     float64 `json:"cx"`
	CY     float64 `json:"cy"`
	AmpX   float64 `json:"amp_x"`
	AmpY   float64 `json:"amp_y"`
	FreqHz float64 `json:"freq_hz"`
}

// PositionAt returns the submit target position at t seconds.
func (p OscillationPath) PositionAt(t float64) (x, y float64) {
	phase := math.Sin(2.0 * math.Pi * p.FreqHz * t)
	return p.CX + p.AmpX*phase, p.CY + p.AmpY*phase
}
