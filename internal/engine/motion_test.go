package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCircleOrbit(t *testing.T) {
	o := Orbit{Shape: ShapeCircle, CX: 100, CY: 200, Radius: 50, FreqHz: 0.25, Clockwise: true}

	x, y := o.PositionAt(0)
	assert.InDelta(t, 150.0, x, 1e-9)
	assert.InDelta(t, 200.0, y, 1e-9)

	// Quarter period, clockwise: the dot is at the bottom of the orbit
	// (screen coordinates grow downward).
	x, y = o.PositionAt(1.0)
	assert.InDelta(t, 100.0, x, 1e-9)
	assert.InDelta(t, 250.0, y, 1e-9)

	// Counter-clockwise mirrors the vertical axis.
	o.Clockwise = false
	x, y = o.PositionAt(1.0)
	assert.InDelta(t, 100.0, x, 1e-9)
	assert.InDelta(t, 150.0, y, 1e-9)
}

func TestCircleOrbitPeriodic(t *testing.T) {
	o := Orbit{Shape: ShapeCircle, CX: 0, CY: 0, Radius: 10, FreqHz: 0.5, Clockwise: true}
	x0, y0 := o.PositionAt(0.3)
	x1, y1 := o.PositionAt(0.3 + 2.0) // one full period later
	assert.InDelta(t, x0, x1, 1e-9)
	assert.InDelta(t, y0, y1, 1e-9)
}

func TestSquareOrbitCorners(t *testing.T) {
	o := Orbit{Shape: ShapeSquare, CX: 0, CY: 0, HalfW: 10, FreqHz: 1.0, Clockwise: true}

	// p = u*4 hits the four corners at u = 0, 0.25, 0.5, 0.75.
	cases := []struct {
		t, x, y float64
	}{
		{0.00, -10, -10},
		{0.25, 10, -10},
		{0.50, 10, 10},
		{0.75, -10, 10},
	}
	for _, c := range cases {
		x, y := o.PositionAt(c.t)
		assert.InDelta(t, c.x, x, 1e-9, "t=%v", c.t)
		assert.InDelta(t, c.y, y, 1e-9, "t=%v", c.t)
	}

	// Midpoint of the top edge.
	x, y := o.PositionAt(0.125)
	assert.InDelta(t, 0.0, x, 1e-9)
	assert.InDelta(t, -10.0, y, 1e-9)
}

func TestSquareOrbitCounterClockwise(t *testing.T) {
	cw := Orbit{Shape: ShapeSquare, CX: 0, CY: 0, HalfW: 10, FreqHz: 1.0, Clockwise: true}
	ccw := cw
	ccw.Clockwise = false

	// Reversal substitutes u -> 1-u: both traversals agree at mirrored times.
	x0, y0 := cw.PositionAt(0.2)
	x1, y1 := ccw.PositionAt(0.8)
	assert.InDelta(t, x0, x1, 1e-9)
	assert.InDelta(t, y0, y1, 1e-9)
}

func TestRectangleOrbitUsesBothExtents(t *testing.T) {
	o := Orbit{Shape: ShapeRectangle, CX: 0, CY: 0, HalfW: 20, HalfH: 5, FreqHz: 1.0, Clockwise: true}

	x, y := o.PositionAt(0)
	assert.InDelta(t, -20.0, x, 1e-9)
	assert.InDelta(t, -5.0, y, 1e-9)

	x, y = o.PositionAt(0.5)
	assert.InDelta(t, 20.0, x, 1e-9)
	assert.InDelta(t, 5.0, y, 1e-9)
}

func TestTriangleOrbitVertices(t *testing.T) {
	o := Orbit{Shape: ShapeTriangle, CX: 0, CY: 0, Radius: 12, FreqHz: 1.0, Clockwise: true}

	h := (math.Sqrt(3) / 2.0) * 12

	x, y := o.PositionAt(0)
	assert.InDelta(t, 0.0, x, 1e-9)
	assert.InDelta(t, -12.0, y, 1e-9)

	x, y = o.PositionAt(1.0/3.0)
	assert.InDelta(t, h, x, 1e-9)
	assert.InDelta(t, 6.0, y, 1e-9)

	x, y = o.PositionAt(2.0/3.0)
	assert.InDelta(t, -h, x, 1e-9)
	assert.InDelta(t, 6.0, y, 1e-9)
}

func TestTriangleOrbitCounterClockwise(t *testing.T) {
	o := Orbit{Shape: ShapeTriangle, CX: 0, CY: 0, Radius: 12, FreqHz: 1.0, Clockwise: false}

	h := (math.Sqrt(3) / 2.0) * 12

	// CCW visits the left vertex second.
	x, y := o.PositionAt(1.0 / 3.0)
	assert.InDelta(t, -h, x, 1e-9)
	assert.InDelta(t, 6.0, y, 1e-9)
}

func TestOrbitStateless(t *testing.T) {
	o := Orbit{Shape: ShapeSquare, CX: 3, CY: 4, HalfW: 7, FreqHz: 0.25, Clockwise: true}

	// Evaluation order must not matter: the trajectory is a pure function of
	// t, so out-of-order queries reproduce exactly.
	x1, y1 := o.PositionAt(5.17)
	o.PositionAt(123.4)
	o.PositionAt(0.01)
	x2, y2 := o.PositionAt(5.17)
	assert.Equal(t, x1, x2)
	assert.Equal(t, y1, y2)
}

func TestOscillationPath(t *testing.T) {
	p := OscillationPath{CX: 500, CY: 300, AmpX: 200, AmpY: 0, FreqHz: 0.28}

	x, y := p.PositionAt(0)
	assert.InDelta(t, 500.0, x, 1e-9)
	assert.InDelta(t, 300.0, y, 1e-9)

	// Quarter period: full amplitude on X, Y stays put.
	quarter := 1.0 / (4.0 * 0.28)
	x, y = p.PositionAt(quarter)
	assert.InDelta(t, 700.0, x, 1e-9)
	assert.InDelta(t, 300.0, y, 1e-9)

	// A second degree of freedom engages when AmpY is set.
	p.AmpY = 50
	_, y = p.PositionAt(quarter)
	assert.InDelta(t, 350.0, y, 1e-9)
}

func TestParseShape(t *testing.T) {
	assert.Equal(t, ShapeSquare, ParseShape("square"))
	assert.Equal(t, ShapeTriangle, ParseShape("triangle"))
	assert.Equal(t, ShapeRectangle, ParseShape("rectangle"))
	assert.Equal(t, ShapeCircle, ParseShape("circle"))
	assert.Equal(t, ShapeCircle, ParseShape("dodecahedron"))
}
