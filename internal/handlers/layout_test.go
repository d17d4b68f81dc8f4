package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gazequest/internal/engine"
)

func testLayout() *Layout {
	return NewLayout([]string{"A", "B", "C", "D"}, 1600, 900, engine.DefaultConfig())
}

func TestLayoutHitTestColumns(t *testing.T) {
	l := testLayout()

	// Each option column answers for its own quarter of the upper band.
	assert.Equal(t, engine.OptionArea(0), l.HitTest(200, 300))
	assert.Equal(t, engine.OptionArea(1), l.HitTest(600, 300))
	assert.Equal(t, engine.OptionArea(2), l.HitTest(1000, 300))
	assert.Equal(t, engine.OptionArea(3), l.HitTest(1400, 300))
}

func TestLayoutHitTestBands(t *testing.T) {
	l := testLayout()

	assert.Equal(t, engine.AreaRest, l.HitTest(800, 600).Kind)
	assert.Equal(t, engine.AreaReset, l.HitTest(100, 850).Kind)
	assert.Equal(t, engine.AreaSubmit, l.HitTest(800, 850).Kind)

	// The gap between columns and the area above the band map to nothing.
	assert.Equal(t, engine.AreaNone, l.HitTest(400, 300).Kind)
	assert.Equal(t, engine.AreaNone, l.HitTest(800, 10).Kind)
	// Bottom band between reset and submit is unmapped too.
	assert.Equal(t, engine.AreaNone, l.HitTest(400, 850).Kind)
}

func TestLayoutOrbitsDistinct(t *testing.T) {
	cfg := engine.DefaultConfig()
	l := NewLayout([]string{"A", "B", "C", "D"}, 1600, 900, cfg)

	orbits := l.Orbits()
	require.Len(t, orbits, 4)

	assert.Equal(t, engine.ShapeCircle, orbits["A"].Shape)
	assert.Equal(t, engine.ShapeSquare, orbits["B"].Shape)
	assert.Equal(t, engine.ShapeTriangle, orbits["C"].Shape)
	assert.Equal(t, engine.ShapeRectangle, orbits["D"].Shape)

	// Neighbors run in opposite directions.
	assert.True(t, orbits["A"].Clockwise)
	assert.False(t, orbits["B"].Clockwise)
	assert.True(t, orbits["C"].Clockwise)
	assert.False(t, orbits["D"].Clockwise)

	for _, o := range orbits {
		assert.Equal(t, cfg.OptionFrequencyHz, o.FreqHz)
	}

	// Orbit centers stay inside their own columns.
	assert.InDelta(t, 200, orbits["A"].CX, 1)
	assert.InDelta(t, 1400, orbits["D"].CX, 1)
}

func TestLayoutSubmitPath(t *testing.T) {
	cfg := engine.DefaultConfig()
	l := NewLayout([]string{"YES", "NO"}, 1600, 900, cfg)

	p := l.SubmitPath()
	assert.Equal(t, 800.0, p.CX)
	assert.Equal(t, 0.0, p.AmpY)
	assert.Equal(t, cfg.SubmitFrequencyHz, p.FreqHz)

	// The oscillation stays inside the submit zone's horizontal extent.
	x0, _ := p.PositionAt(0)
	assert.InDelta(t, 800.0, x0, 0.001)
	for _, tt := range []float64{0.5, 1.0, 1.7, 2.3} {
		x, y := p.PositionAt(tt)
		assert.GreaterOrEqual(t, x, 0.28*1600)
		assert.LessOrEqual(t, x, 0.72*1600)
		assert.Equal(t, 0.87*900, y)
	}
}

func TestLayoutDescribe(t *testing.T) {
	l := testLayout()
	desc := l.Describe()

	// Four option zones plus rest, reset and submit.
	require.Len(t, desc.Zones, 7)
	assert.Equal(t, "option", desc.Zones[0].Kind)
	assert.Equal(t, "A", desc.Zones[0].Label)
	assert.Equal(t, "submit", desc.Zones[6].Kind)
	assert.Len(t, desc.Orbits, 4)
}

func TestLayoutInfoQuestionHasNoOptions(t *testing.T) {
	l := NewLayout(nil, 1600, 900, engine.DefaultConfig())
	assert.Empty(t, l.Orbits())
	assert.Equal(t, engine.AreaNone, l.HitTest(800, 300).Kind)
	assert.Equal(t, engine.AreaSubmit, l.HitTest(800, 850).Kind)
}
