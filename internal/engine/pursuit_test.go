package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDT = 1.0 / 30.0

func pursuitFixture(cfg Config, multi bool, onEvent EventFunc) *Pursuit {
	labels := []string{"A", "B"}
	orbits := map[string]Orbit{
		"A": {Shape: ShapeCircle, CX: 300, CY: 300, Radius: 120, FreqHz: cfg.OptionFrequencyHz, Clockwise: true},
		"B": {Shape: ShapeSquare, CX: 1500, CY: 300, HalfW: 120, FreqHz: cfg.OptionFrequencyHz, Clockwise: true},
	}
	submit := OscillationPath{CX: 900, CY: 950, AmpX: 280, FreqHz: cfg.SubmitFrequencyHz}

	var selection Selection
	if multi {
		selection = NewMultiSelection(labels)
	} else {
		selection = NewSingleSelection()
	}
	return NewPursuit(cfg, labels, orbits, submit, selection, onEvent)
}

// feedTracking feeds n samples whose gaze exactly follows the given label's
// orbit, returning the timestamp of the last sample.
func feedTracking(p *Pursuit, lab string, n int, t0 float64) float64 {
	t := t0
	for i := 0; i < n; i++ {
		t = t0 + float64(i)*testDT
		targets, _, _ := p.TargetsAt(t)
		pos := targets[lab]
		p.Observe(t, pos[0], pos[1])
	}
	return t
}

func TestPursuitTogglesAfterStableRun(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CorrThreshold = 0.73
	cfg.ToggleStableSamples = 18
	cfg.SubmitStableSamples = 100000 // keep the submit path out of this test

	var events []Event
	p := pursuitFixture(cfg, false, func(ev Event) { events = append(events, ev) })

	// Decisions start at the 12th buffered sample; the 18th consecutive
	// qualifying decision fires, i.e. at sample index 28.
	for i := 0; i < 40; i++ {
		ts := float64(i) * testDT
		targets, _, _ := p.TargetsAt(ts)
		pos := targets["A"]
		p.Observe(ts, pos[0], pos[1])

		if i < 28 {
			require.Empty(t, events, "no event expected before sample %d", i)
		}
	}

	require.Len(t, events, 1)
	assert.Equal(t, EventSelect, events[0].Kind)
	assert.Equal(t, "A", events[0].Label)
	assert.Equal(t, 0, events[0].Index)
	assert.GreaterOrEqual(t, events[0].Score, cfg.CorrThreshold)
	assert.Equal(t, []string{"A"}, p.Selection().Values())
}

func TestPursuitAlternatingGazeNeverFires(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ToggleStableSamples = 18
	cfg.SubmitStableSamples = 100000

	var events []Event
	p := pursuitFixture(cfg, false, func(ev Event) { events = append(events, ev) })

	// Gaze jumps between both targets every sample: no candidate can hold a
	// run anywhere near the stability requirement.
	for i := 0; i < 120; i++ {
		ts := float64(i) * testDT
		targets, _, _ := p.TargetsAt(ts)
		lab := "A"
		if i%2 == 1 {
			lab = "B"
		}
		pos := targets[lab]
		p.Observe(ts, pos[0], pos[1])
	}

	assert.Empty(t, events)
}

func TestPursuitSubmitCooldown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AllowEmptySubmit = true
	cfg.ToggleStableSamples = 100000 // isolate the submit path
	cfg.SubmitStableSamples = 20
	cfg.SubmitCooldownMS = 1400

	type stamped struct {
		ev Event
		t  float64
	}
	var submits []stamped
	var now float64
	p := pursuitFixture(cfg, false, func(ev Event) {
		if ev.Kind == EventSubmit {
			submits = append(submits, stamped{ev, now})
		}
	})

	// Gaze rides the submit target for three seconds of samples.
	for i := 0; i < 90; i++ {
		now = float64(i) * testDT
		_, sx, sy := p.TargetsAt(now)
		p.Observe(now, sx, sy)
	}

	require.NotEmpty(t, submits)
	for i := 1; i < len(submits); i++ {
		gap := submits[i].t - submits[i-1].t
		assert.GreaterOrEqual(t, gap, 1.4-1e-9,
			"second submit fired %.3fs after the first, inside the cooldown", gap)
	}
}

func TestPursuitEmptySubmitSuppressed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AllowEmptySubmit = false
	cfg.ToggleStableSamples = 100000
	cfg.SubmitStableSamples = 20

	var events []Event
	p := pursuitFixture(cfg, false, func(ev Event) { events = append(events, ev) })

	for i := 0; i < 90; i++ {
		ts := float64(i) * testDT
		_, sx, sy := p.TargetsAt(ts)
		p.Observe(ts, sx, sy)
	}

	// Nothing selected, empty submits disallowed: dead silence.
	assert.Empty(t, events)
}

func TestPursuitSubmitBeatsToggleInSameTick(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AllowEmptySubmit = true
	// Both counters qualify from the very first decision tick.
	cfg.ToggleStableSamples = 1
	cfg.SubmitStableSamples = 1
	cfg.ProximityWeight = 1.0 // pure proximity: park the gaze anywhere useful

	var kinds []EventKind
	p := pursuitFixture(cfg, false, func(ev Event) { kinds = append(kinds, ev.Kind) })

	// Gaze rides the submit target; no option can qualify on proximity, so
	// the submit decision must own the tick.
	for i := 0; i < 20; i++ {
		ts := float64(i) * testDT
		_, sx, sy := p.TargetsAt(ts)
		p.Observe(ts, sx, sy)
	}

	require.NotEmpty(t, kinds)
	assert.Equal(t, EventSubmit, kinds[0])
}

func TestPursuitLoseTrackingResetsCounters(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ToggleStableSamples = 18
	cfg.SubmitStableSamples = 100000

	var events []Event
	p := pursuitFixture(cfg, false, func(ev Event) { events = append(events, ev) })

	// 27 perfect samples: one short of firing.
	last := feedTracking(p, "A", 27, 0)
	require.Empty(t, events)

	// Tracking drop wipes the run; the next qualifying samples must rebuild
	// the full stability window before anything fires.
	p.LoseTracking()

	for i := 1; i <= 10; i++ {
		ts := last + float64(i)*testDT
		targets, _, _ := p.TargetsAt(ts)
		pos := targets["A"]
		p.Observe(ts, pos[0], pos[1])
	}
	assert.Empty(t, events)
}

func TestPursuitScoresExposed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SubmitStableSamples = 100000
	cfg.ToggleStableSamples = 100000

	p := pursuitFixture(cfg, false, nil)
	feedTracking(p, "A", 30, 0)

	scores := p.Scores()
	require.Contains(t, scores, "A")
	require.Contains(t, scores, "B")
	assert.Greater(t, scores["A"], scores["B"])
	assert.GreaterOrEqual(t, scores["A"], cfg.CorrThreshold)
}

func TestPursuitColdStartGuard(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ToggleStableSamples = 1
	cfg.SubmitStableSamples = 1
	cfg.AllowEmptySubmit = true

	var events []Event
	p := pursuitFixture(cfg, false, func(ev Event) { events = append(events, ev) })

	// 11 samples stay under the cold-start guard: no decision, no event.
	feedTracking(p, "A", 11, 0)
	assert.Empty(t, events)
}
