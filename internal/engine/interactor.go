package engine

// Mode selects the activation modality for a question.
type Mode int

const (
	ModeDwell Mode = iota
	ModeBlink
	ModePursuit
)

func (m Mode) String() string {
	switch m {
	case ModeDwell:
		return "dwell"
	case ModeBlink:
		return "blink"
	case ModePursuit:
		return "pursuit"
	}
	return "unknown"
}

// ParseMode maps a questionnaire activation name onto a Mode. Unknown names
// fall back to dwell, the least surprising modality.
func ParseMode(name string) Mode {
	switch name {
	case "blink":
		return ModeBlink
	case "pursuit":
		return ModePursuit
	default:
		return ModeDwell
	}
}

// Setup bundles everything one question instance needs. Orbits and Submit
// are only consulted in pursuit mode, HitTest only in dwell and blink mode.
type Setup struct {
	Mode    Mode
	Config  Config
	Labels  []string
	Multi   bool
	Orbits  map[string]Orbit
	Submit  OscillationPath
	HitTest HitTestFunc
	OnEvent EventFunc
}

// Interactor is the per-question facade over the three engines. It owns the
// selection state, translates raw area activations from the dwell and blink
// engines into select/toggle/reset/submit events, and passes pursuit events
// through unchanged. All state dies with the question instance.
type Interactor struct {
	mode      Mode
	cfg       Config
	labels    []string
	selection Selection
	onEvent   EventFunc
	hitTest   HitTestFunc

	pursuit *Pursuit
	dwell   *Dwell
	blink   *Blink

	gazeX, gazeY float64
	hasGaze      bool
}

// New builds the interactor for one question instance.
func New(setup Setup) *Interactor {
	var selection Selection
	if setup.Multi {
		selection = NewMultiSelection(setup.Labels)
	} else {
		selection = NewSingleSelection()
	}

	it := &Interactor{
		mode:      setup.Mode,
		cfg:       setup.Config,
		labels:    setup.Labels,
		selection: selection,
		onEvent:   setup.OnEvent,
		hitTest:   setup.HitTest,
	}

	switch setup.Mode {
	case ModePursuit:
		it.pursuit = NewPursuit(setup.Config, setup.Labels, setup.Orbits, setup.Submit, selection, setup.OnEvent)
	case ModeBlink:
		it.blink = NewBlink(setup.Config, it.gazeArea, it.activate)
	default:
		it.dwell = NewDwell(setup.Config, setup.HitTest, it.activate)
	}
	return it
}

// ObserveGaze ingests one mapped gaze sample at monotonic time t (seconds).
func (it *Interactor) ObserveGaze(t, x, y float64) {
	it.gazeX, it.gazeY = x, y
	it.hasGaze = true

	switch it.mode {
	case ModePursuit:
		it.pursuit.Observe(t, x, y)
	case ModeDwell:
		it.dwell.Observe(t, x, y)
	}
}

// ObserveBlink ingests one blink-state sample. Only the blink modality reacts.
func (it *Interactor) ObserveBlink(t float64, blinking bool) {
	if it.mode == ModeBlink {
		it.blink.Observe(t, blinking)
	}
}

// LoseTracking propagates a failed gaze mapping: all engines drop their
// stability state so stale evidence cannot trigger anything.
func (it *Interactor) LoseTracking() {
	it.hasGaze = false
	switch it.mode {
	case ModePursuit:
		it.pursuit.LoseTracking()
	case ModeDwell:
		it.dwell.LoseTracking()
	}
}

// Selection exposes the current answer.
func (it *Interactor) Selection() Selection { return it.selection }

// Scores returns the pursuit score map, or nil for other modes.
func (it *Interactor) Scores() map[string]float64 {
	if it.pursuit == nil {
		return nil
	}
	return it.pursuit.Scores()
}

// SubmitScore returns the pursuit submit score, or 0 for other modes.
func (it *Interactor) SubmitScore() float64 {
	if it.pursuit == nil {
		return 0
	}
	return it.pursuit.SubmitScore()
}

// DwellProgress returns dwell completion in [0,1], or 0 for other modes.
func (it *Interactor) DwellProgress() float64 {
	if it.dwell == nil {
		return 0
	}
	return it.dwell.Progress()
}

// TargetsAt exposes pursuit target positions for clients that render the
// moving dots; ok is false for non-pursuit questions.
func (it *Interactor) TargetsAt(t float64) (targets map[string][2]float64, sx, sy float64, ok bool) {
	if it.pursuit == nil {
		return nil, 0, 0, false
	}
	targets, sx, sy = it.pursuit.TargetsAt(t)
	return targets, sx, sy, true
}

func (it *Interactor) gazeArea() (Area, bool) {
	if !it.hasGaze || it.hitTest == nil {
		return Area{}, false
	}
	return it.hitTest(it.gazeX, it.gazeY), true
}

// activate maps a raw area activation from the dwell or blink engine onto
// the event surface shared with the pursuit path.
func (it *Interactor) activate(area Area) {
	switch area.Kind {
	case AreaOption:
		if area.Index < 0 || area.Index >= len(it.labels) {
			return
		}
		lab := it.labels[area.Index]
		kind := it.selection.Toggle(area.Index, lab)
		it.emit(Event{Kind: kind, Label: lab, Index: area.Index})

	case AreaReset:
		if it.selection.Empty() {
			return
		}
		it.selection.Clear()
		it.emit(Event{Kind: EventReset})

	case AreaSubmit:
		if !it.cfg.AllowEmptySubmit && it.selection.Empty() {
			return
		}
		it.emit(Event{Kind: EventSubmit, Values: it.selection.Values()})
	}
}

func (it *Interactor) emit(ev Event) {
	if it.onEvent != nil {
		it.onEvent(ev)
	}
}
