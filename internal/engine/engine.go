// Package engine turns a stream of gaze and blink samples into discrete,
// debounced activation events. Three interchangeable modes are provided:
// dwell (sustained gaze in an area), blink (held eye closure over an area)
// and smooth pursuit (gaze trajectory correlated with a moving target).
//
// The engine is single-threaded: one instance belongs to one active question
// and is driven synchronously by its sample source. Timestamps are monotonic
// seconds supplied by the caller; no engine call can fail.
package engine

// AreaKind enumerates the interactive zones of a question layout.
type AreaKind int

const (
	AreaNone AreaKind = iota
	AreaOption
	AreaReset
	AreaRest
	AreaSubmit
)

// Area identifies a zone under the gaze. Index is only meaningful for
// AreaOption.
type Area struct {
	Kind  AreaKind
	Index int
}

// OptionArea returns the area for the i-th option.
func OptionArea(i int) Area { return Area{Kind: AreaOption, Index: i} }

// EventKind enumerates the discrete actions an engine can emit.
type EventKind int

const (
	EventSelect EventKind = iota
	EventToggle
	EventReset
	EventSubmit
)

func (k EventKind) String() string {
	switch k {
	case EventSelect:
		return "select"
	case EventToggle:
		return "toggle"
	case EventReset:
		return "reset"
	case EventSubmit:
		return "submit"
	}
	return "unknown"
}

// Event is a single debounced activation. Label and Index are set for
// select/toggle events; Values carries the selection at submit time.
type Event struct {
	Kind   EventKind
	Label  string
	Index  int
	Values []string
	Score  float64
}

// EventFunc receives events synchronously on the sample-feeding goroutine.
type EventFunc func(Event)

// HitTestFunc resolves the area under a point in widget coordinates. It is
// supplied per question layout by the caller.
type HitTestFunc func(x, y float64) Area

// Config is the tuning surface shared by all activation modes. Durations are
// milliseconds to match the questionnaire definition format.
type Config struct {
	WindowMS            int     `mapstructure:"window_ms" yaml:"window_ms" json:"window_ms"`
	CorrThreshold       float64 `mapstructure:"corr_threshold" yaml:"corr_threshold" json:"corr_threshold"`
	ToggleStableSamples int     `mapstructure:"toggle_stable_samples" yaml:"toggle_stable_samples" json:"toggle_stable_samples"`
	SubmitStableSamples int     `mapstructure:"submit_stable_samples" yaml:"submit_stable_samples" json:"submit_stable_samples"`
	UseLagCompensation  bool    `mapstructure:"use_lag_compensation" yaml:"use_lag_compensation" json:"use_lag_compensation"`
	MaxLagMS            int     `mapstructure:"max_lag_ms" yaml:"max_lag_ms" json:"max_lag_ms"`
	OptionFrequencyHz   float64 `mapstructure:"option_frequency_hz" yaml:"option_frequency_hz" json:"option_frequency_hz"`
	SubmitFrequencyHz   float64 `mapstructure:"submit_frequency_hz" yaml:"submit_frequency_hz" json:"submit_frequency_hz"`
	ProximitySigmaPx    float64 `mapstructure:"proximity_sigma_px" yaml:"proximity_sigma_px" json:"proximity_sigma_px"`
	ProximityWeight     float64 `mapstructure:"proximity_weight" yaml:"proximity_weight" json:"proximity_weight"`
	ToggleCooldownMS    int     `mapstructure:"toggle_cooldown_ms" yaml:"toggle_cooldown_ms" json:"toggle_cooldown_ms"`
	SubmitCooldownMS    int     `mapstructure:"submit_cooldown_ms" yaml:"submit_cooldown_ms" json:"submit_cooldown_ms"`
	AllowEmptySubmit    bool    `mapstructure:"allow_empty_submit" yaml:"allow_empty_submit" json:"allow_empty_submit"`
	DwellThresholdMS    int     `mapstructure:"dwell_threshold_ms" yaml:"dwell_threshold_ms" json:"dwell_threshold_ms"`
	BlinkThresholdMS    int     `mapstructure:"blink_threshold_ms" yaml:"blink_threshold_ms" json:"blink_threshold_ms"`
}

// DefaultConfig returns the tuning used by the stock question presets.
func DefaultConfig() Config {
	return Config{
		WindowMS:            1250,
		CorrThreshold:       0.73,
		ToggleStableSamples: 18,
		SubmitStableSamples: 20,
		UseLagCompensation:  true,
		MaxLagMS:            180,
		OptionFrequencyHz:   0.25,
		SubmitFrequencyHz:   0.28,
		ProximitySigmaPx:    220.0,
		ProximityWeight:     0.15,
		ToggleCooldownMS:    1300,
		SubmitCooldownMS:    1400,
		AllowEmptySubmit:    false,
		DwellThresholdMS:    1500,
		BlinkThresholdMS:    800,
	}
}

// SubmitCorrThreshold derives the submission threshold. Submitting is
// intentionally harder than selecting.
func (c Config) SubmitCorrThreshold() float64 { return c.CorrThreshold + 0.06 }

// CorrWeight is the complement of the proximity weight; the two always sum
// to one.
func (c Config) CorrWeight() float64 {
	w := c.ProximityWeight
	if w < 0 {
		w = 0
	} else if w > 1 {
		w = 1
	}
	return 1.0 - w
}

// Selection accumulates the answer of the current question. Single-choice
// questions replace the value, multi-choice questions flip set membership.
type Selection interface {
	// Toggle flips or replaces the given option and reports the event kind
	// that describes what happened (EventSelect or EventToggle).
	Toggle(index int, label string) EventKind
	Clear()
	Empty() bool
	Values() []string
}

// SingleSelection keeps at most one chosen label.
type SingleSelection struct {
	label  string
	chosen bool
}

func NewSingleSelection() *SingleSelection { return &SingleSelection{} }

func (s *SingleSelection) Toggle(_ int, label string) EventKind {
	s.label = label
	s.chosen = true
	return EventSelect
}

func (s *SingleSelection) Clear() {
	s.label = ""
	s.chosen = false
}

func (s *SingleSelection) Empty() bool { return !s.chosen }

func (s *SingleSelection) Values() []string {
	if !s.chosen {
		return nil
	}
	return []string{s.label}
}

// MultiSelection keeps an ordered set of chosen options.
type MultiSelection struct {
	labels []string
	member map[int]bool
	order  []int
}

func NewMultiSelection(labels []string) *MultiSelection {
	return &MultiSelection{labels: labels, member: make(map[int]bool)}
}

func (m *MultiSelection) Toggle(index int, _ string) EventKind {
	if m.member[index] {
		delete(m.member, index)
		for i, v := range m.order {
			if v == index {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
	} else {
		m.member[index] = true
		m.order = append(m.order, index)
	}
	return EventToggle
}

func (m *MultiSelection) Clear() {
	m.member = make(map[int]bool)
	m.order = nil
}

func (m *MultiSelection) Empty() bool { return len(m.member) == 0 }

func (m *MultiSelection) Values() []string {
	// Stable result order follows the on-screen option order, not toggle order.
	out := make([]string, 0, len(m.member))
	for i, lab := range m.labels {
		if m.member[i] {
			out = append(out, lab)
		}
	}
	return out
}
