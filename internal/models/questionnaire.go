package models

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"gazequest/internal/engine"
)

// Question types supported by the runner.
const (
	TypeYesNo  = "yesno"
	TypeMCQ    = "mcq"
	TypeLikert = "likert"
	TypeInfo   = "info"
)

// Tuning carries optional per-question overrides of the engine defaults.
// Only set fields replace the configured value.
type Tuning struct {
	WindowMS            *int     `yaml:"window_ms,omitempty"`
	CorrThreshold       *float64 `yaml:"corr_threshold,omitempty"`
	ToggleStableSamples *int     `yaml:"toggle_stable_samples,omitempty"`
	SubmitStableSamples *int     `yaml:"submit_stable_samples,omitempty"`
	UseLagCompensation  *bool    `yaml:"use_lag_compensation,omitempty"`
	MaxLagMS            *int     `yaml:"max_lag_ms,omitempty"`
	OptionFrequencyHz   *float64 `yaml:"option_frequency_hz,omitempty"`
	SubmitFrequencyHz   *float64 `yaml:"submit_frequency_hz,omitempty"`
	ProximitySigmaPx    *float64 `yaml:"proximity_sigma_px,omitempty"`
	ProximityWeight     *float64 `yaml:"proximity_weight,omitempty"`
	ToggleCooldownMS    *int     `yaml:"toggle_cooldown_ms,omitempty"`
	SubmitCooldownMS    *int     `yaml:"submit_cooldown_ms,omitempty"`
	AllowEmptySubmit    *bool    `yaml:"allow_empty_submit,omitempty"`
	DwellThresholdMS    *int     `yaml:"dwell_threshold_ms,omitempty"`
	BlinkThresholdMS    *int     `yaml:"blink_threshold_ms,omitempty"`
}

// Apply layers the overrides on top of base and returns the result.
func (t *Tuning) Apply(base engine.Config) engine.Config {
	if t == nil {
		return base
	}
	if t.WindowMS != nil {
		base.WindowMS = *t.WindowMS
	}
	if t.CorrThreshold != nil {
		base.CorrThreshold = *t.CorrThreshold
	}
	if t.ToggleStableSamples != nil {
		base.ToggleStableSamples = *t.ToggleStableSamples
	}
	if t.SubmitStableSamples != nil {
		base.SubmitStableSamples = *t.SubmitStableSamples
	}
	if t.UseLagCompensation != nil {
		base.UseLagCompensation = *t.UseLagCompensation
	}
	if t.MaxLagMS != nil {
		base.MaxLagMS = *t.MaxLagMS
	}
	if t.OptionFrequencyHz != nil {
		base.OptionFrequencyHz = *t.OptionFrequencyHz
	}
	if t.SubmitFrequencyHz != nil {
		base.SubmitFrequencyHz = *t.SubmitFrequencyHz
	}
	if t.ProximitySigmaPx != nil {
		base.ProximitySigmaPx = *t.ProximitySigmaPx
	}
	if t.ProximityWeight != nil {
		base.ProximityWeight = *t.ProximityWeight
	}
	if t.ToggleCooldownMS != nil {
		base.ToggleCooldownMS = *t.ToggleCooldownMS
	}
	if t.SubmitCooldownMS != nil {
		base.SubmitCooldownMS = *t.SubmitCooldownMS
	}
	if t.AllowEmptySubmit != nil {
		base.AllowEmptySubmit = *t.AllowEmptySubmit
	}
	if t.DwellThresholdMS != nil {
		base.DwellThresholdMS = *t.DwellThresholdMS
	}
	if t.BlinkThresholdMS != nil {
		base.BlinkThresholdMS = *t.BlinkThresholdMS
	}
	return base
}

// Question is one questionnaire entry as defined in the YAML file.
type Question struct {
	ID         string   `yaml:"id"`
	Text       string   `yaml:"text"`
	Type       string   `yaml:"type"`
	Activation string   `yaml:"activation"`
	Labels     []string `yaml:"labels,omitempty"`
	Required   bool     `yaml:"required"`
	Tuning     *Tuning  `yaml:"tuning,omitempty"`
}

// Multi reports whether the question accumulates a set of answers.
func (q *Question) Multi() bool { return q.Type == TypeMCQ }

// EffectiveLabels returns the option labels, substituting the per-type
// defaults when the questionnaire omits them.
func (q *Question) EffectiveLabels() []string {
	if len(q.Labels) > 0 {
		return q.Labels
	}
	switch q.Type {
	case TypeYesNo:
		return []string{"YES", "NO"}
	case TypeMCQ:
		return []string{"A", "B", "C", "D"}
	case TypeLikert:
		return []string{"1", "2", "3", "4", "5"}
	}
	return nil
}

// Mode returns the parsed activation modality.
func (q *Question) Mode() engine.Mode { return engine.ParseMode(q.Activation) }

// Questionnaire is the full definition loaded at startup.
type Questionnaire struct {
	Title     string     `yaml:"title"`
	Shuffle   bool       `yaml:"shuffle"`
	Defaults  *Tuning    `yaml:"defaults,omitempty"`
	Questions []Question `yaml:"questions"`
}

// LoadQuestionnaire reads and validates the questionnaire YAML file.
func LoadQuestionnaire(path string) (*Questionnaire, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read questionnaire file: %w", err)
	}

	var qn Questionnaire
	if err := yaml.Unmarshal(data, &qn); err != nil {
		return nil, fmt.Errorf("failed to unmarshal questionnaire YAML: %w", err)
	}

	if err := qn.Validate(); err != nil {
		return nil, err
	}
	return &qn, nil
}

// Validate rejects definitions the runner cannot drive.
func (qn *Questionnaire) Validate() error {
	if len(qn.Questions) == 0 {
		return fmt.Errorf("questionnaire has no questions")
	}

	seen := make(map[string]bool, len(qn.Questions))
	for i := range qn.Questions {
		q := &qn.Questions[i]
		if q.ID == "" {
			return fmt.Errorf("question %d has no id", i)
		}
		if seen[q.ID] {
			return fmt.Errorf("duplicate question id %q", q.ID)
		}
		seen[q.ID] = true

		switch q.Type {
		case TypeYesNo, TypeMCQ, TypeLikert, TypeInfo:
		default:
			return fmt.Errorf("question %q has unknown type %q", q.ID, q.Type)
		}

		switch q.Activation {
		case "", "dwell", "blink", "pursuit":
		default:
			return fmt.Errorf("question %q has unknown activation %q", q.ID, q.Activation)
		}

		switch q.Type {
		case TypeMCQ:
			if len(q.Labels) != 0 && len(q.Labels) != 4 {
				return fmt.Errorf("question %q: mcq requires exactly 4 labels, got %d", q.ID, len(q.Labels))
			}
		case TypeLikert:
			if len(q.Labels) != 0 && len(q.Labels) != 5 {
				return fmt.Errorf("question %q: likert requires exactly 5 labels, got %d", q.ID, len(q.Labels))
			}
		case TypeYesNo:
			if len(q.Labels) != 0 && len(q.Labels) != 2 {
				return fmt.Errorf("question %q: yesno requires exactly 2 labels, got %d", q.ID, len(q.Labels))
			}
		}
	}
	return nil
}

// QuestionByID returns the question with the given id.
func (qn *Questionnaire) QuestionByID(id string) (*Question, bool) {
	for i := range qn.Questions {
		if qn.Questions[i].ID == id {
			return &qn.Questions[i], true
		}
	}
	return nil, false
}

// EngineConfig resolves the effective engine tuning for one question:
// service defaults, then questionnaire defaults, then question overrides.
func (qn *Questionnaire) EngineConfig(base engine.Config, q *Question) engine.Config {
	cfg := qn.Defaults.Apply(base)
	return q.Tuning.Apply(cfg)
}

// ShuffledOrder returns a randomized question index order.
func (qn *Questionnaire) ShuffledOrder() []int {
	order := rand.Perm(len(qn.Questions))
	return order
}
