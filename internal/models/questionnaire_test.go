package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gazequest/internal/engine"
)

func validQuestionnaire() *Questionnaire {
	return &Questionnaire{
		Title: "test",
		Questions: []Question{
			{ID: "q1", Text: "Yes or no?", Type: TypeYesNo, Activation: "dwell"},
			{ID: "q2", Text: "Pick some", Type: TypeMCQ, Activation: "pursuit"},
			{ID: "q3", Text: "Rate it", Type: TypeLikert, Activation: "blink"},
		},
	}
}

func TestValidateAcceptsWellFormed(t *testing.T) {
	assert.NoError(t, validQuestionnaire().Validate())
}

func TestValidateRejectsDuplicateIDs(t *testing.T) {
	qn := validQuestionnaire()
	qn.Questions[2].ID = "q1"
	assert.ErrorContains(t, qn.Validate(), "duplicate question id")
}

func TestValidateRejectsUnknownType(t *testing.T) {
	qn := validQuestionnaire()
	qn.Questions[0].Type = "freetext"
	assert.ErrorContains(t, qn.Validate(), "unknown type")
}

func TestValidateRejectsUnknownActivation(t *testing.T) {
	qn := validQuestionnaire()
	qn.Questions[0].Activation = "wink"
	assert.ErrorContains(t, qn.Validate(), "unknown activation")
}

func TestValidateRejectsWrongLabelCount(t *testing.T) {
	qn := validQuestionnaire()
	qn.Questions[1].Labels = []string{"only", "two"}
	assert.ErrorContains(t, qn.Validate(), "exactly 4 labels")

	qn = validQuestionnaire()
	qn.Questions[2].Labels = []string{"1", "2", "3"}
	assert.ErrorContains(t, qn.Validate(), "exactly 5 labels")
}

func TestEffectiveLabelsDefaults(t *testing.T) {
	assert.Equal(t, []string{"YES", "NO"}, (&Question{Type: TypeYesNo}).EffectiveLabels())
	assert.Equal(t, []string{"A", "B", "C", "D"}, (&Question{Type: TypeMCQ}).EffectiveLabels())
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, (&Question{Type: TypeLikert}).EffectiveLabels())
	assert.Empty(t, (&Question{Type: TypeInfo}).EffectiveLabels())

	// Explicit labels win over the defaults.
	q := &Question{Type: TypeYesNo, Labels: []string{"Ja", "Nein"}}
	assert.Equal(t, []string{"Ja", "Nein"}, q.EffectiveLabels())
}

func TestTuningLayering(t *testing.T) {
	base := engine.DefaultConfig()

	qn := validQuestionnaire()
	qn.Defaults = &Tuning{
		CorrThreshold:   ptr(0.80),
		ProximityWeight: ptr(0.25),
	}
	qn.Questions[0].Tuning = &Tuning{CorrThreshold: ptr(0.65)}

	// Question override beats questionnaire default beats service default.
	cfg := qn.EngineConfig(base, &qn.Questions[0])
	assert.Equal(t, 0.65, cfg.CorrThreshold)
	assert.Equal(t, 0.25, cfg.ProximityWeight)
	assert.Equal(t, base.WindowMS, cfg.WindowMS)

	// A question without overrides still inherits the questionnaire layer.
	cfg = qn.EngineConfig(base, &qn.Questions[1])
	assert.Equal(t, 0.80, cfg.CorrThreshold)
}

func TestTuningApplyNilReceiver(t *testing.T) {
	base := engine.DefaultConfig()
	var tn *Tuning
	assert.Equal(t, base, tn.Apply(base))
}

func TestLoadQuestionnaireFromFile(t *testing.T) {
	yaml := `
title: "Loaded"
shuffle: true
questions:
  - id: "a"
    text: "First"
    type: "yesno"
    activation: "dwell"
  - id: "b"
    text: "Second"
    type: "likert"
    activation: "pursuit"
    tuning:
      corr_threshold: 0.7
`
	path := filepath.Join(t.TempDir(), "questionnaire.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	qn, err := LoadQuestionnaire(path)
	require.NoError(t, err)
	assert.Equal(t, "Loaded", qn.Title)
	assert.True(t, qn.Shuffle)
	require.Len(t, qn.Questions, 2)

	q, found := qn.QuestionByID("b")
	require.True(t, found)
	require.NotNil(t, q.Tuning)
	assert.Equal(t, 0.7, *q.Tuning.CorrThreshold)
	assert.Equal(t, engine.ModePursuit, q.Mode())
}

func TestLoadQuestionnaireRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questionnaire.yaml")
	require.NoError(t, os.WriteFile(path, []byte("questions: []"), 0644))

	_, err := LoadQuestionnaire(path)
	assert.ErrorContains(t, err, "no questions")
}

func TestShuffledOrderIsPermutation(t *testing.T) {
	qn := validQuestionnaire()
	order := qn.ShuffledOrder()
	require.Len(t, order, len(qn.Questions))

	seen := make(map[int]bool)
	for _, idx := range order {
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, len(qn.Questions))
		assert.False(t, seen[idx])
		seen[idx] = true
	}
}

func TestRunOrderHelpers(t *testing.T) {
	run := &Run{QuestionOrder: "q2,q1,q3", CurrentIndex: 1}
	assert.Equal(t, []string{"q2", "q1", "q3"}, run.OrderIDs())
	assert.Equal(t, "q1", run.CurrentQuestionID())

	run.CurrentIndex = 3
	assert.Equal(t, "", run.CurrentQuestionID())

	empty := &Run{}
	assert.Nil(t, empty.OrderIDs())
	assert.Equal(t, "", empty.CurrentQuestionID())
}

func TestRunForeignKeysShareType(t *testing.T) {
	// Answers and activation events key on a run without conversions.
	run := Run{ID: 7}
	answer := Answer{RunID: run.ID, QuestionID: "q1"}
	event := ActivationEvent{RunID: run.ID, QuestionID: "q1"}
	assert.Equal(t, run.ID, answer.RunID)
	assert.Equal(t, run.ID, event.RunID)
}

func ptr[T any](v T) *T { return &v }
