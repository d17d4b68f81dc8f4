package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Run is one participant's pass through a questionnaire.
type Run struct {
	ID              int `gorm:"primaryKey"`
	ParticipantCode string
	Questionnaire   string
	IsComplete      bool
	QuestionOrder   string // comma-joined question ids, in presentation order
	CurrentIndex    int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderIDs splits the stored presentation order back into question ids.
func (r *Run) OrderIDs() []string {
	if r.QuestionOrder == "" {
		return nil
	}
	return strings.Split(r.QuestionOrder, ",")
}

// CurrentQuestionID returns the id of the question the run is on, or "" when
// the run has walked past the end.
func (r *Run) CurrentQuestionID() string {
	order := r.OrderIDs()
	if r.CurrentIndex < 0 || r.CurrentIndex >= len(order) {
		return ""
	}
	return order[r.CurrentIndex]
}

// Answer is the submitted result of one question, together with the
// per-question interaction counters the run log reports.
type Answer struct {
	gorm.Model
	RunID       int    `gorm:"uniqueIndex:idx_answers_run_question"`
	Run         Run    `gorm:"foreignKey:RunID"`
	QuestionID  string `gorm:"uniqueIndex:idx_answers_run_question"`
	Value       string // semicolon-joined labels for multi-select questions
	Activation  string // dwell | blink | pursuit
	ElapsedMS   int
	ToggleCount int
	ResetCount  int
}

// ActivationEvent is one discrete engine decision, kept for auditability and
// for the score timeline charts.
type ActivationEvent struct {
	ID         int `gorm:"primaryKey"`
	RunID      int
	QuestionID string
	Kind       string // select | toggle | reset | submit
	Label      string
	Score      float64
	SampleT    float64 // monotonic seconds since question start
	CreatedAt  time.Time
}
