package repository

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"gazequest/internal/database"
	"gazequest/internal/models"
)

// GetOrCreateRun returns the participant's latest unfinished run, or starts a
// fresh one with the given question order when none is open.
func GetOrCreateRun(participantCode, questionnaire string, order []string) (*models.Run, error) {
	var run models.Run
	err := database.DB.
		Where("participant_code = ? AND is_complete = false", participantCode).
		Order("updated_at DESC").
		First(&run).Error

	if err == nil {
		return &run, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	run = models.Run{
		ParticipantCode: participantCode,
		Questionnaire:   questionnaire,
		QuestionOrder:   strings.Join(order, ","),
		CurrentIndex:    0,
	}
	if err := database.DB.Create(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

// GetRun fetches one run by id.
func GetRun(runID int) (*models.Run, error) {
	var run models.Run
	if err := database.DB.First(&run, runID).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

// AdvanceRun moves the run to the next question index.
func AdvanceRun(runID int, newIndex int) error {
	return database.DB.Model(&models.Run{}).
		Where("id = ?", runID).
		Update("current_index", newIndex).Error
}

// CompleteRun marks the run finished.
func CompleteRun(runID int) error {
	return database.DB.Model(&models.Run{}).
		Where("id = ?", runID).
		Update("is_complete", true).Error
}

// AbandonStaleRuns closes unfinished runs that have seen no activity for the
// given duration. Returns how many runs were closed.
func AbandonStaleRuns(idleFor time.Duration) (int64, error) {
	cutoff := time.Now().Add(-idleFor)
	res := database.DB.Model(&models.Run{}).
		Where("is_complete = false AND updated_at < ?", cutoff).
		Update("is_complete", true)
	return res.RowsAffected, res.Error
}
