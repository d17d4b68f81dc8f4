package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gazequest/internal/database"
	"gazequest/internal/models"
)

// SaveAnswerTx stores the submitted answer together with every activation
// event recorded while the question was live, in a single transaction.
// Re-submitting the same question replaces the previous answer.
func SaveAnswerTx(answer models.Answer, events []models.ActivationEvent) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "run_id"}, {Name: "question_id"}},
			UpdateAll: true,
		}).Create(&answer).Error; err != nil {
			return err
		}

		if len(events) == 0 {
			return nil
		}
		for i := range events {
			events[i].RunID = answer.RunID
			events[i].QuestionID = answer.QuestionID
		}
		return tx.Create(&events).Error
	})
}

// AnswersForRun returns all stored answers for one run, in submission order.
func AnswersForRun(runID int) ([]models.Answer, error) {
	var answers []models.Answer
	err := database.DB.
		Where("run_id = ?", runID).
		Order("created_at").
		Find(&answers).Error
	return answers, err
}

// EventsForRun returns every activation event of a run in sample time order.
func EventsForRun(runID int) ([]models.ActivationEvent, error) {
	var events []models.ActivationEvent
	err := database.DB.
		Where("run_id = ?", runID).
		Order("question_id, sample_t").
		Find(&events).Error
	return events, err
}
