package repository

import (
	"context"

	"gazequest/internal/database"
)

// ScoreTimelinePoint is one plotted engine decision.
type ScoreTimelinePoint struct {
	SampleT float64 `json:"sampleT"`
	Score   float64 `json:"score"`
	Kind    string  `json:"kind"`
	Label   string  `json:"label"`
}

// GetScoreTimeline returns the activation score trace for one question of a
// run, in sample time order.
func GetScoreTimeline(ctx context.Context, runID int, questionID string) ([]ScoreTimelinePoint, error) {
	var data []ScoreTimelinePoint
	query := `
		SELECT sample_t, score, kind, label
		FROM activation_events
		WHERE run_id = ? AND question_id = ?
		ORDER BY sample_t;
	`
	err := database.DB.WithContext(ctx).Raw(query, runID, questionID).Scan(&data).Error
	return data, err
}

// GetChartedQuestionIDs lists the questions of a run that recorded at least
// one activation event, in presentation order.
func GetChartedQuestionIDs(ctx context.Context, runID int) ([]string, error) {
	var ids []string
	query := `
		SELECT question_id
		FROM activation_events
		WHERE run_id = ?
		GROUP BY question_id
		ORDER BY MIN(created_at), question_id;
	`
	err := database.DB.WithContext(ctx).Raw(query, runID).Scan(&ids).Error
	return ids, err
}
