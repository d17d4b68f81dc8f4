package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"gazequest/internal/models"
	"gazequest/internal/repository"
)

type ResultsHandler struct {
	log           *zap.Logger
	Questionnaire *models.Questionnaire
}

func NewResultsHandler(log *zap.Logger, qn *models.Questionnaire) *ResultsHandler {
	return &ResultsHandler{log: log, Questionnaire: qn}
}

func runIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return 0, false
	}
	return id, true
}

// ExportAnswers streams one run's answer log as CSV.
func (h *ResultsHandler) ExportAnswers(c *gin.Context) {
	runID, ok := runIDParam(c)
	if !ok {
		return
	}

	run, err := repository.GetRun(runID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	answers, err := repository.AnswersForRun(runID)
	if err != nil {
		h.log.Error("Failed to load answers for export", zap.Error(err), zap.Int("runID", runID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="run_%d_answers.csv"`, runID))

	w := csv.NewWriter(c.Writer)
	defer w.Flush()

	w.Write([]string{"run_id", "participant_code", "question_id", "value", "activation", "elapsed_ms", "toggle_count", "reset_count"})
	for _, a := range answers {
		w.Write([]string{
			strconv.Itoa(run.ID),
			run.ParticipantCode,
			a.QuestionID,
			a.Value,
			a.Activation,
			strconv.Itoa(a.ElapsedMS),
			strconv.Itoa(a.ToggleCount),
			strconv.Itoa(a.ResetCount),
		})
	}
}

// ExportEvents streams one run's raw activation event log as CSV.
func (h *ResultsHandler) ExportEvents(c *gin.Context) {
	runID, ok := runIDParam(c)
	if !ok {
		return
	}

	events, err := repository.EventsForRun(runID)
	if err != nil {
		h.log.Error("Failed to load events for export", zap.Error(err), zap.Int("runID", runID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="run_%d_events.csv"`, runID))

	w := csv.NewWriter(c.Writer)
	defer w.Flush()

	w.Write([]string{"run_id", "question_id", "kind", "label", "score", "sample_t"})
	for _, ev := range events {
		w.Write([]string{
			strconv.Itoa(runID),
			ev.QuestionID,
			ev.Kind,
			ev.Label,
			strconv.FormatFloat(ev.Score, 'f', 4, 64),
			strconv.FormatFloat(ev.SampleT, 'f', 3, 64),
		})
	}
}

// ShowTimeline renders the score timeline of every answered question in a
// run as one chart page.
func (h *ResultsHandler) ShowTimeline(c *gin.Context) {
	runID, ok := runIDParam(c)
	if !ok {
		return
	}

	questionIDs, err := repository.GetChartedQuestionIDs(c, runID)
	if err != nil {
		h.log.Error("Failed to list charted questions", zap.Error(err), zap.Int("runID", runID))
		c.String(http.StatusInternalServerError, "Failed to load timeline")
		return
	}
	if len(questionIDs) == 0 {
		c.String(http.StatusNotFound, "No activation events recorded for this run")
		return
	}

	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("Run %d score timeline", runID)

	for _, qid := range questionIDs {
		data, err := repository.GetScoreTimeline(c, runID, qid)
		if err != nil {
			h.log.Error("Failed to get score timeline", zap.Error(err), zap.Int("runID", runID), zap.String("questionID", qid))
			c.String(http.StatusInternalServerError, "Failed to load timeline")
			return
		}

		title := qid
		if q, found := h.Questionnaire.QuestionByID(qid); found {
			title = q.Text
		}
		page.AddCharts(generateScoreChart(data, qid, title))
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(c.Writer); err != nil {
		h.log.Error("Failed to render timeline page", zap.Error(err), zap.Int("runID", runID))
	}
}

func generateScoreChart(data []repository.ScoreTimelinePoint, questionID, title string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Activation Score Over Time",
			Subtitle: title,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "value",
			Name: "seconds",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:  "value",
			Scale: opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)

	items := make([]opts.LineData, 0, len(data))
	for _, point := range data {
		items = append(items, opts.LineData{Value: []interface{}{point.SampleT, point.Score}})
	}

	line.AddSeries(questionID, items).SetSeriesOptions(charts.WithLineStyleOpts(opts.LineStyle{Width: 2}))
	return line
}
