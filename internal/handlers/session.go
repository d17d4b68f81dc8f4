package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gazequest/internal/config"
	"gazequest/internal/engine"
	"gazequest/internal/models"
	"gazequest/internal/repository"
	"gazequest/internal/utils"
)

// runIDSessionKey is where the active run id lives in the cookie session.
const runIDSessionKey = "runID"

type RunHandler struct {
	log           *zap.Logger
	Questionnaire *models.Questionnaire
}

func NewRunHandler(log *zap.Logger, qn *models.Questionnaire) *RunHandler {
	return &RunHandler{log: log, Questionnaire: qn}
}

type startRunRequest struct {
	ParticipantCode string `json:"participant_code"`
}

// questionPayload is the client-facing view of one question, including the
// effective engine tuning so the widget animates targets at the exact
// frequencies the server scores against.
type questionPayload struct {
	ID         string        `json:"id"`
	Text       string        `json:"text"`
	Type       string        `json:"type"`
	Activation string        `json:"activation"`
	Labels     []string      `json:"labels"`
	Multi      bool          `json:"multi"`
	Index      int           `json:"index"`
	Total      int           `json:"total"`
	Config     engine.Config `json:"config"`
}

// currentQuestion resolves the run's live question and its client payload.
func currentQuestion(qn *models.Questionnaire, run *models.Run) (*models.Question, questionPayload, bool) {
	id := run.CurrentQuestionID()
	if id == "" {
		return nil, questionPayload{}, false
	}
	q, found := qn.QuestionByID(id)
	if !found {
		return nil, questionPayload{}, false
	}

	cfg := qn.EngineConfig(config.Conf.Engine, q)
	if q.Type == models.TypeInfo {
		// Info screens have nothing to select, so the submit gate must open.
		cfg.AllowEmptySubmit = true
	}

	return q, questionPayload{
		ID:         q.ID,
		Text:       q.Text,
		Type:       q.Type,
		Activation: q.Mode().String(),
		Labels:     q.EffectiveLabels(),
		Multi:      q.Multi(),
		Index:      run.CurrentIndex,
		Total:      len(run.OrderIDs()),
		Config:     cfg,
	}, true
}

// Start creates a run for the participant, or resumes their unfinished one.
// An omitted participant code gets a generated one.
func (h *RunHandler) Start(c *gin.Context) {
	// An empty body is fine: the participant code is optional.
	var req startRunRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	code := req.ParticipantCode
	if code == "" {
		var err error
		code, err = utils.NewParticipantCode()
		if err != nil {
			h.log.Error("Failed to generate participant code", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start run"})
			return
		}
	}

	order := make([]string, 0, len(h.Questionnaire.Questions))
	if h.Questionnaire.Shuffle {
		for _, idx := range h.Questionnaire.ShuffledOrder() {
			order = append(order, h.Questionnaire.Questions[idx].ID)
		}
	} else {
		for i := range h.Questionnaire.Questions {
			order = append(order, h.Questionnaire.Questions[i].ID)
		}
	}

	run, err := repository.GetOrCreateRun(code, h.Questionnaire.Title, order)
	if err != nil {
		h.log.Error("Failed to get or create run", zap.Error(err), zap.String("participant", code))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start run"})
		return
	}

	session := sessions.Default(c)
	session.Set(runIDSessionKey, run.ID)
	if err := session.Save(); err != nil {
		h.log.Error("Failed to save session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start run"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"run_id":           run.ID,
		"participant_code": run.ParticipantCode,
		"questionnaire":    run.Questionnaire,
		"question_count":   len(run.OrderIDs()),
		"current_index":    run.CurrentIndex,
		"is_complete":      run.IsComplete,
	})
}

// CurrentQuestion returns the question the active run is on.
func (h *RunHandler) CurrentQuestion(c *gin.Context) {
	run := activeRun(c)
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active run"})
		return
	}

	if run.IsComplete {
		c.JSON(http.StatusOK, gin.H{"done": true})
		return
	}

	_, payload, ok := currentQuestion(h.Questionnaire, run)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"done": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"done": false, "question": payload})
}

// activeRun pulls the run the middleware loaded into the request context.
func activeRun(c *gin.Context) *models.Run {
	v, exists := c.Get("run")
	if !exists {
		return nil
	}
	run, ok := v.(*models.Run)
	if !ok {
		return nil
	}
	return run
}
