package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"gazequest/internal/engine"
	"gazequest/internal/models"
	"gazequest/internal/repository"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The widget is served from the same origin; embedders that proxy the
	// socket terminate the origin themselves.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// clientFrame is one inbound websocket message.
type clientFrame struct {
	Type   string  `json:"type"` // init | gaze | blink | lost
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	T      float64 `json:"t,omitempty"` // monotonic seconds from the client clock
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Closed bool    `json:"closed,omitempty"`
}

// stateFrame is the per-sample feedback the client renders from.
type stateFrame struct {
	Type          string                `json:"type"` // state
	Scores        map[string]float64    `json:"scores,omitempty"`
	SubmitScore   float64               `json:"submit_score,omitempty"`
	DwellProgress float64               `json:"dwell_progress,omitempty"`
	Targets       map[string][2]float64 `json:"targets,omitempty"`
	SubmitX       float64               `json:"submit_x,omitempty"`
	SubmitY       float64               `json:"submit_y,omitempty"`
	Selection     []string              `json:"selection"`
}

// eventFrame reports one engine decision to the client.
type eventFrame struct {
	Type   string   `json:"type"` // select | toggle | reset | submit
	Label  string   `json:"label,omitempty"`
	Index  int      `json:"index,omitempty"`
	Values []string `json:"values,omitempty"`
	Score  float64  `json:"score,omitempty"`
}

// questionFrame announces the question now live on the stream.
type questionFrame struct {
	Type     string           `json:"type"` // question | done
	Question *questionPayload `json:"question,omitempty"`
	Layout   *layoutJSON      `json:"layout,omitempty"`
}

type GazeHandler struct {
	log           *zap.Logger
	Questionnaire *models.Questionnaire
}

func NewGazeHandler(log *zap.Logger, qn *models.Questionnaire) *GazeHandler {
	return &GazeHandler{log: log, Questionnaire: qn}
}

// questionStream is the per-connection state for the live question.
type questionStream struct {
	run        *models.Run
	question   *models.Question
	interactor *engine.Interactor

	width, height float64
	lastT         float64
	firstT        float64
	haveFirstT    bool

	events      []models.ActivationEvent
	toggleCount int
	resetCount  int
}

// Stream drives one websocket connection. The client opens it after starting
// a run, announces its widget size, then streams gaze and blink samples; the
// server answers with per-sample state and with the engine's decisions, and
// walks the run forward on every submit.
func (h *GazeHandler) Stream(c *gin.Context) {
	run := activeRun(c)
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active run"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	s := &questionStream{run: run}

	for {
		var frame clientFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("Websocket read failed", zap.Error(err), zap.Int("runID", run.ID))
			}
			return
		}

		switch frame.Type {
		case "init":
			if frame.Width <= 0 || frame.Height <= 0 {
				h.log.Warn("Rejecting init with non-positive widget size", zap.Int("runID", run.ID))
				return
			}
			s.width, s.height = frame.Width, frame.Height
			h.startQuestion(conn, s)

		case "gaze":
			if s.interactor == nil {
				continue
			}
			s.lastT = frame.T
			if !s.haveFirstT {
				s.firstT = frame.T
				s.haveFirstT = true
			}
			s.interactor.ObserveGaze(frame.T, frame.X, frame.Y)
			h.sendState(conn, s, frame.T)

		case "blink":
			if s.interactor == nil {
				continue
			}
			s.lastT = frame.T
			s.interactor.ObserveBlink(frame.T, frame.Closed)

		case "lost":
			if s.interactor == nil {
				continue
			}
			s.interactor.LoseTracking()
		}
	}
}

// startQuestion builds the engine instance for the run's current question and
// announces it. A run already past its last question just gets "done".
func (h *GazeHandler) startQuestion(conn *websocket.Conn, s *questionStream) {
	if s.run.IsComplete {
		h.writeJSON(conn, questionFrame{Type: "done"})
		return
	}
	q, payload, ok := currentQuestion(h.Questionnaire, s.run)
	if !ok {
		h.writeJSON(conn, questionFrame{Type: "done"})
		return
	}

	cfg := payload.Config
	labels := q.EffectiveLabels()
	layout := NewLayout(labels, s.width, s.height, cfg)

	s.question = q
	s.events = nil
	s.toggleCount = 0
	s.resetCount = 0
	s.haveFirstT = false

	s.interactor = engine.New(engine.Setup{
		Mode:    q.Mode(),
		Config:  cfg,
		Labels:  labels,
		Multi:   q.Multi(),
		Orbits:  layout.Orbits(),
		Submit:  layout.SubmitPath(),
		HitTest: layout.HitTest,
		OnEvent: func(ev engine.Event) { h.onEvent(conn, s, ev) },
	})

	desc := layout.Describe()
	h.writeJSON(conn, questionFrame{Type: "question", Question: &payload, Layout: &desc})
}

func (h *GazeHandler) sendState(conn *websocket.Conn, s *questionStream, t float64) {
	frame := stateFrame{
		Type:          "state",
		Scores:        s.interactor.Scores(),
		SubmitScore:   s.interactor.SubmitScore(),
		DwellProgress: s.interactor.DwellProgress(),
		Selection:     s.interactor.Selection().Values(),
	}
	if targets, sx, sy, ok := s.interactor.TargetsAt(t); ok {
		frame.Targets = targets
		frame.SubmitX, frame.SubmitY = sx, sy
	}
	h.writeJSON(conn, frame)
}

// onEvent records each engine decision, mirrors it to the client, and on
// submit persists the answer and advances the run.
func (h *GazeHandler) onEvent(conn *websocket.Conn, s *questionStream, ev engine.Event) {
	sampleT := s.lastT
	if s.haveFirstT {
		sampleT -= s.firstT
	}
	s.events = append(s.events, models.ActivationEvent{
		Kind:    ev.Kind.String(),
		Label:   ev.Label,
		Score:   ev.Score,
		SampleT: sampleT,
	})

	switch ev.Kind {
	case engine.EventToggle, engine.EventSelect:
		s.toggleCount++
	case engine.EventReset:
		s.resetCount++
	}

	h.writeJSON(conn, eventFrame{
		Type:   ev.Kind.String(),
		Label:  ev.Label,
		Index:  ev.Index,
		Values: ev.Values,
		Score:  ev.Score,
	})

	if ev.Kind == engine.EventSubmit {
		h.finishQuestion(conn, s, ev)
	}
}

func (h *GazeHandler) finishQuestion(conn *websocket.Conn, s *questionStream, ev engine.Event) {
	elapsedMS := 0
	if s.haveFirstT {
		elapsedMS = int((s.lastT - s.firstT) * 1000.0)
	}

	answer := models.Answer{
		RunID:       s.run.ID,
		QuestionID:  s.question.ID,
		Value:       joinValues(ev.Values),
		Activation:  s.question.Mode().String(),
		ElapsedMS:   elapsedMS,
		ToggleCount: s.toggleCount,
		ResetCount:  s.resetCount,
	}
	if err := repository.SaveAnswerTx(answer, s.events); err != nil {
		h.log.Error("Failed to save answer", zap.Error(err), zap.Int("runID", s.run.ID), zap.String("questionID", s.question.ID))
	}

	nextIndex := s.run.CurrentIndex + 1
	if nextIndex >= len(s.run.OrderIDs()) {
		if err := repository.CompleteRun(s.run.ID); err != nil {
			h.log.Error("Failed to complete run", zap.Error(err), zap.Int("runID", s.run.ID))
		}
		s.run.IsComplete = true
		s.interactor = nil
		h.writeJSON(conn, questionFrame{Type: "done"})
		return
	}

	if err := repository.AdvanceRun(s.run.ID, nextIndex); err != nil {
		h.log.Error("Failed to advance run", zap.Error(err), zap.Int("runID", s.run.ID))
	}
	s.run.CurrentIndex = nextIndex
	h.startQuestion(conn, s)
}

// joinValues flattens a multi-select answer into its stored form.
func joinValues(vals []string) string { return strings.Join(vals, ";") }

func (h *GazeHandler) writeJSON(conn *websocket.Conn, v interface{}) {
	if err := conn.WriteJSON(v); err != nil {
		h.log.Warn("Websocket write failed", zap.Error(err))
	}
}
