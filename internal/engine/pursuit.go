package engine

import "math"

// coldStartSamples is the minimum buffered window before the pursuit engine
// starts making decisions.
const coldStartSamples = 12

// Pursuit matches the gaze trajectory against a set of moving option targets
// and a separately moving submit target. A label is toggled/selected after
// its mixed correlation+proximity score stays above threshold for a run of
// consecutive samples; submission works the same way against a stricter
// threshold and is always evaluated first.
type Pursuit struct {
	cfg       Config
	labels    []string
	orbits    map[string]Orbit
	submit    OscillationPath
	selection Selection
	onEvent   EventFunc

	win *window

	candidate      string
	hasCandidate   bool
	candidateCount int
	submitCount    int

	toggleBlockUntil float64
	submitBlockUntil float64

	lastScores      map[string]float64
	lastSubmitScore float64
}

// NewPursuit builds a pursuit engine for one question instance. The orbit map
// must contain every label; selection carries the question's answer policy.
func NewPursuit(cfg Config, labels []string, orbits map[string]Orbit, submit OscillationPath, selection Selection, onEvent EventFunc) *Pursuit {
	scores := make(map[string]float64, len(labels))
	for _, lab := range labels {
		scores[lab] = 0.0
	}
	return &Pursuit{
		cfg:        cfg,
		labels:     labels,
		orbits:     orbits,
		submit:     submit,
		selection:  selection,
		onEvent:    onEvent,
		win:        newWindow(labels),
		lastScores: scores,
	}
}

// Selection exposes the answer policy for submit payloads and feedback UI.
func (p *Pursuit) Selection() Selection { return p.selection }

// Scores returns the score map of the latest evaluated sample, for optional
// highlighting. The returned map is live; callers must not mutate it.
func (p *Pursuit) Scores() map[string]float64 { return p.lastScores }

// SubmitScore returns the latest submit-target score.
func (p *Pursuit) SubmitScore() float64 { return p.lastSubmitScore }

// TargetsAt evaluates every option orbit and the submit path at t seconds.
func (p *Pursuit) TargetsAt(t float64) (map[string][2]float64, float64, float64) {
	targets := make(map[string][2]float64, len(p.labels))
	for _, lab := range p.labels {
		x, y := p.orbits[lab].PositionAt(t)
		targets[lab] = [2]float64{x, y}
	}
	sx, sy := p.submit.PositionAt(t)
	return targets, sx, sy
}

// Observe ingests one mapped gaze sample at monotonic time t (seconds) and
// runs the decision pass. It never fails; degenerate input decays to neutral
// scores.
func (p *Pursuit) Observe(t, gazeX, gazeY float64) {
	targets, sx, sy := p.TargetsAt(t)
	p.win.append(t, gazeX, gazeY, targets, sx, sy)
	p.win.prune(p.cfg.WindowMS)

	if p.win.len() < coldStartSamples {
		return
	}
	p.decide(t)
}

// LoseTracking is the fail-safe for unmapped samples: all stability counters
// reset immediately so stale evidence cannot fire a phantom activation.
func (p *Pursuit) LoseTracking() {
	p.hasCandidate = false
	p.candidate = ""
	p.candidateCount = 0
	p.submitCount = 0
}

func (p *Pursuit) optionScore(lab string) float64 {
	var cx, cy float64
	if p.cfg.UseLagCompensation {
		lag := p.win.maxLagSamples(p.cfg.MaxLagMS)
		cx = maxLaggedPearson(p.win.gx, p.win.tx[lab], lag)
		cy = maxLaggedPearson(p.win.gy, p.win.ty[lab], lag)
	} else {
		cx = pearson(p.win.gx, p.win.tx[lab])
		cy = pearson(p.win.gy, p.win.ty[lab])
	}
	corr := 0.5 * (cx + cy)

	prox := proximityScore(p.win.gx, p.win.gy, p.win.tx[lab], p.win.ty[lab], p.cfg.ProximitySigmaPx)

	cw := p.cfg.CorrWeight()
	return cw*corr + (1.0-cw)*prox
}

// submitScore correlates the X axis only: the submit target oscillates along
// one degree of freedom in every stock preset, so the flat axis would only
// add zero-variance noise.
func (p *Pursuit) submitScore() float64 {
	var corr float64
	if p.cfg.UseLagCompensation {
		lag := p.win.maxLagSamples(p.cfg.MaxLagMS)
		corr = maxLaggedPearson(p.win.gx, p.win.sx, lag)
	} else {
		corr = pearson(p.win.gx, p.win.sx)
	}

	prox := proximityScore(p.win.gx, p.win.gy, p.win.sx, p.win.sy, p.cfg.ProximitySigmaPx)

	cw := p.cfg.CorrWeight()
	return cw*corr + (1.0-cw)*prox
}

func (p *Pursuit) decide(now float64) {
	bestLab := ""
	bestScore := math.Inf(-1)
	for _, lab := range p.labels {
		s := p.optionScore(lab)
		p.lastScores[lab] = s
		if s > bestScore {
			bestScore = s
			bestLab = lab
		}
	}

	if bestLab != "" && bestScore >= p.cfg.CorrThreshold {
		if p.hasCandidate && bestLab == p.candidate {
			p.candidateCount++
		} else {
			p.hasCandidate = true
			p.candidate = bestLab
			p.candidateCount = 1
		}
	} else {
		p.hasCandidate = false
		p.candidate = ""
		p.candidateCount = 0
	}

	ss := p.submitScore()
	p.lastSubmitScore = ss
	if ss >= p.cfg.SubmitCorrThreshold() {
		p.submitCount++
	} else {
		p.submitCount = 0
	}

	// Submission wins the tick: a qualifying submit suppresses any toggle in
	// the same sample.
	if now >= p.submitBlockUntil && p.submitCount >= p.cfg.SubmitStableSamples {
		p.submitCount = 0
		p.hasCandidate = false
		p.candidate = ""
		p.candidateCount = 0
		p.fireSubmit(now)
		return
	}

	if now >= p.toggleBlockUntil && p.hasCandidate && p.candidateCount >= p.cfg.ToggleStableSamples {
		lab := p.candidate
		p.hasCandidate = false
		p.candidate = ""
		p.candidateCount = 0
		p.fireToggle(now, lab)
	}
}

func (p *Pursuit) fireToggle(now float64, lab string) {
	idx := p.labelIndex(lab)
	kind := p.selection.Toggle(idx, lab)
	p.toggleBlockUntil = now + float64(p.cfg.ToggleCooldownMS)/1000.0

	if p.onEvent != nil {
		p.onEvent(Event{Kind: kind, Label: lab, Index: idx, Score: p.lastScores[lab]})
	}
}

func (p *Pursuit) fireSubmit(now float64) {
	// An empty submit is silently suppressed; the stability counter was
	// already cleared, so the gate needs a fresh run of evidence either way.
	if !p.cfg.AllowEmptySubmit && p.selection.Empty() {
		return
	}

	p.submitBlockUntil = now + float64(p.cfg.SubmitCooldownMS)/1000.0

	if p.onEvent != nil {
		p.onEvent(Event{Kind: EventSubmit, Values: p.selection.Values(), Score: p.lastSubmitScore})
	}
}

func (p *Pursuit) labelIndex(lab string) int {
	for i, l := range p.labels {
		if l == lab {
			return i
		}
	}
	return -1
}
