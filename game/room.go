package game

import (
	"context"
	"time"

	"github.com/Uni298/Outdraw/ai"
)

// State machine internals. Every function here requires the room's lock and
// re-checks nothing itself: guards live at the operation entry points, and
// timer fires re-validate phase and generation before calling in.

func (m *Manager) startGameLocked(r *Room) {
	r.currentRound = 1
	r.phase = PhaseCategorySelection

	r.activeCategoryIndices = activePool(m.catalog.Len(), r.settings.ActiveCategoryCount, m.rng)

	r.drawersHistory = r.drawersHistory[:0]
	pickDrawer(r, m.rng)
	r.categoryChoices = m.categoryChoices(r)

	m.log.Info().
		Str("room", r.id).
		Int("poolSize", len(r.activeCategoryIndices)).
		Str("drawer", r.currentDrawer).
		Msg("game started")
}

func (m *Manager) selectCategoryLocked(r *Room, category string) error {
	idx, ok := m.catalog.Index(category)
	if !ok {
		return ErrUnknownCategory
	}

	r.currentCategory = m.catalog.Name(idx)

	// A manually typed prompt outside the offered choices must still be
	// judgeable, so its index joins the active pool.
	inPool := false
	for _, i := range r.activeCategoryIndices {
		if i == idx {
			inPool = true
			break
		}
	}
	if !inPool {
		r.activeCategoryIndices = append(r.activeCategoryIndices, idx)
	}

	r.phase = PhaseDrawing
	r.currentDrawing = nil
	r.phaseStart = m.clock.Now()
	m.scheduleTimer(r, PhaseDrawing, time.Duration(r.settings.DrawingTimeSeconds)*time.Second)

	m.log.Info().Str("room", r.id).Str("category", r.currentCategory).Msg("category selected")
	return nil
}

// endDrawingLocked moves the room into the guessing phase. The classifier
// call is awaited here, under the room's lock, so drawing-phase writers are
// locked out the moment the transition begins. Safe with zero strokes: the
// gateway is never invoked with empty input.
func (m *Manager) endDrawingLocked(r *Room) {
	cancelTimer(r)

	r.phase = PhaseGuessing
	r.guesses = make(map[string]string)
	r.phaseStart = m.clock.Now()

	r.aiPredictions = nil
	r.aiCorrect = false
	r.aiConfidence = 0

	if len(r.currentDrawing) > 0 {
		m.classifyRound(r)
	}

	m.scheduleTimer(r, PhaseGuessing, time.Duration(r.settings.GuessingTimeSeconds)*time.Second)
	m.log.Info().
		Str("room", r.id).
		Int("strokes", len(r.currentDrawing)).
		Bool("aiCorrect", r.aiCorrect).
		Msg("drawing phase ended")
}

// classifyRound runs the gateway with a bounded timeout and degrades to an
// AI miss on any failure; a classifier outage never aborts the round.
func (m *Manager) classifyRound(r *Room) {
	var allowed []string
	if len(r.activeCategoryIndices) > 0 {
		allowed = make([]string, len(r.activeCategoryIndices))
		for i, idx := range r.activeCategoryIndices {
			allowed[i] = m.catalog.Name(idx)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.classifierTimeout)
	defer cancel()

	result, err := m.classifier.Predict(ctx, ai.Request{
		Strokes:      copyStrokes(r.currentDrawing),
		AllowedNames: allowed,
		TopN:         r.settings.AITopN,
	})
	if err != nil {
		m.log.Error().Err(err).Str("room", r.id).Msg("classifier prediction failed")
		return
	}

	preds := ai.FilterToAllowed(result.Predictions, allowed)
	if len(preds) > r.settings.AITopN {
		preds = preds[:r.settings.AITopN]
	}
	r.aiPredictions = preds
	r.aiConfidence = result.Confidence.Percent

	// Correct if any of the top-N matches the chosen prompt, not just the
	// single best guess.
	want := ai.NormalizeName(r.currentCategory)
	for _, p := range preds {
		if ai.NormalizeName(p.Name) == want {
			r.aiCorrect = true
			break
		}
	}
}

func (m *Manager) endGuessingLocked(r *Room) {
	cancelTimer(r)
	r.phase = PhaseResults
	m.compileResultsLocked(r)
	m.log.Info().
		Str("room", r.id).
		Str("winner", r.roundResults.Winner).
		Msg("guessing phase ended")
}

func (m *Manager) nextRoundLocked(r *Room) {
	r.currentRound++

	if r.currentRound > r.settings.MaxRounds {
		r.phase = PhaseFinished
		m.log.Info().Str("room", r.id).Msg("game finished")
		return
	}

	r.resetRoundState()
	pickDrawer(r, m.rng)
	r.categoryChoices = m.categoryChoices(r)
	r.phase = PhaseCategorySelection

	m.log.Info().
		Str("room", r.id).
		Int("round", r.currentRound).
		Str("drawer", r.currentDrawer).
		Msg("next round started")
}

// resetRoundState clears all round-scoped fields with fresh containers.
func (r *Room) resetRoundState() {
	r.currentDrawer = ""
	r.currentCategory = ""
	r.categoryChoices = nil
	r.currentDrawing = nil
	r.guesses = make(map[string]string)
	r.aiPredictions = nil
	r.aiCorrect = false
	r.aiConfidence = 0
	r.roundResults = nil
}

func (m *Manager) resetToLobbyLocked(r *Room, zeroScores bool) {
	cancelTimer(r)
	r.phase = PhaseLobby
	r.currentRound = 0
	r.resetRoundState()
	r.activeCategoryIndices = nil
	r.drawersHistory = nil
	r.paused = false
	r.remaining = 0

	if zeroScores {
		for _, p := range r.players {
			p.Score = 0
		}
		r.aiScore = 0
	}

	m.log.Info().Str("room", r.id).Bool("scoresCleared", zeroScores).Msg("room returned to lobby")
}
