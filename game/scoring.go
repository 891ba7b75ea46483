package game

import (
	"sort"
	"strings"

	"github.com/Uni298/Outdraw/ai"
)

// normalizeGuess prepares guess text for exact comparison: NFC, trimmed,
// case-folded.
func normalizeGuess(s string) string {
	return strings.ToLower(ai.NormalizeName(s))
}

// compileResultsLocked determines the round winner, applies score changes
// and freezes the results snapshot. Winner priority: a correct classifier
// beats any human answer; humans win only when the classifier missed.
func (m *Manager) compileResultsLocked(r *Room) {
	correct := normalizeGuess(r.currentCategory)

	var humanCorrect []string
	for id, guess := range r.guesses {
		if correct != "" && guess == correct {
			humanCorrect = append(humanCorrect, id)
		}
	}
	sort.Strings(humanCorrect)

	winner := "draw"
	switch {
	case r.aiCorrect:
		winner = "ai"
		r.aiScore++
	case len(humanCorrect) > 0:
		winner = "humans"
		switch r.settings.ScoringMode {
		case ScoreEachGuesser:
			for _, id := range humanCorrect {
				if p := r.player(id); p != nil {
					p.Score++
				}
			}
		default:
			if p := r.player(r.currentDrawer); p != nil {
				p.Score++
			}
		}
	}

	guesses := make([]GuessEntry, 0, len(r.guesses))
	for _, p := range r.players {
		guess, ok := r.guesses[p.ID]
		if !ok {
			continue
		}
		guesses = append(guesses, GuessEntry{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Guess:      guess,
		})
	}

	preds := make([]ai.Prediction, len(r.aiPredictions))
	copy(preds, r.aiPredictions)

	r.roundResults = &RoundResults{
		Winner:        winner,
		CorrectAnswer: r.currentCategory,
		HumanCorrect:  humanCorrect,
		AICorrect:     r.aiCorrect,
		AIPredictions: preds,
		Guesses:       guesses,
		Drawing:       copyStrokes(r.currentDrawing),
		AIConfidence:  r.aiConfidence,
	}
}
