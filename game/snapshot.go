package game

import "math"

// RoomState is the full outbound snapshot exposed after every mutation.
// Phase-specific extras are only populated in their phase.
type RoomState struct {
	GameState             Phase         `json:"gameState"`
	RoomID                string        `json:"roomId"`
	CurrentRound          int           `json:"currentRound"`
	MaxRounds             int           `json:"maxRounds"`
	Players               []Player      `json:"players"`
	AIScore               int           `json:"aiScore"`
	CurrentDrawer         string        `json:"currentDrawer,omitempty"`
	ActiveCategoryIndices []int         `json:"activeCategoryIndices"`
	Settings              Settings      `json:"settings"`
	Paused                bool          `json:"paused"`
	CategoryChoices       []string      `json:"categoryChoices,omitempty"`
	CurrentCategory       string        `json:"currentCategory,omitempty"`
	TimeRemaining         *int          `json:"timeRemaining,omitempty"`
	GuessedPlayers        []string      `json:"guessedPlayers,omitempty"`
	Results               *RoundResults `json:"results,omitempty"`
}

// Snapshot builds a point-in-time copy of the room safe to serialize after
// the lock is released.
func (m *Manager) Snapshot(roomID string) (RoomState, error) {
	var state RoomState
	err := m.withRoom(roomID, func(r *Room) error {
		players := make([]Player, len(r.players))
		for i, p := range r.players {
			players[i] = *p
		}

		indices := make([]int, len(r.activeCategoryIndices))
		copy(indices, r.activeCategoryIndices)

		state = RoomState{
			GameState:             r.phase,
			RoomID:                r.id,
			CurrentRound:          r.currentRound,
			MaxRounds:             r.settings.MaxRounds,
			Players:               players,
			AIScore:               r.aiScore,
			CurrentDrawer:         r.currentDrawer,
			ActiveCategoryIndices: indices,
			Settings:              r.settings,
			Paused:                r.paused,
		}

		switch r.phase {
		case PhaseCategorySelection:
			choices := make([]string, len(r.categoryChoices))
			copy(choices, r.categoryChoices)
			state.CategoryChoices = choices
		case PhaseDrawing:
			state.CurrentCategory = r.currentCategory
			state.TimeRemaining = m.secondsRemaining(r)
		case PhaseGuessing:
			state.TimeRemaining = m.secondsRemaining(r)
			guessed := make([]string, 0, len(r.guesses))
			for _, p := range r.players {
				if _, ok := r.guesses[p.ID]; ok {
					guessed = append(guessed, p.ID)
				}
			}
			state.GuessedPlayers = guessed
		case PhaseResults:
			state.Results = r.roundResults
		}
		return nil
	})
	return state, err
}

func (m *Manager) secondsRemaining(r *Room) *int {
	secs := int(math.Ceil(m.remainingLocked(r).Seconds()))
	return &secs
}
