package game

import (
	"sync"
	"time"

	"github.com/Uni298/Outdraw/ai"
)

// Stroke is one continuous pen motion as [xs, ys] coordinate sequences,
// shared with the classifier gateway.
type Stroke = ai.Stroke

// Classifier is the external stroke classification service.
type Classifier = ai.Classifier

type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
	IsHost bool   `json:"isHost"`
}

type GuessEntry struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Guess      string `json:"guess"`
}

// RoundResults is the immutable snapshot of one round's outcome. The stroke
// sequence is a deep copy so later rendering is unaffected by the next
// round's buffer.
type RoundResults struct {
	Winner        string          `json:"winner"` // "humans", "ai" or "draw"
	CorrectAnswer string          `json:"correctAnswer"`
	HumanCorrect  []string        `json:"humanCorrect"`
	AICorrect     bool            `json:"aiCorrect"`
	AIPredictions []ai.Prediction `json:"aiPredictions"`
	Guesses       []GuessEntry    `json:"guesses"`
	Drawing       []Stroke        `json:"drawing"`
	AIConfidence  float64         `json:"aiConfidence"`
}

// Room holds one isolated game session. All fields are guarded by mu: every
// operation (player action or timer fire) takes the lock for its whole
// duration, giving each room a single logical thread of control.
type Room struct {
	mu sync.Mutex

	id     string
	hostID string

	// players keeps insertion order; host reassignment picks the
	// longest-present remaining player.
	players  []*Player
	settings Settings

	phase        Phase
	currentRound int
	aiScore      int

	// Round-scoped state, reset at the start of every round and on any
	// return to lobby. Never reused across rounds by reference.
	currentDrawer   string
	currentCategory string
	categoryChoices []string
	currentDrawing  []Stroke
	guesses         map[string]string
	aiPredictions   []ai.Prediction
	aiCorrect       bool
	aiConfidence    float64
	roundResults    *RoundResults

	activeCategoryIndices []int
	drawersHistory        []string

	// Timer state. At most one live timer exists per room; timerGen guards
	// against stale fires that Stop could not prevent.
	phaseStart time.Time
	timer      TimerHandle
	timerGen   uint64
	paused     bool
	remaining  time.Duration
}

func (r *Room) player(id string) *Player {
	for _, p := range r.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *Room) removePlayer(id string) bool {
	for i, p := range r.players {
		if p.ID == id {
			r.players = append(r.players[:i], r.players[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Room) playerIDs() []string {
	ids := make([]string, len(r.players))
	for i, p := range r.players {
		ids[i] = p.ID
	}
	return ids
}

func copyStrokes(strokes []Stroke) []Stroke {
	out := make([]Stroke, len(strokes))
	for i, s := range strokes {
		xs := make([]float64, len(s[0]))
		ys := make([]float64, len(s[1]))
		copy(xs, s[0])
		copy(ys, s[1])
		out[i] = Stroke{xs, ys}
	}
	return out
}
