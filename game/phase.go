package game

// Phase is the room's position in the round state machine. String-typed so
// snapshots serialize to the wire names clients already use.
type Phase string

const (
	PhaseLobby             Phase = "lobby"
	PhaseCategorySelection Phase = "category-selection"
	PhaseDrawing           Phase = "drawing"
	PhaseGuessing          Phase = "guessing"
	PhaseResults           Phase = "results"
	PhaseFinished          Phase = "finished"
)
