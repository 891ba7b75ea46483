package game

// ScoringMode decides how points are split when humans win a round.
type ScoringMode string

const (
	// ScoreDrawerOnly awards the round's single point to the drawer, as the
	// team representative. This is the default.
	ScoreDrawerOnly ScoringMode = "drawer"
	// ScoreEachGuesser awards one point to every player who guessed the
	// prompt correctly.
	ScoreEachGuesser ScoringMode = "guessers"
)

type Settings struct {
	DrawingTimeSeconds  int         `json:"drawingTimeSeconds"`
	GuessingTimeSeconds int         `json:"guessingTimeSeconds"`
	AITopN              int         `json:"aiTopN"`
	MaxRounds           int         `json:"maxRounds"`
	ActiveCategoryCount int         `json:"activeCategoryCount"`
	AllowClearCanvas    bool        `json:"allowClearCanvas"`
	MaxPlayers          int         `json:"maxPlayers"`
	TopicChoiceCount    int         `json:"topicChoiceCount"`
	CanvasWidth         int         `json:"canvasWidth"`
	CanvasHeight        int         `json:"canvasHeight"`
	PenThickness        int         `json:"penThickness"`
	ScoringMode         ScoringMode `json:"scoringMode"`
}

func DefaultSettings() Settings {
	return Settings{
		DrawingTimeSeconds:  90,
		GuessingTimeSeconds: 30,
		AITopN:              3,
		MaxRounds:           6,
		ActiveCategoryCount: 10,
		AllowClearCanvas:    true,
		MaxPlayers:          8,
		TopicChoiceCount:    3,
		CanvasWidth:         800,
		CanvasHeight:        600,
		PenThickness:        10,
		ScoringMode:         ScoreDrawerOnly,
	}
}

// SettingsPatch is a whitelisted partial update. Nil fields are left
// untouched; recognized fields are validated and clamped per key.
type SettingsPatch struct {
	DrawingTimeSeconds  *int         `json:"drawingTimeSeconds"`
	GuessingTimeSeconds *int         `json:"guessingTimeSeconds"`
	AITopN              *int         `json:"aiTopN"`
	MaxRounds           *int         `json:"maxRounds"`
	ActiveCategoryCount *int         `json:"activeCategoryCount"`
	AllowClearCanvas    *bool        `json:"allowClearCanvas"`
	MaxPlayers          *int         `json:"maxPlayers"`
	TopicChoiceCount    *int         `json:"topicChoiceCount"`
	CanvasWidth         *int         `json:"canvasWidth"`
	CanvasHeight        *int         `json:"canvasHeight"`
	PenThickness        *int         `json:"penThickness"`
	ScoringMode         *ScoringMode `json:"scoringMode"`
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// apply merges the patch into s. catalogSize bounds the active category
// pool: at least 3 entries so there are real choices, at most the whole
// catalog.
func (s *Settings) apply(p SettingsPatch, catalogSize int) {
	if p.DrawingTimeSeconds != nil {
		s.DrawingTimeSeconds = clamp(*p.DrawingTimeSeconds, 10, 600)
	}
	if p.GuessingTimeSeconds != nil {
		s.GuessingTimeSeconds = clamp(*p.GuessingTimeSeconds, 5, 300)
	}
	if p.AITopN != nil {
		s.AITopN = clamp(*p.AITopN, 1, 10)
	}
	if p.MaxRounds != nil {
		s.MaxRounds = clamp(*p.MaxRounds, 1, 50)
	}
	if p.ActiveCategoryCount != nil {
		lo := 3
		if catalogSize < lo {
			lo = catalogSize
		}
		s.ActiveCategoryCount = clamp(*p.ActiveCategoryCount, lo, catalogSize)
	}
	if p.AllowClearCanvas != nil {
		s.AllowClearCanvas = *p.AllowClearCanvas
	}
	if p.MaxPlayers != nil {
		s.MaxPlayers = clamp(*p.MaxPlayers, 2, 32)
	}
	if p.TopicChoiceCount != nil {
		s.TopicChoiceCount = clamp(*p.TopicChoiceCount, 1, 10)
	}
	if p.CanvasWidth != nil {
		s.CanvasWidth = clamp(*p.CanvasWidth, 64, 4096)
	}
	if p.CanvasHeight != nil {
		s.CanvasHeight = clamp(*p.CanvasHeight, 64, 4096)
	}
	if p.PenThickness != nil {
		s.PenThickness = clamp(*p.PenThickness, 1, 64)
	}
	if p.ScoringMode != nil {
		if *p.ScoringMode == ScoreDrawerOnly || *p.ScoringMode == ScoreEachGuesser {
			s.ScoringMode = *p.ScoringMode
		}
	}
}
