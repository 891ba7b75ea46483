package ai

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Stroke is one continuous pen motion: a pair of parallel coordinate
// sequences, [xs, ys]. Kept as a type alias so the game package can share
// the exact wire representation without conversions.
type Stroke = [2][]float64

type Prediction struct {
	Rank        int     `json:"rank"`
	Name        string  `json:"name"`
	Score       float64 `json:"score"`
	Probability float64 `json:"probability"`
}

// Confidence summarizes how sure the model is of its best guess.
type Confidence struct {
	BestScore         float64 `json:"bestScore"`
	RelativeGap       float64 `json:"relativeGap"`
	Percent           float64 `json:"percent"`
	IsConfident       bool    `json:"isConfident"`
	AbsoluteThreshold float64 `json:"absoluteThreshold"`
	RelativeThreshold float64 `json:"relativeThreshold"`
}

type Request struct {
	Strokes []Stroke `json:"strokes"`
	// AllowedNames restricts judging to a subset of prompt names. The
	// service may ignore it; callers must filter with FilterToAllowed
	// afterwards regardless.
	AllowedNames []string `json:"allowedNames,omitempty"`
	TopN         int      `json:"topN"`
}

type Result struct {
	Predictions []Prediction `json:"predictions"`
	Confidence  Confidence   `json:"confidence"`
}

// Classifier is the single inference call exposed by the stroke
// classification service.
type Classifier interface {
	Predict(ctx context.Context, req Request) (Result, error)
}

// NormalizeName prepares a prompt name for exact comparison: NFC
// normalization plus whitespace trimming. Comparing without NFC breaks on
// prompt lists containing composed/decomposed variants of the same text.
func NormalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// FilterToAllowed drops predictions whose name is not in allowed,
// renormalizes the surviving probabilities so they sum to 1 again, and
// re-ranks by score. Used when the service returned a global ranking but
// the room judges only against its active category pool.
func FilterToAllowed(preds []Prediction, allowed []string) []Prediction {
	if len(allowed) == 0 {
		return preds
	}

	allowedSet := make(map[string]struct{}, len(allowed))
	for _, name := range allowed {
		allowedSet[NormalizeName(name)] = struct{}{}
	}

	kept := make([]Prediction, 0, len(allowed))
	var probSum float64
	for _, p := range preds {
		if _, ok := allowedSet[NormalizeName(p.Name)]; !ok {
			continue
		}
		kept = append(kept, p)
		probSum += p.Probability
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Score > kept[j].Score })
	for i := range kept {
		kept[i].Rank = i + 1
		if probSum > 0 {
			kept[i].Probability /= probSum
		}
	}
	return kept
}
