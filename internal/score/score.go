// Package score ranks habits and todos with a weighted linear model.
// Each factor contributes raw points on its own sub-scale; the
// sub-scales are sized so a maximal item totals 100. Scoring is pure
// and takes the reference time explicitly.
package score

import (
	"errors"
	"math"
	"sort"
	"strings"
)

// ErrInvalidItem is returned when a nil item is handed to a scorer.
// Missing fields inside an item default to zero contribution instead.
var ErrInvalidItem = errors.New("score: invalid item")

type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// Result is one item's computed rank.
type Result struct {
	Score       int // 0-100
	Tier        Tier
	Reasons     []string
	Suggestions []string
}

// Reason returns the reason trail as one human-readable string.
func (r Result) Reason() string {
	return strings.Join(r.Reasons, "; ")
}

func tierFor(score int) Tier {
	switch {
	case score >= 70:
		return TierHigh
	case score >= 40:
		return TierMedium
	default:
		return TierLow
	}
}

// clamp rounds and bounds a weighted score into [0,100].
func clamp(v float64) int {
	n := int(math.Round(v))
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// categoryWeights is a closed mapping from category to importance
// points. Unknown categories fall back to defaultCategoryWeight rather
// than matching free text.
var categoryWeights = map[string]int{
	"health":   10,
	"fitness":  9,
	"work":     8,
	"learning": 7,
	"personal": 5,
	"creative": 4,
	"social":   4,
}

const defaultCategoryWeight = 3

// CategoryWeight returns the importance points for a category, with a
// defined default for anything outside the known set.
func CategoryWeight(category string) int {
	if w, ok := categoryWeights[strings.ToLower(strings.TrimSpace(category))]; ok {
		return w
	}
	return defaultCategoryWeight
}

// Categories returns the known category names, sorted.
func Categories() []string {
	names := make([]string, 0, len(categoryWeights)+1)
	for c := range categoryWeights {
		names = append(names, c)
	}
	names = append(names, "other")
	sort.Strings(names)
	return names
}
