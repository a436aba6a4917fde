// Package achieve evaluates a static achievement catalog against
// aggregate habit statistics.
package achieve

import (
	"time"

	"github.com/sadopc/cadence/internal/store"
	"github.com/sadopc/cadence/internal/streak"
)

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

type Kind string

const (
	KindStreak      Kind = "streak"
	KindCompletions Kind = "completions"
	KindCategories  Kind = "categories"
	// KindSocial achievements unlock through an explicit user action
	// (sharing), not a statistic threshold.
	KindSocial Kind = "social"
)

// Definition is one immutable catalog entry.
type Definition struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Kind        Kind
	Threshold   int
	Rarity      Rarity
	Points      int
}

// Catalog returns the full achievement catalog.
func Catalog() []Definition {
	return []Definition{
		{ID: "streak_3", Name: "Warming Up", Description: "Hold a 3-day streak", Icon: "🔥", Kind: KindStreak, Threshold: 3, Rarity: RarityCommon, Points: 10},
		{ID: "streak_7", Name: "One Solid Week", Description: "Hold a 7-day streak", Icon: "🔥", Kind: KindStreak, Threshold: 7, Rarity: RarityCommon, Points: 25},
		{ID: "streak_30", Name: "Monthly Machine", Description: "Hold a 30-day streak", Icon: "⚡", Kind: KindStreak, Threshold: 30, Rarity: RarityRare, Points: 100},
		{ID: "streak_100", Name: "Centurion", Description: "Hold a 100-day streak", Icon: "🏆", Kind: KindStreak, Threshold: 100, Rarity: RarityLegendary, Points: 500},

		{ID: "complete_1", Name: "First Check", Description: "Complete a habit once", Icon: "✓", Kind: KindCompletions, Threshold: 1, Rarity: RarityCommon, Points: 5},
		{ID: "complete_50", Name: "Fifty Done", Description: "50 total completions", Icon: "📋", Kind: KindCompletions, Threshold: 50, Rarity: RarityCommon, Points: 50},
		{ID: "complete_250", Name: "Compounding", Description: "250 total completions", Icon: "📈", Kind: KindCompletions, Threshold: 250, Rarity: RarityRare, Points: 150},
		{ID: "complete_1000", Name: "Thousandfold", Description: "1000 total completions", Icon: "💎", Kind: KindCompletions, Threshold: 1000, Rarity: RarityEpic, Points: 400},

		{ID: "categories_3", Name: "Well Rounded", Description: "Habits in 3 categories", Icon: "🎯", Kind: KindCategories, Threshold: 3, Rarity: RarityCommon, Points: 25},
		{ID: "categories_5", Name: "Renaissance", Description: "Habits in 5 categories", Icon: "🌈", Kind: KindCategories, Threshold: 5, Rarity: RarityRare, Points: 75},

		{ID: "share_first", Name: "Show and Tell", Description: "Share your progress", Icon: "📣", Kind: KindSocial, Threshold: 1, Rarity: RarityCommon, Points: 10},
	}
}

// Stats are the aggregates the catalog is checked against.
type Stats struct {
	MaxStreak        int
	TotalCompletions int
	CategoryCount    int
}

// StatsFrom derives achievement stats from the habit list. MaxStreak is
// the best streak ever held by any habit, lapsed or not.
func StatsFrom(habits []store.Habit) Stats {
	var st Stats
	categories := make(map[string]bool)
	for i := range habits {
		h := &habits[i]
		if best := streak.Best(h.Completions); best > st.MaxStreak {
			st.MaxStreak = best
		}
		for _, done := range h.Completions {
			if done {
				st.TotalCompletions++
			}
		}
		if h.Category != "" {
			categories[h.Category] = true
		}
	}
	st.CategoryCount = len(categories)
	return st
}

// Achievement is a catalog entry joined with its evaluated state.
type Achievement struct {
	Definition
	Unlocked   bool
	Progress   float64 // 0-100
	UnlockedAt *time.Time
}

// Evaluate checks the catalog against stats, carrying forward previous
// unlocks so an achievement never re-locks when a statistic regresses.
// Social achievements are never unlocked here; they only carry forward.
func Evaluate(stats Stats, previous []store.AchievementState) []Achievement {
	prev := make(map[string]store.AchievementState, len(previous))
	for _, st := range previous {
		prev[st.ID] = st
	}

	var out []Achievement
	for _, def := range Catalog() {
		a := Achievement{Definition: def}

		var value int
		switch def.Kind {
		case KindStreak:
			value = stats.MaxStreak
		case KindCompletions:
			value = stats.TotalCompletions
		case KindCategories:
			value = stats.CategoryCount
		case KindSocial:
			value = 0
		}

		if def.Threshold > 0 {
			a.Progress = float64(value) / float64(def.Threshold) * 100
			if a.Progress > 100 {
				a.Progress = 100
			}
		}
		a.Unlocked = def.Kind != KindSocial && value >= def.Threshold

		if p, ok := prev[def.ID]; ok {
			if p.Unlocked {
				a.Unlocked = true
				a.Progress = 100
				a.UnlockedAt = p.UnlockedAt
			}
			if p.Progress > a.Progress {
				a.Progress = p.Progress
			}
		}
		out = append(out, a)
	}
	return out
}

// States converts evaluated achievements into persistable rows.
func States(achievements []Achievement) []store.AchievementState {
	out := make([]store.AchievementState, 0, len(achievements))
	for _, a := range achievements {
		out = append(out, store.AchievementState{
			ID:         a.ID,
			Unlocked:   a.Unlocked,
			Progress:   a.Progress,
			UnlockedAt: a.UnlockedAt,
		})
	}
	return out
}

// TotalPoints sums the points of unlocked achievements.
func TotalPoints(achievements []Achievement) int {
	total := 0
	for _, a := range achievements {
		if a.Unlocked {
			total += a.Points
		}
	}
	return total
}
