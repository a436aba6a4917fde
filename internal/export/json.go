package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/cadence/internal/store"
)

// snapshotVersion tags exported JSON so future formats can migrate.
const snapshotVersion = 1

type jsonSnapshot struct {
	Version      int               `json:"version"`
	ExportedAt   string            `json:"exported_at"`
	Habits       []jsonHabit       `json:"habits"`
	Achievements []jsonAchievement `json:"achievements,omitempty"`
}

type jsonHabit struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Notes         string          `json:"notes,omitempty"`
	Category      string          `json:"category"`
	Difficulty    string          `json:"difficulty"`
	ScheduledDays []int           `json:"scheduled_days"`
	Archived      bool            `json:"archived,omitempty"`
	CreatedAt     string          `json:"created_at"`
	Completions   map[string]bool `json:"completions,omitempty"`
}

type jsonAchievement struct {
	ID         string  `json:"id"`
	Unlocked   bool    `json:"unlocked"`
	Progress   float64 `json:"progress"`
	UnlockedAt string  `json:"unlocked_at,omitempty"`
}

// ToJSON writes a full versioned snapshot (habits including archived
// ones and their complete history, plus achievement state) to path.
func ToJSON(habits []store.Habit, achievements []store.AchievementState, now time.Time, path string) error {
	snap := jsonSnapshot{
		Version:    snapshotVersion,
		ExportedAt: now.UTC().Format(time.RFC3339),
	}

	for i := range habits {
		h := &habits[i]
		days := make([]int, 0, len(h.ScheduledDays))
		for _, d := range h.ScheduledDays {
			days = append(days, int(d))
		}
		snap.Habits = append(snap.Habits, jsonHabit{
			ID:            h.ID,
			Name:          h.Name,
			Notes:         h.Notes,
			Category:      h.Category,
			Difficulty:    string(h.Difficulty),
			ScheduledDays: days,
			Archived:      h.Archived,
			CreatedAt:     h.CreatedAt.UTC().Format(time.RFC3339),
			Completions:   h.Completions,
		})
	}

	for _, st := range achievements {
		ja := jsonAchievement{ID: st.ID, Unlocked: st.Unlocked, Progress: st.Progress}
		if st.UnlockedAt != nil {
			ja.UnlockedAt = st.UnlockedAt.UTC().Format(time.RFC3339)
		}
		snap.Achievements = append(snap.Achievements, ja)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}
	return nil
}
