package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/cadence/internal/store"
	"github.com/sadopc/cadence/internal/streak"
)

// csvHeader is the fixed, positional column set. Completion history and
// schedule are not part of the CSV format, so a CSV round trip is lossy
// beyond these columns; use JSON for a full snapshot.
var csvHeader = []string{
	"Name", "Category", "Difficulty", "Current Streak", "Best Streak",
	"Created Date", "Completed Today", "Notes",
}

// ToCSV writes habits to path, one row per habit. Streak columns are
// computed from the completion history at the given reference time.
func ToCSV(habits []store.Habit, now time.Time, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for i := range habits {
		h := &habits[i]
		row := []string{
			h.Name,
			h.Category,
			string(h.Difficulty),
			strconv.Itoa(streak.Current(h.Completions, now)),
			strconv.Itoa(streak.Best(h.Completions)),
			h.CreatedAt.Format("2006-01-02"),
			strconv.FormatBool(h.Completions[store.DayKey(now)]),
			h.Notes,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
