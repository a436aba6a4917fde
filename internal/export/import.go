package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sadopc/cadence/internal/store"
)

// ErrInvalidSnapshot is returned when a JSON import has no habits array.
var ErrInvalidSnapshot = errors.New("export: snapshot has no habits array")

// FromJSON parses a snapshot file into habits and achievement states.
// Individual malformed entries are skipped and logged rather than
// failing the import; a snapshot without a habits array is rejected.
func FromJSON(path string) ([]store.Habit, []store.AchievementState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap jsonSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if snap.Habits == nil {
		return nil, nil, ErrInvalidSnapshot
	}

	var habits []store.Habit
	for _, jh := range snap.Habits {
		if jh.Name == "" {
			logrus.WithField("id", jh.ID).Warn("skipping habit with no name")
			continue
		}
		h := store.Habit{
			ID:          jh.ID,
			Name:        jh.Name,
			Notes:       jh.Notes,
			Category:    defaultString(jh.Category, "other"),
			Difficulty:  parseDifficulty(jh.Difficulty),
			Archived:    jh.Archived,
			Completions: jh.Completions,
		}
		if h.Completions == nil {
			h.Completions = make(map[string]bool)
		}
		for _, d := range jh.ScheduledDays {
			if d >= 0 && d <= 6 {
				h.ScheduledDays = append(h.ScheduledDays, time.Weekday(d))
			}
		}
		if t, err := time.Parse(time.RFC3339, jh.CreatedAt); err == nil {
			h.CreatedAt = t
		} else {
			logrus.WithFields(logrus.Fields{"habit": jh.Name, "created_at": jh.CreatedAt}).
				Warn("unparseable creation date, defaulting to now")
		}
		habits = append(habits, h)
	}

	var states []store.AchievementState
	for _, ja := range snap.Achievements {
		if ja.ID == "" {
			continue
		}
		st := store.AchievementState{ID: ja.ID, Unlocked: ja.Unlocked, Progress: ja.Progress}
		if ja.UnlockedAt != "" {
			if t, err := time.Parse(time.RFC3339, ja.UnlockedAt); err == nil {
				st.UnlockedAt = &t
			}
		}
		states = append(states, st)
	}

	return habits, states, nil
}

// FromCSV parses habits from the fixed-column CSV format. Columns are
// positional; missing trailing columns default permissively. Because
// the CSV carries no completion history, one is synthesized so the
// streak columns survive the round trip.
func FromCSV(path string, now time.Time) ([]store.Habit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // rows may be short; missing columns default

	var habits []store.Habit
	first := true
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logrus.WithError(err).Warn("skipping malformed csv row")
			continue
		}
		if first {
			first = false
			if len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "Name") {
				continue // header row
			}
		}
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}

		h := store.Habit{
			Name:       strings.TrimSpace(row[0]),
			Category:   defaultString(field(row, 1), "other"),
			Difficulty: parseDifficulty(field(row, 2)),
			Notes:      field(row, 7),
			// Daily by default: the CSV has no schedule column.
			ScheduledDays: allWeekdays(),
		}

		current := parseInt(field(row, 3))
		best := parseInt(field(row, 4))
		completedToday := parseBool(field(row, 6))
		if completedToday && current == 0 {
			logrus.WithField("habit", h.Name).
				Warn("csv row completed today with zero streak, importing as streak 1")
		}
		h.Completions = seedCompletions(current, best, completedToday, now)

		if t, err := time.Parse("2006-01-02", field(row, 5)); err == nil {
			h.CreatedAt = t
		}

		habits = append(habits, h)
	}
	return habits, nil
}

// seedCompletions fabricates a minimal history that reproduces the
// given current and best streaks under the streak projections: a run
// ending today or yesterday for the current streak, and if the best
// streak is longer, an older run separated by a one-day gap. A row
// completed today with a zero streak is contradictory input and is
// imported as a streak of 1.
func seedCompletions(current, best int, completedToday bool, now time.Time) map[string]bool {
	m := make(map[string]bool)
	mark := func(daysAgo, length int) {
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).
			AddDate(0, 0, -daysAgo)
		for i := 0; i < length; i++ {
			m[store.DayKey(day)] = true
			day = day.AddDate(0, 0, -1)
		}
	}

	end := 1 // current run ends yesterday
	if completedToday {
		end = 0
		if current == 0 {
			current = 1
		}
	}
	if current > 0 {
		mark(end, current)
	}

	if best > current {
		// Older run, separated by a one-day gap so it neither extends
		// the current run nor revives a lapsed streak.
		start := end + current + 1
		if current == 0 {
			start = 2
		}
		mark(start, best)
	}
	return m
}

func field(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func defaultString(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func parseDifficulty(s string) store.Difficulty {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return store.DifficultyEasy
	case "hard":
		return store.DifficultyHard
	default:
		return store.DifficultyMedium
	}
}

func parseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1":
		return true
	}
	return false
}

func allWeekdays() []time.Weekday {
	days := make([]time.Weekday, 7)
	for i := range days {
		days[i] = time.Weekday(i)
	}
	return days
}
