package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/sadopc/cadence/internal/store"
)

// Pairs with fewer than minCommonDays shared data points are skipped,
// and coefficients weaker than minCoefficient are treated as noise.
const (
	minCommonDays  = 7
	minCoefficient = 0.3
)

// Correlation is the Pearson coefficient between two habits' daily
// completion vectors on days both were scheduled.
type Correlation struct {
	HabitA      string
	HabitB      string
	NameA       string
	NameB       string
	Coefficient float64
	SampleSize  int
}

// Correlations computes pairwise correlations across all habits. The
// result only contains pairs with at least 7 common observations and
// |r| >= 0.3. correlation(A,B) == correlation(B,A) by construction;
// each pair appears once, ordered by habit ID.
func Correlations(habits []store.Habit) []Correlation {
	ordered := make([]store.Habit, len(habits))
	copy(ordered, habits)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	var out []Correlation
	for i := 0; i < len(ordered); i++ {
		for j := i + 1; j < len(ordered); j++ {
			a, b := &ordered[i], &ordered[j]
			xs, ys := pairedVectors(a, b)
			if len(xs) < minCommonDays {
				continue
			}
			r, ok := pearson(xs, ys)
			if !ok || math.Abs(r) < minCoefficient {
				continue
			}
			out = append(out, Correlation{
				HabitA:      a.ID,
				HabitB:      b.ID,
				NameA:       a.Name,
				NameB:       b.Name,
				Coefficient: r,
				SampleSize:  len(xs),
			})
		}
	}
	return out
}

// pairedVectors builds 0/1 completion vectors over the union of
// recorded days where both habits were scheduled.
func pairedVectors(a, b *store.Habit) ([]float64, []float64) {
	seen := make(map[string]bool, len(a.Completions)+len(b.Completions))
	for day := range a.Completions {
		seen[day] = true
	}
	for day := range b.Completions {
		seen[day] = true
	}

	days := make([]string, 0, len(seen))
	for day := range seen {
		days = append(days, day)
	}
	sort.Strings(days)

	var xs, ys []float64
	for _, day := range days {
		t, err := time.Parse(dayFormat, day)
		if err != nil {
			continue
		}
		if !a.ScheduledOn(t.Weekday()) || !b.ScheduledOn(t.Weekday()) {
			continue
		}
		xs = append(xs, boolToFloat(a.Completions[day]))
		ys = append(ys, boolToFloat(b.Completions[day]))
	}
	return xs, ys
}

// pearson returns the correlation coefficient, or ok=false when either
// vector has zero variance.
func pearson(xs, ys []float64) (float64, bool) {
	n := float64(len(xs))
	if n == 0 {
		return 0, false
	}

	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX, varY float64
	for i := range xs {
		dx, dy := xs[i]-meanX, ys[i]-meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0, false
	}
	return cov / math.Sqrt(varX*varY), true
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
