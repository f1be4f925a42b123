// Package progress computes a project's weighted completion percentage.
package progress

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Contribution is one non-archived task's share of its project.
type Contribution struct {
	Weight    float64
	Completed bool
}

// Source yields the contributions of a project's non-archived tasks.
type Source interface {
	Contributions(projectID int64) ([]Contribution, error)
}

// Sink persists a recomputed percentage.
type Sink interface {
	SetProgress(projectID int64, progress float64) error
}

// Compute returns 100 * Σ(weight·completed) / Σ(weight). No tasks, or a zero
// total weight, is 0. Negative weights count as 0.
func Compute(cs []Contribution) float64 {
	done := decimal.Zero
	total := decimal.Zero
	for _, c := range cs {
		if c.Weight <= 0 {
			continue
		}
		w := decimal.NewFromFloat(c.Weight)
		total = total.Add(w)
		if c.Completed {
			done = done.Add(w)
		}
	}
	if total.IsZero() {
		return 0
	}
	if done.Equal(total) {
		return 100
	}
	return done.Mul(hundred).Div(total).InexactFloat64()
}

// Recompute reads the project's tasks from src, computes progress and
// writes it to dst. It returns the stored value.
func Recompute(src Source, dst Sink, projectID int64) (float64, error) {
	cs, err := src.Contributions(projectID)
	if err != nil {
		return 0, fmt.Errorf("failed to load task weights for project %d: %w", projectID, err)
	}
	p := Compute(cs)
	if err := dst.SetProgress(projectID, p); err != nil {
		return 0, fmt.Errorf("failed to store progress for project %d: %w", projectID, err)
	}
	return p, nil
}
