// Package numbering issues document numbers in the form
// PREFIX-YYYY-NNNN, backed by an atomic per-year counter so two
// concurrent writers can never receive the same number.
package numbering

import (
	"context"
	"fmt"
	"time"

	"github.com/kmgmill/ricemill-api/internal/domain/repository"
)

type Generator struct {
	seq repository.SequenceRepository
}

func NewGenerator(seq repository.SequenceRepository) *Generator {
	return &Generator{seq: seq}
}

// Next returns the next number for the given prefix, e.g. PO-2025-0001.
// Counters restart at 1 each calendar year.
func (g *Generator) Next(ctx context.Context, prefix string, width int) (string, error) {
	if width <= 0 {
		width = 4
	}
	year := time.Now().Year()
	n, err := g.seq.Next(ctx, prefix, year)
	if err != nil {
		return "", fmt.Errorf("next %s number: %w", prefix, err)
	}
	return fmt.Sprintf("%s-%d-%0*d", prefix, year, width, n), nil
}
