package postgres

import (
	"context"
	"fmt"

	"github.com/kmgmill/ricemill-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo issues document numbers from the document_counters
// table. The upsert increments and returns in one statement, so two
// concurrent callers always see different values.
type SequenceRepo struct {
	q Querier
}

func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

func (r *SequenceRepo) Next(ctx context.Context, docType string, year int) (int, error) {
	query := `
		INSERT INTO document_counters (doc_type, year, value)
		VALUES ($1, $2, 1)
		ON CONFLICT (doc_type, year)
		DO UPDATE SET value = document_counters.value + 1
		RETURNING value`
	var n int
	if err := r.q.QueryRow(ctx, query, docType, year).Scan(&n); err != nil {
		return 0, fmt.Errorf("next document number: %w", err)
	}
	return n, nil
}
