package repository

import "context"

// SequenceRepository hands out document numbers from an atomic
// per-type, per-year counter. Counters restart each calendar year.
type SequenceRepository interface {
	Next(ctx context.Context, docType string, year int) (int, error)
}
