package numbering_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmgmill/ricemill-api/internal/application/numbering"
)

type fakeSequenceRepo struct {
	counters map[string]int
}

func (r *fakeSequenceRepo) Next(_ context.Context, docType string, _ int) (int, error) {
	if r.counters == nil {
		r.counters = make(map[string]int)
	}
	r.counters[docType]++
	return r.counters[docType], nil
}

func TestNext_Format(t *testing.T) {
	g := numbering.NewGenerator(&fakeSequenceRepo{})
	year := time.Now().Year()

	n, err := g.Next(context.Background(), "INV", 4)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("INV-%d-0001", year), n)
}

func TestNext_PadsAndGrows(t *testing.T) {
	g := numbering.NewGenerator(&fakeSequenceRepo{})
	year := time.Now().Year()
	ctx := context.Background()

	var last string
	for i := 0; i < 11; i++ {
		var err error
		last, err = g.Next(ctx, "PO", 4)
		require.NoError(t, err)
	}
	assert.Equal(t, fmt.Sprintf("PO-%d-0011", year), last)
}

func TestNext_IndependentPerPrefix(t *testing.T) {
	g := numbering.NewGenerator(&fakeSequenceRepo{})
	ctx := context.Background()
	year := time.Now().Year()

	_, err := g.Next(ctx, "INV", 4)
	require.NoError(t, err)
	n, err := g.Next(ctx, "BATCH", 4)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("BATCH-%d-0001", year), n, "each document type counts on its own")
}

func TestNext_DefaultWidth(t *testing.T) {
	g := numbering.NewGenerator(&fakeSequenceRepo{})
	year := time.Now().Year()

	n, err := g.Next(context.Background(), "SO", 0)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("SO-%d-0001", year), n)
}
