package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectFaker(t *testing.T) {
	now := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	f := newProjectFaker(42)
	f.now = func() time.Time { return now }

	for i := 0; i < 50; i++ {
		req := f.next()

		p, err := req.ToDomain()
		require.NoError(t, err, "generated request %d must be valid", i)
		assert.True(t, p.Status.IsValid())
		assert.NotEmpty(t, req.Name)
		require.NotNil(t, req.SquareMeters)
		assert.GreaterOrEqual(t, *req.SquareMeters, 8.0)
		require.NotNil(t, req.EstimatedCost)
		assert.True(t, req.EstimatedCost.IsPositive())
		require.NotNil(t, req.TargetCompletionDate)
		assert.True(t, req.TargetCompletionDate.After(now))
		assert.LessOrEqual(t, len(req.SpecialRequirements), 2)
		assert.Equal(t, "seed", req.Metadata["source"])
	}
}

func TestProjectFaker_Deterministic(t *testing.T) {
	now := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	a, b := newProjectFaker(7), newProjectFaker(7)
	a.now = func() time.Time { return now }
	b.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		assert.Equal(t, a.next(), b.next())
	}
}
