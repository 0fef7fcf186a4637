package project

import (
	"testing"

	"github.com/google/uuid"
	"github.com/nordvest/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProject(t *testing.T) {
	t.Run("defaults to draft", func(t *testing.T) {
		p, err := NewProject("  Kjøkken Ålesund ", "nytt kjøkken", "")
		require.NoError(t, err)
		assert.Equal(t, "Kjøkken Ålesund", p.Name)
		assert.Equal(t, StatusDraft, p.Status)
		assert.NotEqual(t, uuid.Nil, p.ID)
		assert.NotNil(t, p.Metadata)
		assert.NotNil(t, p.SpecialRequirements)
		assert.Equal(t, p.CreatedAt, p.UpdatedAt)
	})

	t.Run("rejects blank name", func(t *testing.T) {
		_, err := NewProject("   ", "", StatusDraft)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := NewProject("Bad", "", Status("archived"))
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestPatch(t *testing.T) {
	p, err := NewProject("Bad", "", StatusDraft)
	require.NoError(t, err)

	t.Run("empty patch", func(t *testing.T) {
		assert.True(t, Patch{}.IsEmpty())
	})

	t.Run("apply only provided fields", func(t *testing.T) {
		status := StatusActive
		score := 80
		patch := Patch{Status: &status, SustainabilityScore: &score}
		require.NoError(t, patch.Validate())
		assert.False(t, patch.IsEmpty())

		before := p.UpdatedAt
		patch.Apply(p)

		assert.Equal(t, StatusActive, p.Status)
		assert.Equal(t, 80, *p.SustainabilityScore)
		assert.Equal(t, "Bad", p.Name)
		assert.False(t, p.UpdatedAt.Before(before))
	})

	t.Run("validation", func(t *testing.T) {
		blank := " "
		bad := Status("nope")
		score := 101
		area := -3.0
		cost := decimal.NewFromInt(-1)

		assert.ErrorIs(t, Patch{Name: &blank}.Validate(), shared.ErrInvalidInput)
		assert.ErrorIs(t, Patch{Status: &bad}.Validate(), shared.ErrInvalidInput)
		assert.ErrorIs(t, Patch{SustainabilityScore: &score}.Validate(), shared.ErrInvalidInput)
		assert.ErrorIs(t, Patch{SquareMeters: &area}.Validate(), shared.ErrInvalidInput)
		assert.ErrorIs(t, Patch{EstimatedCost: &cost}.Validate(), shared.ErrInvalidInput)
	})
}

func TestProject_Snapshot(t *testing.T) {
	p, err := NewProject("Bad", "Nytt bad", StatusPlanning)
	require.NoError(t, err)
	area := 12.5
	p.SquareMeters = &area
	p.Location = "Ålesund"

	s := p.Snapshot()
	assert.Equal(t, p.ID.String(), s.ID)
	assert.Equal(t, "Ålesund", s.Location)
	assert.Equal(t, &area, s.SquareMeters)
}

func TestParseID(t *testing.T) {
	_, err := ParseID("not-a-uuid")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	id, err := ParseID("6f1c1c1e-5b7a-4e55-9a39-5d2b1f0a7c11")
	require.NoError(t, err)
	assert.Equal(t, "6f1c1c1e-5b7a-4e55-9a39-5d2b1f0a7c11", id.String())
}
