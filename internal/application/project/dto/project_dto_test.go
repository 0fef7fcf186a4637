package dto

import (
	"testing"

	"github.com/nordvest/backend/internal/domain/project"
	"github.com/nordvest/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProjectRequest_ToDomain(t *testing.T) {
	t.Run("defaults to draft", func(t *testing.T) {
		p, err := CreateProjectRequest{Name: "  Kjøkken Bergen "}.ToDomain()
		require.NoError(t, err)
		assert.Equal(t, "Kjøkken Bergen", p.Name)
		assert.Equal(t, project.StatusDraft, p.Status)
		assert.NotNil(t, p.Metadata)
		assert.Empty(t, p.SpecialRequirements)
	})

	t.Run("copies optional fields", func(t *testing.T) {
		cost := decimal.NewFromInt(450000)
		area := 82.5
		p, err := CreateProjectRequest{
			Name:                "Bad",
			Status:              "planning",
			EstimatedCost:       &cost,
			SquareMeters:        &area,
			Location:            "Trondheim",
			SpecialRequirements: []string{"universell utforming"},
			Metadata:            map[string]any{"source": "web"},
		}.ToDomain()
		require.NoError(t, err)
		assert.Equal(t, project.StatusPlanning, p.Status)
		assert.True(t, cost.Equal(*p.EstimatedCost))
		assert.Equal(t, []string{"universell utforming"}, p.SpecialRequirements)
		assert.Equal(t, "web", p.Metadata["source"])
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		_, err := CreateProjectRequest{Name: "   "}.ToDomain()
		assert.ErrorIs(t, err, shared.ErrInvalidInput)

		score := 140
		_, err = CreateProjectRequest{Name: "x", SustainabilityScore: &score}.ToDomain()
		assert.ErrorIs(t, err, shared.ErrInvalidInput)

		_, err = CreateProjectRequest{Name: "x", Status: "archived"}.ToDomain()
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestUpdateProjectRequest_ToPatch(t *testing.T) {
	assert.True(t, UpdateProjectRequest{}.ToPatch().IsEmpty())

	status := "active"
	patch := UpdateProjectRequest{Status: &status}.ToPatch()
	require.NotNil(t, patch.Status)
	assert.Equal(t, project.StatusActive, *patch.Status)
	assert.Nil(t, patch.Name)
}

func TestProjectListQuery_ToFilter(t *testing.T) {
	f := ProjectListQuery{}.ToFilter()
	assert.Equal(t, shared.DefaultLimit, f.Limit)
	assert.Equal(t, 0, f.Offset)

	f = ProjectListQuery{Status: "active", Limit: 3, Offset: 3}.ToFilter()
	assert.Equal(t, project.StatusActive, f.Status)
	assert.Equal(t, 3, f.Limit)
	assert.Equal(t, 3, f.Offset)
}
