package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/nordvest/backend/internal/domain/financing"
	"github.com/nordvest/backend/internal/domain/project"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectModel_RoundTrip(t *testing.T) {
	p, err := project.NewProject("Loftsoppussing", "Nytt bad", project.StatusPlanning)
	require.NoError(t, err)
	cost := decimal.NewFromInt(450000)
	p.EstimatedCost = &cost
	p.SpecialRequirements = []string{"universell utforming"}
	p.Metadata = map[string]any{"source": "web"}

	got := ProjectModelFromDomain(p).ToDomain()

	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, project.StatusPlanning, got.Status)
	assert.True(t, cost.Equal(*got.EstimatedCost))
	assert.Equal(t, []string{"universell utforming"}, got.SpecialRequirements)
	assert.Equal(t, "web", got.Metadata["source"])
}

func TestProjectModel_EmptyCollections(t *testing.T) {
	m := &ProjectModel{SpecialRequirements: "", Metadata: "null"}
	got := m.ToDomain()
	assert.NotNil(t, got.SpecialRequirements)
	assert.Empty(t, got.SpecialRequirements)
	assert.NotNil(t, got.Metadata)
}

func TestPatchColumns(t *testing.T) {
	name := " Ny tittel\t"
	status := project.StatusCompleted
	reqs := []string{"a"}

	cols := PatchColumns(project.Patch{Name: &name, Status: &status, SpecialRequirements: &reqs})

	assert.Len(t, cols, 3)
	assert.Equal(t, "Ny tittel", cols["name"])
	assert.Equal(t, project.StatusCompleted, cols["status"])
	assert.Equal(t, `["a"]`, cols["special_requirements"])
	assert.Empty(t, PatchColumns(project.Patch{}))
}

func TestFinancingOptionModel_RoundTrip(t *testing.T) {
	o := financing.NewOption(uuid.New(), financing.Suggestion{
		Type:         financing.TypeGreenLoan,
		Title:        "Grønt boliglån",
		Amount:       decimal.NewFromInt(1_000_000),
		Requirements: []string{"Energiattest"},
	})

	got := FinancingOptionModelFromDomain(o).ToDomain()
	assert.Equal(t, o.ID, got.ID)
	assert.Equal(t, []string{"Energiattest"}, got.Requirements)
	assert.Equal(t, []string{}, got.Benefits)
	assert.Equal(t, financing.StatusAvailable, got.Status)
}

func TestEncodeJSON(t *testing.T) {
	assert.Equal(t, "[]", EncodeJSON(nil, "[]"))
	assert.Equal(t, "{}", EncodeJSON(map[string]any(nil), "{}"))
	assert.Equal(t, `{"a":1}`, EncodeJSON(map[string]any{"a": 1}, "{}"))
}
