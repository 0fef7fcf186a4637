package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/nordvest/backend/internal/domain/financing"
	"github.com/nordvest/backend/internal/domain/sustainability"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormRecommendationRepository(t *testing.T) {
	repo := NewGormRecommendationRepository(setupTestDB(t))
	ctx := context.Background()
	projectID := uuid.New()

	implemented := sustainability.NewRecommendation(projectID, sustainability.Suggestion{
		Title: "Etterisolering", Priority: 2, ImpactScore: 6,
	})
	implemented.Status = sustainability.StatusImplemented
	require.NoError(t, repo.ReplacePending(ctx, projectID, []*sustainability.Recommendation{implemented}))

	batch := []*sustainability.Recommendation{
		sustainability.NewRecommendation(projectID, sustainability.Suggestion{Title: "Solceller", Priority: 3, ImpactScore: 9}),
		sustainability.NewRecommendation(projectID, sustainability.Suggestion{Title: "Varmepumpe", Priority: 1, ImpactScore: 5}),
		sustainability.NewRecommendation(projectID, sustainability.Suggestion{Title: "LED", Priority: 1, ImpactScore: 8}),
	}
	require.NoError(t, repo.ReplacePending(ctx, projectID, batch))

	t.Run("ordered by priority then impact", func(t *testing.T) {
		recs, err := repo.FindByProject(ctx, projectID)
		require.NoError(t, err)
		titles := make([]string, 0, len(recs))
		for _, r := range recs {
			titles = append(titles, r.Title)
		}
		assert.Equal(t, []string{"LED", "Varmepumpe", "Etterisolering", "Solceller"}, titles)
	})

	t.Run("regeneration replaces only pending", func(t *testing.T) {
		require.NoError(t, repo.ReplacePending(ctx, projectID, []*sustainability.Recommendation{
			sustainability.NewRecommendation(projectID, sustainability.Suggestion{Title: "Grønt tak", Priority: 4}),
		}))

		recs, err := repo.FindByProject(ctx, projectID)
		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, "Etterisolering", recs[0].Title)
		assert.Equal(t, sustainability.StatusImplemented, recs[0].Status)
		assert.Equal(t, "Grønt tak", recs[1].Title)
	})

	t.Run("other projects are untouched", func(t *testing.T) {
		recs, err := repo.FindByProject(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, recs)
	})
}

func TestGormFinancingRepository(t *testing.T) {
	repo := NewGormFinancingRepository(setupTestDB(t))
	ctx := context.Background()
	projectID := uuid.New()

	rate := decimal.RequireFromString("4.25")
	applied := financing.NewOption(projectID, financing.Suggestion{
		Type: financing.TypeEnergyEfficiency, Title: "Enova-støtte", EligibilityScore: 40,
	})
	applied.Status = financing.StatusApplied

	require.NoError(t, repo.ReplaceAvailable(ctx, projectID, []*financing.Option{
		applied,
		financing.NewOption(projectID, financing.Suggestion{
			Type: financing.TypeGreenLoan, Title: "Grønt lån", EligibilityScore: 90,
			InterestRate: &rate, Benefits: []string{"Lav rente"},
		}),
	}))
	require.NoError(t, repo.ReplaceAvailable(ctx, projectID, []*financing.Option{
		financing.NewOption(projectID, financing.Suggestion{Type: financing.TypeTaxIncentive, Title: "Skattefradrag", EligibilityScore: 70}),
	}))

	opts, err := repo.FindByProject(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, opts, 2)
	assert.Equal(t, "Skattefradrag", opts[0].Title)
	assert.Equal(t, "Enova-støtte", opts[1].Title)
	assert.Equal(t, financing.StatusApplied, opts[1].Status)
	assert.Equal(t, []string{}, opts[1].Benefits)
}
