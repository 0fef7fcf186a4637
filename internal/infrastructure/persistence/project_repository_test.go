package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/nordvest/backend/internal/domain/project"
	"github.com/nordvest/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newTestProject(t *testing.T, name string) *project.Project {
	t.Helper()
	p, err := project.NewProject(name, "Beskrivelse av "+name, project.StatusPlanning)
	require.NoError(t, err)
	return p
}

func intPtr(v int) *int { return &v }

func TestGormProjectRepository_CreateAndFind(t *testing.T) {
	repo := NewGormProjectRepository(setupTestDB(t))
	ctx := context.Background()

	p := newTestProject(t, "Kjøkken i Ålesund")
	cost := decimal.NewFromInt(350000)
	area := 42.5
	p.EstimatedCost = &cost
	p.SquareMeters = &area
	p.SpecialRequirements = []string{"rullestoltilpasset"}
	p.Metadata = map[string]any{"source": "web"}
	require.NoError(t, repo.Create(ctx, p))

	found, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, found.ID)
	assert.Equal(t, "Kjøkken i Ålesund", found.Name)
	assert.Equal(t, project.StatusPlanning, found.Status)
	require.NotNil(t, found.EstimatedCost)
	assert.True(t, cost.Equal(*found.EstimatedCost))
	assert.InDelta(t, 42.5, *found.SquareMeters, 0.001)
	assert.Equal(t, []string{"rullestoltilpasset"}, found.SpecialRequirements)
	assert.Equal(t, "web", found.Metadata["source"])
	assert.Nil(t, found.SustainabilityScore)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormProjectRepository_FindAll(t *testing.T) {
	repo := NewGormProjectRepository(setupTestDB(t))
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		p := newTestProject(t, "Prosjekt "+string(rune('A'+i)))
		p.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		p.UpdatedAt = p.CreatedAt
		if i%2 == 0 {
			p.Status = project.StatusCompleted
		}
		require.NoError(t, repo.Create(ctx, p))
	}

	t.Run("newest first with default limit", func(t *testing.T) {
		all, err := repo.FindAll(ctx, project.ListFilter{})
		require.NoError(t, err)
		require.Len(t, all, 5)
		assert.Equal(t, "Prosjekt E", all[0].Name)
		assert.Equal(t, "Prosjekt A", all[4].Name)
	})

	t.Run("pages do not overlap", func(t *testing.T) {
		first, err := repo.FindAll(ctx, project.ListFilter{Filter: shared.Filter{Limit: 2}})
		require.NoError(t, err)
		second, err := repo.FindAll(ctx, project.ListFilter{Filter: shared.Filter{Limit: 2, Offset: 2}})
		require.NoError(t, err)

		require.Len(t, first, 2)
		require.Len(t, second, 2)
		seen := map[uuid.UUID]bool{}
		for _, p := range append(first, second...) {
			assert.False(t, seen[p.ID], "duplicate %s", p.Name)
			seen[p.ID] = true
		}
	})

	t.Run("status filter", func(t *testing.T) {
		done, err := repo.FindAll(ctx, project.ListFilter{Status: project.StatusCompleted})
		require.NoError(t, err)
		assert.Len(t, done, 3)
		for _, p := range done {
			assert.Equal(t, project.StatusCompleted, p.Status)
		}
	})

	t.Run("unknown sort field falls back to created_at", func(t *testing.T) {
		all, err := repo.FindAll(ctx, project.ListFilter{Filter: shared.Filter{OrderBy: "name; DROP TABLE projects", OrderDir: "asc"}})
		require.NoError(t, err)
		require.Len(t, all, 5)
		assert.Equal(t, "Prosjekt A", all[0].Name)
	})
}

func TestGormProjectRepository_Update(t *testing.T) {
	repo := NewGormProjectRepository(setupTestDB(t))
	ctx := context.Background()

	p := newTestProject(t, "Bad")
	p.Location = "Molde"
	p.CreatedAt = time.Now().UTC().Add(-time.Hour)
	p.UpdatedAt = p.CreatedAt
	require.NoError(t, repo.Create(ctx, p))

	t.Run("only provided fields change", func(t *testing.T) {
		name := "Nytt bad"
		updated, err := repo.Update(ctx, p.ID, project.Patch{Name: &name, SustainabilityScore: intPtr(80)})
		require.NoError(t, err)

		assert.Equal(t, "Nytt bad", updated.Name)
		assert.Equal(t, 80, *updated.SustainabilityScore)
		assert.Equal(t, "Molde", updated.Location)
		assert.Equal(t, p.Description, updated.Description)
		assert.True(t, updated.UpdatedAt.After(p.UpdatedAt))
	})

	t.Run("metadata is replaced", func(t *testing.T) {
		updated, err := repo.Update(ctx, p.ID, project.Patch{Metadata: map[string]any{"plan_generated": true}})
		require.NoError(t, err)
		assert.Equal(t, true, updated.Metadata["plan_generated"])
	})

	t.Run("empty patch refreshes updated_at", func(t *testing.T) {
		before, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		time.Sleep(20 * time.Millisecond)

		current, err := repo.Update(ctx, p.ID, project.Patch{})
		require.NoError(t, err)
		assert.Equal(t, "Nytt bad", current.Name)
		assert.True(t, current.UpdatedAt.After(before.UpdatedAt))
	})

	t.Run("name is trimmed", func(t *testing.T) {
		name := "  Kjøkken  "
		updated, err := repo.Update(ctx, p.ID, project.Patch{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Kjøkken", updated.Name)
	})

	t.Run("missing project", func(t *testing.T) {
		name := "x"
		_, err := repo.Update(ctx, uuid.New(), project.Patch{Name: &name})
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = repo.Update(ctx, uuid.New(), project.Patch{})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormProjectRepository_Delete(t *testing.T) {
	repo := NewGormProjectRepository(setupTestDB(t))
	ctx := context.Background()

	p := newTestProject(t, "Garasje")
	require.NoError(t, repo.Create(ctx, p))

	require.NoError(t, repo.Delete(ctx, p.ID))
	_, err := repo.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, p.ID), shared.ErrNotFound)
}

func TestGormProjectRepository_Stats(t *testing.T) {
	repo := NewGormProjectRepository(setupTestDB(t))
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		stats, err := repo.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, project.Stats{}, *stats)
	})

	seed := []struct {
		status project.Status
		score  *int
	}{
		{project.StatusPlanning, intPtr(60)},
		{project.StatusInProgress, intPtr(80)},
		{project.StatusCompleted, nil},
		{project.StatusCancelled, intPtr(100)},
	}
	for i, s := range seed {
		p := newTestProject(t, "P"+string(rune('0'+i)))
		p.Status = s.status
		p.SustainabilityScore = s.score
		require.NoError(t, repo.Create(ctx, p))
	}

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, int64(2), stats.Active)
	assert.Equal(t, int64(1), stats.Completed)
	assert.InDelta(t, 80.0, stats.AverageSustainabilityScore, 0.001)
}

func TestGormProjectRepository_FindByID_Postgres(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB, DriverName: "postgres"}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	repo := NewGormProjectRepository(gormDB)

	t.Run("maps record not found", func(t *testing.T) {
		id := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "projects" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(id, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByID(context.Background(), id)
		assert.Equal(t, shared.ErrNotFound, err)
	})

	t.Run("propagates driver errors", func(t *testing.T) {
		id := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "projects" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(id, 1).
			WillReturnError(assert.AnError)

		_, err := repo.FindByID(context.Background(), id)
		assert.ErrorIs(t, err, assert.AnError)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
