// Package project implements project use cases on top of the read-through cache.
package project

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nordvest/backend/internal/application/project/dto"
	"github.com/nordvest/backend/internal/application/readthrough"
	"github.com/nordvest/backend/internal/domain/analytics"
	"github.com/nordvest/backend/internal/domain/project"
	"go.uber.org/zap"
)

// CacheTTLs sets how long project reads stay cached
type CacheTTLs struct {
	Project time.Duration
	List    time.Duration
}

// DefaultCacheTTLs returns the standard project cache lifetimes
func DefaultCacheTTLs() CacheTTLs {
	return CacheTTLs{Project: 10 * time.Minute, List: 5 * time.Minute}
}

// Service handles project operations
type Service struct {
	repo     project.Repository
	loader   *readthrough.Loader
	recorder analytics.Recorder
	ttls     CacheTTLs
	logger   *zap.Logger
}

// NewService creates a new project service
func NewService(
	repo project.Repository,
	loader *readthrough.Loader,
	recorder analytics.Recorder,
	ttls CacheTTLs,
	logger *zap.Logger,
) *Service {
	defaults := DefaultCacheTTLs()
	if ttls.Project <= 0 {
		ttls.Project = defaults.Project
	}
	if ttls.List <= 0 {
		ttls.List = defaults.List
	}
	return &Service{
		repo:     repo,
		loader:   loader,
		recorder: recorder,
		ttls:     ttls,
		logger:   logger,
	}
}

// Create stores a new project and drops every cached listing
func (s *Service) Create(ctx context.Context, req dto.CreateProjectRequest) (*project.Project, error) {
	p, err := req.ToDomain()
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error("Failed to create project", zap.String("name", p.Name), zap.Error(err))
		return nil, err
	}
	s.loader.Invalidate(ctx, nil, readthrough.ProjectListPrefix)

	s.recorder.Record(ctx, p.ID, analytics.EventProjectCreated, map[string]any{
		"name":   p.Name,
		"status": string(p.Status),
	})
	s.logger.Info("Project created", zap.String("project_id", p.ID.String()))
	return p, nil
}

// Get returns a project by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	return readthrough.Get(ctx, s.loader, readthrough.ProjectKey(id), s.ttls.Project,
		func(ctx context.Context) (*project.Project, error) {
			return s.repo.FindByID(ctx, id)
		})
}

// List returns one page of projects, newest first
func (s *Service) List(ctx context.Context, filter project.ListFilter) ([]project.Project, error) {
	filter.Filter = filter.Filter.Normalized()
	return readthrough.Get(ctx, s.loader, readthrough.ProjectListKey(filter), s.ttls.List,
		func(ctx context.Context) ([]project.Project, error) {
			projects, err := s.repo.FindAll(ctx, filter)
			if err != nil {
				return nil, err
			}
			if projects == nil {
				projects = []project.Project{}
			}
			return projects, nil
		})
}

// Update applies a partial update and returns the stored result
func (s *Service) Update(ctx context.Context, id uuid.UUID, patch project.Patch) (*project.Project, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	p, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.loader.Invalidate(ctx, []string{readthrough.ProjectKey(id)}, readthrough.ProjectListPrefix)
	return p, nil
}

// MergeMetadata adds keys to the project's metadata, keeping existing ones
func (s *Service) MergeMetadata(ctx context.Context, id uuid.UUID, values map[string]any) (*project.Project, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]any, len(current.Metadata)+len(values))
	for k, v := range current.Metadata {
		merged[k] = v
	}
	for k, v := range values {
		merged[k] = v
	}
	return s.Update(ctx, id, project.Patch{Metadata: merged})
}

// Delete removes a project together with every cache entry derived from it
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.loader.Invalidate(ctx,
		[]string{readthrough.ProjectKey(id)},
		readthrough.ProjectListPrefix,
		readthrough.ProjectScopePrefix(id),
	)

	s.recorder.Record(ctx, id, analytics.EventProjectDeleted, nil)
	s.logger.Info("Project deleted", zap.String("project_id", id.String()))
	return nil
}

// Stats returns portfolio statistics
func (s *Service) Stats(ctx context.Context) (*project.Stats, error) {
	return readthrough.Get(ctx, s.loader, readthrough.ProjectStatsKey, s.ttls.List, s.repo.Stats)
}
