// Package files manages images and documents attached to projects.
package files

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/nordvest/backend/internal/domain/files"
	"github.com/nordvest/backend/internal/domain/project"
	"github.com/nordvest/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// uniquePrefixLen is the length of the random "xxxxxxxx-" prefix added by files.NewKey
const uniquePrefixLen = 9

// Projects checks that a project exists
type Projects interface {
	Get(ctx context.Context, id uuid.UUID) (*project.Project, error)
}

// Upload is a file received from a client
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Service handles project file operations. A nil storage means file
// storage is not configured and every operation reports ErrStorageUnavailable.
type Service struct {
	storage  files.ObjectStorage
	projects Projects
	maxSize  int64
	logger   *zap.Logger
}

// NewService creates a new file service
func NewService(storage files.ObjectStorage, projects Projects, maxSize int64, logger *zap.Logger) *Service {
	return &Service{
		storage:  storage,
		projects: projects,
		maxSize:  maxSize,
		logger:   logger,
	}
}

// Enabled reports whether file storage is configured
func (s *Service) Enabled() bool {
	return s.storage != nil
}

// MaxSize is the largest accepted upload in bytes; zero means unlimited
func (s *Service) MaxSize() int64 {
	return s.maxSize
}

// Upload stores a file for a project
func (s *Service) Upload(ctx context.Context, projectID uuid.UUID, up Upload) (*files.File, error) {
	if !s.Enabled() {
		return nil, shared.ErrStorageUnavailable
	}
	if up.Size <= 0 {
		return nil, shared.NewValidationError("file is empty")
	}
	if s.maxSize > 0 && up.Size > s.maxSize {
		return nil, shared.NewValidationError(fmt.Sprintf("file exceeds the %d MB limit", s.maxSize>>20))
	}
	kind, err := files.KindOf(up.ContentType)
	if err != nil {
		return nil, err
	}
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		return nil, err
	}

	key := files.NewKey(projectID, kind, up.Filename)
	if err := s.storage.Put(ctx, key, up.Body, up.Size, up.ContentType); err != nil {
		s.logger.Error("Failed to store project file",
			zap.String("project_id", projectID.String()),
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, err
	}

	url, err := s.storage.URL(ctx, key)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Project file uploaded",
		zap.String("project_id", projectID.String()),
		zap.String("key", key),
		zap.Int64("size", up.Size),
	)
	return &files.File{
		Key:         key,
		Name:        displayName(key),
		URL:         url,
		Size:        up.Size,
		ContentType: up.ContentType,
	}, nil
}

// List returns the files of a project, optionally only one kind
func (s *Service) List(ctx context.Context, projectID uuid.UUID, kind files.Kind) ([]files.File, error) {
	if !s.Enabled() {
		return nil, shared.ErrStorageUnavailable
	}
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		return nil, err
	}

	prefix := files.ProjectPrefix(projectID)
	if kind != "" {
		prefix += string(kind) + "/"
	}
	objects, err := s.storage.List(ctx, prefix)
	if err != nil {
		s.logger.Error("Failed to list project files", zap.String("project_id", projectID.String()), zap.Error(err))
		return nil, err
	}

	out := make([]files.File, 0, len(objects))
	for _, obj := range objects {
		url, err := s.storage.URL(ctx, obj.Key)
		if err != nil {
			return nil, err
		}
		out = append(out, files.File{
			Key:         obj.Key,
			Name:        displayName(obj.Key),
			URL:         url,
			Size:        obj.Size,
			ContentType: obj.ContentType,
			UploadedAt:  obj.LastModified,
		})
	}
	return out, nil
}

// Delete removes one file of a project
func (s *Service) Delete(ctx context.Context, projectID uuid.UUID, key string) error {
	if !s.Enabled() {
		return shared.ErrStorageUnavailable
	}
	key = strings.TrimPrefix(key, "/")
	if !files.BelongsTo(projectID, key) {
		return shared.NewValidationError("file does not belong to project")
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		s.logger.Error("Failed to delete project file", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

func displayName(key string) string {
	name := path.Base(key)
	if len(name) > uniquePrefixLen && name[uniquePrefixLen-1] == '-' {
		return name[uniquePrefixLen:]
	}
	return name
}
