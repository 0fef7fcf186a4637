// Package files describes images and documents attached to projects. Files
// live only in object storage under projects/<id>/<kind>/.
package files

import (
	"context"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nordvest/backend/internal/domain/shared"
)

// Kind groups files by what they are
type Kind string

const (
	KindImage    Kind = "images"
	KindDocument Kind = "documents"
)

var allowedTypes = map[string]Kind{
	"image/jpeg":      KindImage,
	"image/png":       KindImage,
	"image/webp":      KindImage,
	"image/gif":       KindImage,
	"application/pdf": KindDocument,
	"text/plain":      KindDocument,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": KindDocument,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       KindDocument,
}

// KindOf classifies a MIME type, rejecting types that may not be uploaded
func KindOf(contentType string) (Kind, error) {
	mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	kind, ok := allowedTypes[mediaType]
	if !ok {
		return "", shared.NewValidationError("unsupported file type: " + mediaType)
	}
	return kind, nil
}

// File is a stored object belonging to a project
type File struct {
	Key         string    `json:"key"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// ProjectPrefix is the key prefix shared by every file of a project
func ProjectPrefix(projectID uuid.UUID) string {
	return "projects/" + projectID.String() + "/"
}

// NewKey builds a collision-free key for an upload, keeping only the base
// name of the client supplied file name.
func NewKey(projectID uuid.UUID, kind Kind, filename string) string {
	name := sanitizeFilename(filename)
	return ProjectPrefix(projectID) + string(kind) + "/" + uuid.NewString()[:8] + "-" + name
}

// BelongsTo reports whether key lies under the project's prefix
func BelongsTo(projectID uuid.UUID, key string) bool {
	clean := path.Clean("/" + key)[1:]
	return clean == key && strings.HasPrefix(key, ProjectPrefix(projectID))
}

func sanitizeFilename(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), ".")
	if out == "" {
		return "file"
	}
	return out
}

// Object is an object as reported by storage
type Object struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
}

// ObjectStorage is an S3-style blob store
type ObjectStorage interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	List(ctx context.Context, prefix string) ([]Object, error)
	Delete(ctx context.Context, key string) error
	URL(ctx context.Context, key string) (string, error)
}
