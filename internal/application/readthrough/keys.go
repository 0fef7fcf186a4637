package readthrough

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/nordvest/backend/internal/domain/project"
)

// ProjectListPrefix covers every collection-level project key
const ProjectListPrefix = "projects:"

// ProjectStatsKey caches portfolio statistics
const ProjectStatsKey = ProjectListPrefix + "stats"

// ProjectKey caches a single project
func ProjectKey(id uuid.UUID) string {
	return "project:" + id.String()
}

// ProjectScopePrefix covers every derived key of one project (plan, advice)
func ProjectScopePrefix(id uuid.UUID) string {
	return ProjectKey(id) + ":"
}

// ProjectListKey caches one page of a project listing
func ProjectListKey(f project.ListFilter) string {
	f.Filter = f.Filter.Normalized()
	return fmt.Sprintf("%slist:status=%s:limit=%d:offset=%d", ProjectListPrefix, f.Status, f.Limit, f.Offset)
}

// PlanKey caches a generated project plan
func PlanKey(id uuid.UUID) string {
	return ProjectScopePrefix(id) + "plan"
}

// SustainabilityKey caches the stored recommendations of a project
func SustainabilityKey(id uuid.UUID) string {
	return ProjectScopePrefix(id) + "sustainability"
}

// FinancingKey caches the stored financing options of a project
func FinancingKey(id uuid.UUID) string {
	return ProjectScopePrefix(id) + "financing"
}

// AdHocKey caches an analysis of client-supplied project data. The key
// includes a digest of the input so different data never share an entry.
func AdHocKey(kind string, s project.Snapshot) string {
	owner := s.ID
	if owner == "" {
		owner = "anonymous"
	}
	return fmt.Sprintf("%s:%s:%s", kind, owner, digest(s))
}

func digest(v any) string {
	data, _ := json.Marshal(v)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}
