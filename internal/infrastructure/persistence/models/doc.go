// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Structure:
//   - base.go: BaseModel and jsonb helpers
//   - project.go: projects table
//   - chat.go: conversations and messages
//   - advice.go: sustainability recommendations and financing options
//   - analytics.go: analytics events
//
// Slices and maps are stored as JSON text in jsonb columns.
package models
