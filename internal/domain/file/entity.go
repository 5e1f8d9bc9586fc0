// internal/domain/file/entity.go
package file

import (
	"database/sql"
	"time"
)

type File struct {
	ID         int64          `json:"id" db:"id"`
	ProjectID  int64          `json:"project_id" db:"project_id"`
	UploaderID int64          `json:"uploader_id" db:"uploader_id"`
	Name       string         `json:"name" db:"name"`
	SizeBytes  int64          `json:"size_bytes" db:"size_bytes"`
	MimeType   sql.NullString `json:"mime_type,omitempty" db:"mime_type"`
	Provider   string         `json:"provider" db:"provider"`
	StorageKey string         `json:"storage_key" db:"storage_key"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
}
