// internal/repository/postgres/file_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"projexa-service/internal/domain/file"
	xerrors "projexa-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
)

type FileRepository struct {
	db DB
}

func NewFileRepository(db DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) Create(ctx context.Context, f *file.File) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO files (project_id, uploader_id, name, size_bytes, mime_type, provider, storage_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, f.ProjectID, f.UploaderID, f.Name, f.SizeBytes, f.MimeType, f.Provider, f.StorageKey,
	).Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create file record: %w", err)
	}
	return nil
}

func (r *FileRepository) FindByID(ctx context.Context, id int64) (*file.File, error) {
	var f file.File
	err := r.db.QueryRow(ctx, `
		SELECT id, project_id, uploader_id, name, size_bytes, mime_type, provider, storage_key, created_at
		FROM files WHERE id = $1
	`, id).Scan(&f.ID, &f.ProjectID, &f.UploaderID, &f.Name, &f.SizeBytes, &f.MimeType, &f.Provider, &f.StorageKey, &f.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find file: %w", err)
	}
	return &f, nil
}

func (r *FileRepository) ListByProject(ctx context.Context, projectID int64) ([]file.File, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, project_id, uploader_id, name, size_bytes, mime_type, provider, storage_key, created_at
		FROM files WHERE project_id = $1 ORDER BY created_at DESC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	files := make([]file.File, 0)
	for rows.Next() {
		var f file.File
		if err := rows.Scan(&f.ID, &f.ProjectID, &f.UploaderID, &f.Name, &f.SizeBytes, &f.MimeType, &f.Provider, &f.StorageKey, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func (r *FileRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
