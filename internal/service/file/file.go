// internal/service/file/file.go
package file

import (
	"context"
	"database/sql"
	"fmt"
	"path"

	"projexa-service/internal/domain/auth"
	"projexa-service/internal/domain/file"
	"projexa-service/internal/integration/dropbox"
	xerrors "projexa-service/internal/pkg/errors"
	"projexa-service/internal/repository/postgres"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

type FileService struct {
	repo        *postgres.FileRepository
	projectRepo *postgres.ProjectRepository
	storage     *dropbox.Client
	logger      *zap.Logger
}

func NewFileService(
	repo *postgres.FileRepository,
	projectRepo *postgres.ProjectRepository,
	storage *dropbox.Client,
	logger *zap.Logger,
) *FileService {
	return &FileService{
		repo:        repo,
		projectRepo: projectRepo,
		storage:     storage,
		logger:      logger,
	}
}

// Upload stores the content in Dropbox under a collision-free key and records
// the metadata row.
func (s *FileService) Upload(ctx context.Context, projectID, uploaderID int64, name, mimeType string, content []byte) (*file.File, error) {
	if err := s.requireMember(ctx, projectID, uploaderID); err != nil {
		return nil, err
	}

	storageKey := fmt.Sprintf("/projects/%d/%s_%s", projectID, ulid.Make().String(), path.Base(name))
	if err := s.storage.Upload(ctx, storageKey, content); err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	f := &file.File{
		ProjectID:  projectID,
		UploaderID: uploaderID,
		Name:       path.Base(name),
		SizeBytes:  int64(len(content)),
		Provider:   "dropbox",
		StorageKey: storageKey,
	}
	if mimeType != "" {
		f.MimeType = sql.NullString{String: mimeType, Valid: true}
	}

	if err := s.repo.Create(ctx, f); err != nil {
		// Best effort cleanup of the orphaned blob.
		if derr := s.storage.Delete(ctx, storageKey); derr != nil {
			s.logger.Error("failed to clean up orphaned upload", zap.String("key", storageKey), zap.Error(derr))
		}
		return nil, fmt.Errorf("failed to record file: %w", err)
	}
	return f, nil
}

// Download returns the metadata and the file content.
func (s *FileService) Download(ctx context.Context, fileID, userID int64) (*file.File, []byte, error) {
	f, err := s.repo.FindByID(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.requireMember(ctx, f.ProjectID, userID); err != nil {
		return nil, nil, err
	}

	content, err := s.storage.Download(ctx, f.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to download file: %w", err)
	}
	return f, content, nil
}

func (s *FileService) ListByProject(ctx context.Context, projectID, userID int64) ([]file.File, error) {
	if err := s.requireMember(ctx, projectID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByProject(ctx, projectID)
}

// Delete removes the blob and the metadata. Only the uploader, a project
// manager or an admin may delete a file.
func (s *FileService) Delete(ctx context.Context, fileID, userID int64, userRole string) error {
	f, err := s.repo.FindByID(ctx, fileID)
	if err != nil {
		return err
	}

	if f.UploaderID != userID && userRole != auth.RoleAdmin {
		member, err := s.projectRepo.GetMember(ctx, f.ProjectID, userID)
		if err != nil {
			return err
		}
		if member.Role != "manager" {
			return xerrors.ErrForbidden
		}
	}

	if err := s.storage.Delete(ctx, f.StorageKey); err != nil {
		s.logger.Error("failed to delete storage object", zap.String("key", f.StorageKey), zap.Error(err))
	}
	return s.repo.Delete(ctx, fileID)
}

func (s *FileService) requireMember(ctx context.Context, projectID, userID int64) error {
	isMember, err := s.projectRepo.IsMember(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return xerrors.ErrNotProjectMember
	}
	return nil
}
