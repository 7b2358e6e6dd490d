package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/danidan902/tullu-dimtu-school-backend/internal/models"
	appErrors "github.com/danidan902/tullu-dimtu-school-backend/pkg/errors"
	"github.com/danidan902/tullu-dimtu-school-backend/pkg/storage"
)

// UploadRepo is the persistence surface the upload service needs.
type UploadRepo interface {
	Create(ctx context.Context, file *models.StoredFile) error
	FindByID(ctx context.Context, id string) (*models.StoredFile, error)
	List(ctx context.Context, limit, offset int) ([]models.StoredFile, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Image types accepted for profile photos and post covers.
var allowedUploadTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// UploadResult describes a stored file and its signed download link.
type UploadResult struct {
	File      models.StoredFile `json:"file"`
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// UploadService stores uploaded images on local disk and tracks metadata.
type UploadService struct {
	repo     UploadRepo
	store    *storage.LocalStorage
	signer   *storage.SignedURLSigner
	maxBytes int64
	logger   *zap.Logger
}

// NewUploadService constructs an UploadService.
func NewUploadService(repo UploadRepo, store *storage.LocalStorage, signer *storage.SignedURLSigner, maxBytes int64, logger *zap.Logger) *UploadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxBytes <= 0 {
		maxBytes = 10 * 1024 * 1024
	}
	return &UploadService{repo: repo, store: store, signer: signer, maxBytes: maxBytes, logger: logger}
}

// Store validates and persists one uploaded file.
func (s *UploadService) Store(ctx context.Context, originalName, contentType string, size int64, r io.Reader, uploadedBy *string) (*UploadResult, error) {
	ext, ok := allowedUploadTypes[strings.ToLower(contentType)]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported file type")
	}
	if size > s.maxBytes {
		return nil, appErrors.Clone(appErrors.ErrTooLarge, fmt.Sprintf("file exceeds %d bytes", s.maxBytes))
	}

	id := uuid.NewString()
	relPath := filepath.Join(time.Now().UTC().Format("2006/01"), id+ext)

	// Cap the read in case the declared size lies.
	limited := io.LimitReader(r, s.maxBytes+1)
	if _, err := s.store.SaveStream(relPath, limited); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store file")
	}

	file := &models.StoredFile{
		ID:           id,
		OriginalName: originalName,
		StoredPath:   relPath,
		MimeType:     contentType,
		SizeBytes:    size,
		UploadedBy:   uploadedBy,
	}
	if err := s.repo.Create(ctx, file); err != nil {
		_ = s.store.Delete(relPath)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record file")
	}

	token, expiresAt, err := s.signer.Generate(id, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download link")
	}

	s.logger.Info("file uploaded",
		zap.String("id", id),
		zap.String("name", originalName),
		zap.Int64("size", size),
	)

	return &UploadResult{File: *file, Token: token, ExpiresAt: expiresAt}, nil
}

// List returns stored-file metadata.
func (s *UploadService) List(ctx context.Context, limit, offset int) ([]models.StoredFile, error) {
	return s.repo.List(ctx, limit, offset)
}

// SignedLink issues a fresh download token for an existing file.
func (s *UploadService) SignedLink(ctx context.Context, id string) (*UploadResult, error) {
	file, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "file not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch file")
	}
	token, expiresAt, err := s.signer.Generate(file.ID, file.StoredPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download link")
	}
	return &UploadResult{File: *file, Token: token, ExpiresAt: expiresAt}, nil
}

// ResolveDownload validates a token and opens the referenced file.
func (s *UploadService) ResolveDownload(ctx context.Context, token string) (*models.StoredFile, *os.File, error) {
	fileID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download link")
	}
	file, err := s.repo.FindByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "file not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch file")
	}
	if file.StoredPath != relPath {
		return nil, nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid download link")
	}
	handle, err := s.store.Open(relPath)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open file")
	}
	return file, handle, nil
}

// Delete removes the file and its metadata.
func (s *UploadService) Delete(ctx context.Context, id string) error {
	file, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "file not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch file")
	}
	if _, err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete file")
	}
	if err := s.store.Delete(file.StoredPath); err != nil {
		s.logger.Warn("failed to remove stored file", zap.String("path", file.StoredPath), zap.Error(err))
	}
	s.logger.Info("file deleted", zap.String("id", id))
	return nil
}
