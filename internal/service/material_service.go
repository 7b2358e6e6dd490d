package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/danidan902/tullu-dimtu-school-backend/internal/models"
	appErrors "github.com/danidan902/tullu-dimtu-school-backend/pkg/errors"
	"github.com/danidan902/tullu-dimtu-school-backend/pkg/storage"
)

// MaterialRepo is the persistence surface the material service needs.
type MaterialRepo interface {
	List(ctx context.Context, filter models.MaterialFilter) ([]models.Material, int, error)
	FindByID(ctx context.Context, id string) (*models.Material, error)
	Create(ctx context.Context, material *models.Material) error
	IncrementViews(ctx context.Context, id string) error
	IncrementDownloads(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) (bool, error)
	Stats(ctx context.Context) (*models.MaterialStats, error)
}

// MaterialFileStore resolves the uploaded binary a material points at.
type MaterialFileStore interface {
	FindByID(ctx context.Context, id string) (*models.StoredFile, error)
}

// CreateMaterialRequest is the study material catalog payload. The file itself
// is uploaded beforehand; the request references it by ID.
type CreateMaterialRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Subject     string   `json:"subject" validate:"required"`
	Grade       string   `json:"grade" validate:"required"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	IsPublic    *bool    `json:"is_public"`
	FileID      string   `json:"file_id" validate:"required"`
	FileName    string   `json:"file_name" validate:"required"`
	FileType    string   `json:"file_type" validate:"required"`
}

// MaterialDownload is a signed link to a material's file.
type MaterialDownload struct {
	Material  models.Material `json:"material"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// MaterialService implements the study material library.
type MaterialService struct {
	repo      MaterialRepo
	files     MaterialFileStore
	signer    *storage.SignedURLSigner
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMaterialService constructs a MaterialService.
func NewMaterialService(repo MaterialRepo, files MaterialFileStore, signer *storage.SignedURLSigner, validate *validator.Validate, logger *zap.Logger) *MaterialService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaterialService{repo: repo, files: files, signer: signer, validator: validate, logger: logger}
}

// List returns materials and total count for the filter.
func (s *MaterialService) List(ctx context.Context, filter models.MaterialFilter) ([]models.Material, int, error) {
	return s.repo.List(ctx, filter)
}

// Get fetches one material and bumps its view counter.
func (s *MaterialService) Get(ctx context.Context, id string) (*models.Material, error) {
	material, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "material not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch material")
	}

	if err := s.repo.IncrementViews(ctx, id); err != nil {
		s.logger.Warn("failed to increment material views", zap.String("id", id), zap.Error(err))
	} else {
		material.Views++
	}

	return material, nil
}

// Create validates and catalogs a previously uploaded file.
func (s *MaterialService) Create(ctx context.Context, req CreateMaterialRequest) (*models.Material, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "title, description, subject, grade and file are required")
	}

	category := req.Category
	if category == "" {
		category = "lecture"
	}
	if !contains(models.MaterialCategories, category) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid material category")
	}

	file, err := s.files.FindByID(ctx, req.FileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "referenced file does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch referenced file")
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	material := &models.Material{
		Title:       req.Title,
		Description: req.Description,
		Subject:     req.Subject,
		Grade:       req.Grade,
		Category:    category,
		Tags:        pq.StringArray(req.Tags),
		IsPublic:    isPublic,
		FileID:      file.ID,
		FileName:    req.FileName,
		FileType:    req.FileType,
		MimeType:    &file.MimeType,
	}
	if err := s.repo.Create(ctx, material); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create material")
	}

	s.logger.Info("material cataloged",
		zap.String("id", material.ID),
		zap.String("subject", material.Subject),
		zap.String("grade", material.Grade),
	)
	return material, nil
}

// DownloadLink signs a download token for the material's file and counts the
// download.
func (s *MaterialService) DownloadLink(ctx context.Context, id string) (*MaterialDownload, error) {
	material, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "material not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch material")
	}

	file, err := s.files.FindByID(ctx, material.FileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "material file is missing")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch referenced file")
	}

	token, expiresAt, err := s.signer.Generate(file.ID, file.StoredPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download link")
	}

	if err := s.repo.IncrementDownloads(ctx, id); err != nil {
		s.logger.Warn("failed to increment material downloads", zap.String("id", id), zap.Error(err))
	} else {
		material.Downloads++
	}

	return &MaterialDownload{Material: *material, Token: token, ExpiresAt: expiresAt}, nil
}

// Delete removes a material from the catalog. The underlying file stays in
// upload storage; it may be shared.
func (s *MaterialService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete material")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "material not found")
	}
	s.logger.Info("material deleted", zap.String("id", id))
	return nil
}

// Stats returns aggregate library counters.
func (s *MaterialService) Stats(ctx context.Context) (*models.MaterialStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute material stats")
	}
	return stats, nil
}
