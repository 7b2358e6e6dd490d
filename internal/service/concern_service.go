package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/danidan902/tullu-dimtu-school-backend/internal/models"
	appErrors "github.com/danidan902/tullu-dimtu-school-backend/pkg/errors"
)

// ConcernRepo is the persistence surface the concern service needs.
type ConcernRepo interface {
	List(ctx context.Context, filter models.ConcernFilter) ([]models.Concern, int, error)
	FindByID(ctx context.Context, id string) (*models.Concern, error)
	Create(ctx context.Context, concern *models.Concern) error
	Update(ctx context.Context, concern *models.Concern) error
	Delete(ctx context.Context, id string) (bool, error)
	Stats(ctx context.Context) (*models.ConcernStats, error)
}

// CreateConcernRequest is the student counselling submission payload.
type CreateConcernRequest struct {
	Name      string  `json:"name" validate:"required"`
	StudentID string  `json:"student_id" validate:"required"`
	Concern   string  `json:"concern" validate:"required"`
	Urgency   string  `json:"urgency"`
	Details   *string `json:"details"`
}

// UpdateConcernRequest amends an existing submission.
type UpdateConcernRequest struct {
	Concern string  `json:"concern"`
	Urgency string  `json:"urgency"`
	Details *string `json:"details"`
}

// ConcernService implements student counselling submissions.
type ConcernService struct {
	repo      ConcernRepo
	validator *validator.Validate
	logger    *zap.Logger
}

// NewConcernService constructs a ConcernService.
func NewConcernService(repo ConcernRepo, validate *validator.Validate, logger *zap.Logger) *ConcernService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConcernService{repo: repo, validator: validate, logger: logger}
}

// List returns concerns and total count for the filter.
func (s *ConcernService) List(ctx context.Context, filter models.ConcernFilter) ([]models.Concern, int, error) {
	return s.repo.List(ctx, filter)
}

// Get fetches one concern.
func (s *ConcernService) Get(ctx context.Context, id string) (*models.Concern, error) {
	concern, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "concern not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch concern")
	}
	return concern, nil
}

// Create validates and stores a new submission.
func (s *ConcernService) Create(ctx context.Context, req CreateConcernRequest) (*models.Concern, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "name, student ID and concern are required")
	}

	urgency := models.ConcernUrgency(req.Urgency)
	if urgency == "" {
		urgency = models.ConcernUrgencyMedium
	}
	if !validConcernUrgency(urgency) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid urgency")
	}

	concern := &models.Concern{
		Name:      req.Name,
		StudentID: req.StudentID,
		Concern:   req.Concern,
		Urgency:   urgency,
		Details:   req.Details,
	}
	if err := s.repo.Create(ctx, concern); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create concern")
	}

	s.logger.Info("concern submitted",
		zap.String("id", concern.ID),
		zap.String("urgency", string(concern.Urgency)),
	)
	return concern, nil
}

// Update amends the concern text, urgency or details.
func (s *ConcernService) Update(ctx context.Context, id string, req UpdateConcernRequest) (*models.Concern, error) {
	concern, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "concern not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch concern")
	}

	if req.Concern != "" {
		concern.Concern = req.Concern
	}
	if req.Urgency != "" {
		urgency := models.ConcernUrgency(req.Urgency)
		if !validConcernUrgency(urgency) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid urgency")
		}
		concern.Urgency = urgency
	}
	if req.Details != nil {
		concern.Details = req.Details
	}

	if err := s.repo.Update(ctx, concern); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update concern")
	}

	s.logger.Info("concern updated", zap.String("id", concern.ID))
	return concern, nil
}

// Delete removes a submission.
func (s *ConcernService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete concern")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "concern not found")
	}
	s.logger.Info("concern deleted", zap.String("id", id))
	return nil
}

// Stats counts submissions per urgency level.
func (s *ConcernService) Stats(ctx context.Context) (*models.ConcernStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute concern stats")
	}
	return stats, nil
}

func validConcernUrgency(urgency models.ConcernUrgency) bool {
	for _, u := range models.ConcernUrgencies {
		if u == urgency {
			return true
		}
	}
	return false
}
