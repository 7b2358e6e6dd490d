package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/danidan902/tullu-dimtu-school-backend/internal/models"
	appErrors "github.com/danidan902/tullu-dimtu-school-backend/pkg/errors"
	"github.com/danidan902/tullu-dimtu-school-backend/pkg/mailer"
)

// RegistrationRepo is the persistence surface the registration service needs.
type RegistrationRepo interface {
	List(ctx context.Context, filter models.RegistrationFilter) ([]models.Registration, int, error)
	Create(ctx context.Context, registration *models.Registration) error
	Delete(ctx context.Context, id string) (bool, error)
}

// CreateRegistrationRequest is the public program registration payload.
type CreateRegistrationRequest struct {
	FullName string    `json:"full_name" validate:"required"`
	Phone    string    `json:"phone" validate:"required"`
	Email    *string   `json:"email" validate:"omitempty,email"`
	Day      time.Time `json:"day" validate:"required"`
	Grade    string    `json:"grade" validate:"required"`
	Role     string    `json:"role" validate:"required"`
	Program  string    `json:"program" validate:"required"`
}

// RegistrationService implements program registration operations.
type RegistrationService struct {
	repo      RegistrationRepo
	notify    Notifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRegistrationService constructs a RegistrationService. notify may be nil.
func NewRegistrationService(repo RegistrationRepo, notify Notifier, validate *validator.Validate, logger *zap.Logger) *RegistrationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{repo: repo, notify: notify, validator: validate, logger: logger}
}

// List returns registrations and total count for the filter.
func (s *RegistrationService) List(ctx context.Context, filter models.RegistrationFilter) ([]models.Registration, int, error) {
	return s.repo.List(ctx, filter)
}

// Create validates and stores a new registration.
func (s *RegistrationService) Create(ctx context.Context, req CreateRegistrationRequest) (*models.Registration, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "missing required registration fields")
	}
	if !contains(models.RegistrationGrades, req.Grade) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid grade")
	}
	if !contains(models.RegistrationRoles, req.Role) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid role")
	}
	if !contains(models.RegistrationPrograms, req.Program) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid program")
	}

	registration := &models.Registration{
		FullName: req.FullName,
		Phone:    req.Phone,
		Email:    req.Email,
		Day:      req.Day,
		Grade:    req.Grade,
		Role:     req.Role,
		Program:  req.Program,
	}
	if err := s.repo.Create(ctx, registration); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create registration")
	}

	s.logger.Info("registration created",
		zap.String("id", registration.ID),
		zap.String("program", registration.Program),
		zap.String("role", registration.Role),
	)

	if s.notify != nil && registration.Email != nil {
		s.notify.Enqueue(mailer.Message{
			ToName:   registration.FullName,
			ToEmail:  *registration.Email,
			Subject:  "Program registration confirmed",
			TextBody: fmt.Sprintf("Dear %s, you are registered for %s as %s on %s.", registration.FullName, registration.Program, registration.Role, registration.Day.Format("2 January 2006")),
		})
	}

	return registration, nil
}

// Delete removes a registration.
func (s *RegistrationService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete registration")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "registration not found")
	}
	s.logger.Info("registration deleted", zap.String("id", id))
	return nil
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
