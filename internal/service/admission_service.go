package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/danidan902/tullu-dimtu-school-backend/internal/models"
	appErrors "github.com/danidan902/tullu-dimtu-school-backend/pkg/errors"
	"github.com/danidan902/tullu-dimtu-school-backend/pkg/mailer"
)

// AdmissionRepo is the persistence surface the admission service needs.
type AdmissionRepo interface {
	List(ctx context.Context, filter models.AdmissionFilter) ([]models.Admission, int, error)
	FindByID(ctx context.Context, id string) (*models.Admission, error)
	Create(ctx context.Context, admission *models.Admission) error
	UpdateStatus(ctx context.Context, id string, status models.AdmissionStatus) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Notifier queues outbound mail without blocking the request path.
type Notifier interface {
	Enqueue(msg mailer.Message)
}

// CreateAdmissionRequest is the public application payload.
type CreateAdmissionRequest struct {
	FirstName       string    `json:"first_name" validate:"required"`
	LastName        string    `json:"last_name" validate:"required"`
	GrandParentName string    `json:"grand_parent_name" validate:"required"`
	Gender          string    `json:"gender" validate:"required"`
	DateOfBirth     time.Time `json:"date_of_birth" validate:"required"`
	Age             int       `json:"age" validate:"required,min=3,max=30"`
	Nationality     string    `json:"nationality" validate:"required"`
	FanNumber       string    `json:"fan_number" validate:"required"`
	Program         string    `json:"program" validate:"required"`
	Field           string    `json:"field" validate:"required"`
	Email           *string   `json:"email" validate:"omitempty,email"`
	Phone           *string   `json:"phone"`
	GuardianName    *string   `json:"guardian_name"`
	GuardianPhone   *string   `json:"guardian_phone"`
}

// AdmissionService implements enrollment application operations.
type AdmissionService struct {
	repo      AdmissionRepo
	notify    Notifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAdmissionService constructs an AdmissionService. notify may be nil.
func NewAdmissionService(repo AdmissionRepo, notify Notifier, validate *validator.Validate, logger *zap.Logger) *AdmissionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdmissionService{repo: repo, notify: notify, validator: validate, logger: logger}
}

// List returns applications and total count for the filter.
func (s *AdmissionService) List(ctx context.Context, filter models.AdmissionFilter) ([]models.Admission, int, error) {
	return s.repo.List(ctx, filter)
}

// Get fetches one application.
func (s *AdmissionService) Get(ctx context.Context, id string) (*models.Admission, error) {
	admission, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "admission not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch admission")
	}
	return admission, nil
}

// Create validates and stores a new application, then queues a confirmation
// email when the applicant left an address.
func (s *AdmissionService) Create(ctx context.Context, req CreateAdmissionRequest) (*models.Admission, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "missing required application fields")
	}

	admission := &models.Admission{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		GrandParentName: req.GrandParentName,
		Gender:          req.Gender,
		DateOfBirth:     req.DateOfBirth,
		Age:             req.Age,
		Nationality:     req.Nationality,
		FanNumber:       req.FanNumber,
		Program:         req.Program,
		Field:           req.Field,
		Email:           req.Email,
		Phone:           req.Phone,
		GuardianName:    req.GuardianName,
		GuardianPhone:   req.GuardianPhone,
		Status:          models.AdmissionStatusPending,
	}
	if err := s.repo.Create(ctx, admission); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create admission")
	}

	s.logger.Info("admission submitted",
		zap.String("id", admission.ID),
		zap.String("program", admission.Program),
	)

	if s.notify != nil && admission.Email != nil {
		s.notify.Enqueue(mailer.Message{
			ToName:   admission.FirstName + " " + admission.LastName,
			ToEmail:  *admission.Email,
			Subject:  "Admission application received",
			TextBody: fmt.Sprintf("Dear %s, we received your application for the %s program. We will contact you once it has been reviewed.", admission.FirstName, admission.Program),
		})
	}

	return admission, nil
}

// UpdateStatus moves an application through review.
func (s *AdmissionService) UpdateStatus(ctx context.Context, id string, status models.AdmissionStatus) (*models.Admission, error) {
	switch status {
	case models.AdmissionStatusPending, models.AdmissionStatusAccepted, models.AdmissionStatusRejected:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid admission status")
	}

	ok, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update admission status")
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "admission not found")
	}

	admission, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("admission status updated", zap.String("id", id), zap.String("status", string(status)))

	if s.notify != nil && admission.Email != nil && status != models.AdmissionStatusPending {
		verdict := "accepted"
		if status == models.AdmissionStatusRejected {
			verdict = "not accepted"
		}
		s.notify.Enqueue(mailer.Message{
			ToName:   admission.FirstName + " " + admission.LastName,
			ToEmail:  *admission.Email,
			Subject:  "Admission decision",
			TextBody: fmt.Sprintf("Dear %s, your application for the %s program was %s.", admission.FirstName, admission.Program, verdict),
		})
	}

	return admission, nil
}

// Delete removes an application.
func (s *AdmissionService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete admission")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "admission not found")
	}
	s.logger.Info("admission deleted", zap.String("id", id))
	return nil
}
