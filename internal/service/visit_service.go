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

// VisitRepo is the persistence surface the visit service needs.
type VisitRepo interface {
	List(ctx context.Context, filter models.VisitFilter) ([]models.Visit, int, error)
	FindByID(ctx context.Context, id string) (*models.Visit, error)
	Create(ctx context.Context, visit *models.Visit) error
	Delete(ctx context.Context, id string) (bool, error)
}

// CreateVisitRequest is the public campus visit booking payload.
type CreateVisitRequest struct {
	Name             string    `json:"name" validate:"required"`
	Email            string    `json:"email" validate:"required,email"`
	Phone            string    `json:"phone" validate:"required"`
	Organization     string    `json:"organization"`
	VisitDate        time.Time `json:"visit_date" validate:"required"`
	NumberOfVisitors int       `json:"number_of_visitors" validate:"required,min=1,max=50"`
	Purpose          string    `json:"purpose" validate:"required"`
	Message          *string   `json:"message"`
}

// VisitService implements campus visit booking operations.
type VisitService struct {
	repo      VisitRepo
	notify    Notifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewVisitService constructs a VisitService. notify may be nil.
func NewVisitService(repo VisitRepo, notify Notifier, validate *validator.Validate, logger *zap.Logger) *VisitService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VisitService{repo: repo, notify: notify, validator: validate, logger: logger}
}

// List returns bookings and total count for the filter.
func (s *VisitService) List(ctx context.Context, filter models.VisitFilter) ([]models.Visit, int, error) {
	return s.repo.List(ctx, filter)
}

// Get fetches one booking.
func (s *VisitService) Get(ctx context.Context, id string) (*models.Visit, error) {
	visit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "visit not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch visit")
	}
	return visit, nil
}

// Create validates and stores a new booking, then queues a confirmation email.
func (s *VisitService) Create(ctx context.Context, req CreateVisitRequest) (*models.Visit, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "missing required booking fields")
	}
	if !validVisitPurpose(req.Purpose) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid visit purpose")
	}
	if req.VisitDate.Before(time.Now().Truncate(24 * time.Hour)) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "visit date must be in the future")
	}

	visit := &models.Visit{
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		Organization:     req.Organization,
		VisitDate:        req.VisitDate,
		NumberOfVisitors: req.NumberOfVisitors,
		Purpose:          req.Purpose,
		Message:          req.Message,
	}
	if err := s.repo.Create(ctx, visit); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create visit")
	}

	s.logger.Info("visit booked",
		zap.String("id", visit.ID),
		zap.Time("visit_date", visit.VisitDate),
		zap.String("purpose", visit.Purpose),
	)

	if s.notify != nil {
		s.notify.Enqueue(mailer.Message{
			ToName:   visit.Name,
			ToEmail:  visit.Email,
			Subject:  "Campus visit confirmed",
			TextBody: fmt.Sprintf("Dear %s, your campus visit on %s is booked for %d visitor(s).", visit.Name, visit.VisitDate.Format("2 January 2006"), visit.NumberOfVisitors),
		})
	}

	return visit, nil
}

// Delete removes a booking.
func (s *VisitService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete visit")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "visit not found")
	}
	s.logger.Info("visit deleted", zap.String("id", id))
	return nil
}

func validVisitPurpose(purpose string) bool {
	for _, p := range models.VisitPurposes {
		if p == purpose {
			return true
		}
	}
	return false
}
