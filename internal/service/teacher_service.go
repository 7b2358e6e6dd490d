package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/danidan902/tullu-dimtu-school-backend/internal/models"
	appErrors "github.com/danidan902/tullu-dimtu-school-backend/pkg/errors"
)

// TeacherRepo is the persistence surface the teacher service needs.
type TeacherRepo interface {
	List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error)
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	Create(ctx context.Context, teacher *models.Teacher) error
	Update(ctx context.Context, teacher *models.Teacher) error
	Deactivate(ctx context.Context, id string) error
}

// CreateTeacherRequest is the staff directory create payload.
type CreateTeacherRequest struct {
	FullName       string     `json:"full_name" validate:"required"`
	Email          string     `json:"email" validate:"required,email"`
	Phone          *string    `json:"phone"`
	Gender         *string    `json:"gender"`
	Address        *string    `json:"address"`
	ProfileImage   *string    `json:"profile_image"`
	EmployeeID     *string    `json:"employee_id"`
	Department     *string    `json:"department"`
	Position       *string    `json:"position"`
	JoiningDate    *time.Time `json:"joining_date"`
	Subjects       *string    `json:"subjects"`
	HighestDegree  *string    `json:"highest_degree"`
	University     *string    `json:"university"`
	Specialization *string    `json:"specialization"`
}

// TeacherService implements staff directory operations.
type TeacherService struct {
	repo      TeacherRepo
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(repo TeacherRepo, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, validator: validate, logger: logger}
}

// List returns teachers and total count for the filter.
func (s *TeacherService) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error) {
	return s.repo.List(ctx, filter)
}

// Get fetches one teacher.
func (s *TeacherService) Get(ctx context.Context, id string) (*models.Teacher, error) {
	teacher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch teacher")
	}
	return teacher, nil
}

// Create validates and stores a new staff record.
func (s *TeacherService) Create(ctx context.Context, req CreateTeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "full name and a valid email are required")
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a teacher with this email already exists")
	}

	teacher := &models.Teacher{
		FullName:       req.FullName,
		Email:          req.Email,
		Phone:          req.Phone,
		Gender:         req.Gender,
		Address:        req.Address,
		ProfileImage:   req.ProfileImage,
		EmployeeID:     req.EmployeeID,
		Department:     req.Department,
		Position:       req.Position,
		JoiningDate:    req.JoiningDate,
		Subjects:       req.Subjects,
		HighestDegree:  req.HighestDegree,
		University:     req.University,
		Specialization: req.Specialization,
		Status:         models.TeacherStatusActive,
	}
	if err := s.repo.Create(ctx, teacher); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher")
	}

	s.logger.Info("teacher created", zap.String("id", teacher.ID), zap.String("email", teacher.Email))
	return teacher, nil
}

// Update applies the request over an existing teacher record.
func (s *TeacherService) Update(ctx context.Context, id string, req CreateTeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "full name and a valid email are required")
	}

	teacher, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a teacher with this email already exists")
	}

	teacher.FullName = req.FullName
	teacher.Email = req.Email
	teacher.Phone = req.Phone
	teacher.Gender = req.Gender
	teacher.Address = req.Address
	teacher.ProfileImage = req.ProfileImage
	teacher.EmployeeID = req.EmployeeID
	teacher.Department = req.Department
	teacher.Position = req.Position
	teacher.JoiningDate = req.JoiningDate
	teacher.Subjects = req.Subjects
	teacher.HighestDegree = req.HighestDegree
	teacher.University = req.University
	teacher.Specialization = req.Specialization

	if err := s.repo.Update(ctx, teacher); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update teacher")
	}

	s.logger.Info("teacher updated", zap.String("id", teacher.ID))
	return teacher, nil
}

// Deactivate marks the record inactive instead of deleting history.
func (s *TeacherService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate teacher")
	}
	s.logger.Info("teacher deactivated", zap.String("id", id))
	return nil
}
