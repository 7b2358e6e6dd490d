package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/danidan902/tullu-dimtu-school-backend/internal/models"
)

// AdmissionRepository manages persistence for admission applications.
type AdmissionRepository struct {
	db *sqlx.DB
}

// NewAdmissionRepository constructs an AdmissionRepository.
func NewAdmissionRepository(db *sqlx.DB) *AdmissionRepository {
	return &AdmissionRepository{db: db}
}

const admissionColumns = `id, first_name, last_name, grand_parent_name, gender, date_of_birth, age, nationality, fan_number, program, field, email, phone, guardian_name, guardian_phone, status, created_at, updated_at`

// List returns admissions matching the filter, newest first, with total count.
func (r *AdmissionRepository) List(ctx context.Context, filter models.AdmissionFilter) ([]models.Admission, int, error) {
	base := "FROM admissions WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(first_name) LIKE $%d OR LOWER(last_name) LIKE $%d OR LOWER(fan_number) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, search)
	}
	if filter.Program != "" {
		conditions = append(conditions, fmt.Sprintf("program = $%d", len(args)+1))
		args = append(args, filter.Program)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", admissionColumns, base, size, offset)
	var admissions []models.Admission
	if err := r.db.SelectContext(ctx, &admissions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list admissions: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", base), args...); err != nil {
		return nil, 0, fmt.Errorf("count admissions: %w", err)
	}

	return admissions, total, nil
}

// FindByID fetches a single admission application.
func (r *AdmissionRepository) FindByID(ctx context.Context, id string) (*models.Admission, error) {
	query := fmt.Sprintf("SELECT %s FROM admissions WHERE id = $1", admissionColumns)
	var admission models.Admission
	if err := r.db.GetContext(ctx, &admission, query, id); err != nil {
		return nil, err
	}
	return &admission, nil
}

// Create inserts a new admission application.
func (r *AdmissionRepository) Create(ctx context.Context, admission *models.Admission) error {
	if admission.ID == "" {
		admission.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	admission.CreatedAt = now
	admission.UpdatedAt = now
	if admission.Status == "" {
		admission.Status = models.AdmissionStatusPending
	}

	query := `INSERT INTO admissions (id, first_name, last_name, grand_parent_name, gender, date_of_birth, age, nationality, fan_number, program, field, email, phone, guardian_name, guardian_phone, status, created_at, updated_at)
VALUES (:id, :first_name, :last_name, :grand_parent_name, :gender, :date_of_birth, :age, :nationality, :fan_number, :program, :field, :email, :phone, :guardian_name, :guardian_phone, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, admission); err != nil {
		return fmt.Errorf("create admission: %w", err)
	}
	return nil
}

// UpdateStatus changes an application's review status.
func (r *AdmissionRepository) UpdateStatus(ctx context.Context, id string, status models.AdmissionStatus) (bool, error) {
	res, err := r.db.ExecContext(ctx, "UPDATE admissions SET status = $2, updated_at = $3 WHERE id = $1", id, status, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("update admission status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update admission status: %w", err)
	}
	return affected > 0, nil
}

// Delete removes an application permanently.
func (r *AdmissionRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM admissions WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete admission: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete admission: %w", err)
	}
	return affected > 0, nil
}
