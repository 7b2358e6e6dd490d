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

// VisitRepository manages persistence for campus visit bookings.
type VisitRepository struct {
	db *sqlx.DB
}

// NewVisitRepository constructs a VisitRepository.
func NewVisitRepository(db *sqlx.DB) *VisitRepository {
	return &VisitRepository{db: db}
}

const visitColumns = `id, name, email, phone, organization, visit_date, number_of_visitors, purpose, message, created_at`

// List returns visit bookings matching the filter, soonest visit first.
func (r *VisitRepository) List(ctx context.Context, filter models.VisitFilter) ([]models.Visit, int, error) {
	base := "FROM visits WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Purpose != "" {
		conditions = append(conditions, fmt.Sprintf("purpose = $%d", len(args)+1))
		args = append(args, filter.Purpose)
	}
	if filter.FromDate != nil {
		conditions = append(conditions, fmt.Sprintf("visit_date >= $%d", len(args)+1))
		args = append(args, *filter.FromDate)
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY visit_date ASC LIMIT %d OFFSET %d", visitColumns, base, size, offset)
	var visits []models.Visit
	if err := r.db.SelectContext(ctx, &visits, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list visits: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", base), args...); err != nil {
		return nil, 0, fmt.Errorf("count visits: %w", err)
	}
	return visits, total, nil
}

// FindByID fetches a single visit booking.
func (r *VisitRepository) FindByID(ctx context.Context, id string) (*models.Visit, error) {
	query := fmt.Sprintf("SELECT %s FROM visits WHERE id = $1", visitColumns)
	var visit models.Visit
	if err := r.db.GetContext(ctx, &visit, query, id); err != nil {
		return nil, err
	}
	return &visit, nil
}

// Create inserts a new visit booking.
func (r *VisitRepository) Create(ctx context.Context, visit *models.Visit) error {
	if visit.ID == "" {
		visit.ID = uuid.NewString()
	}
	visit.CreatedAt = time.Now().UTC()

	query := `INSERT INTO visits (id, name, email, phone, organization, visit_date, number_of_visitors, purpose, message, created_at)
VALUES (:id, :name, :email, :phone, :organization, :visit_date, :number_of_visitors, :purpose, :message, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, visit); err != nil {
		return fmt.Errorf("create visit: %w", err)
	}
	return nil
}

// Delete removes a visit booking.
func (r *VisitRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM visits WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete visit: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete visit: %w", err)
	}
	return affected > 0, nil
}
