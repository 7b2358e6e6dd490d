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

// ConcernRepository manages persistence for student counselling requests.
type ConcernRepository struct {
	db *sqlx.DB
}

// NewConcernRepository constructs a ConcernRepository.
func NewConcernRepository(db *sqlx.DB) *ConcernRepository {
	return &ConcernRepository{db: db}
}

const concernColumns = `id, name, student_id, concern, urgency, details, created_at, updated_at`

// List returns concerns matching the filter, newest first.
func (r *ConcernRepository) List(ctx context.Context, filter models.ConcernFilter) ([]models.Concern, int, error) {
	base := "FROM concerns WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Urgency != "" {
		conditions = append(conditions, fmt.Sprintf("urgency = $%d", len(args)+1))
		args = append(args, filter.Urgency)
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", concernColumns, base, size, offset)
	var concerns []models.Concern
	if err := r.db.SelectContext(ctx, &concerns, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list concerns: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", base), args...); err != nil {
		return nil, 0, fmt.Errorf("count concerns: %w", err)
	}
	return concerns, total, nil
}

// FindByID fetches a single concern.
func (r *ConcernRepository) FindByID(ctx context.Context, id string) (*models.Concern, error) {
	query := fmt.Sprintf("SELECT %s FROM concerns WHERE id = $1", concernColumns)
	var concern models.Concern
	if err := r.db.GetContext(ctx, &concern, query, id); err != nil {
		return nil, err
	}
	return &concern, nil
}

// Create inserts a new concern.
func (r *ConcernRepository) Create(ctx context.Context, concern *models.Concern) error {
	if concern.ID == "" {
		concern.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	concern.CreatedAt = now
	concern.UpdatedAt = now

	query := `INSERT INTO concerns (id, name, student_id, concern, urgency, details, created_at, updated_at)
VALUES (:id, :name, :student_id, :concern, :urgency, :details, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, concern); err != nil {
		return fmt.Errorf("create concern: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of a concern.
func (r *ConcernRepository) Update(ctx context.Context, concern *models.Concern) error {
	concern.UpdatedAt = time.Now().UTC()
	query := `UPDATE concerns SET concern = :concern, urgency = :urgency, details = :details, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, concern); err != nil {
		return fmt.Errorf("update concern: %w", err)
	}
	return nil
}

// Delete removes a concern.
func (r *ConcernRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM concerns WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete concern: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete concern: %w", err)
	}
	return affected > 0, nil
}

// Stats counts concerns per urgency level.
func (r *ConcernRepository) Stats(ctx context.Context) (*models.ConcernStats, error) {
	rows := []struct {
		Urgency string `db:"urgency"`
		Count   int    `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, "SELECT urgency, COUNT(*) AS count FROM concerns GROUP BY urgency"); err != nil {
		return nil, fmt.Errorf("concern stats: %w", err)
	}

	stats := &models.ConcernStats{}
	for _, row := range rows {
		stats.Total += row.Count
		switch models.ConcernUrgency(row.Urgency) {
		case models.ConcernUrgencyLow:
			stats.Low = row.Count
		case models.ConcernUrgencyMedium:
			stats.Medium = row.Count
		case models.ConcernUrgencyHigh:
			stats.High = row.Count
		}
	}
	return stats, nil
}
