package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/danidan902/tullu-dimtu-school-backend/internal/models"
)

// MaterialRepository manages persistence for the study material library.
type MaterialRepository struct {
	db *sqlx.DB
}

// NewMaterialRepository constructs a MaterialRepository.
func NewMaterialRepository(db *sqlx.DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

const materialColumns = `id, title, description, subject, grade, category, tags, is_public, file_id, file_name, file_type, mime_type, views, downloads, uploaded_at`

// List returns materials matching the filter, newest upload first.
func (r *MaterialRepository) List(ctx context.Context, filter models.MaterialFilter) ([]models.Material, int, error) {
	base := "FROM materials WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Subject != "" {
		conditions = append(conditions, fmt.Sprintf("subject = $%d", len(args)+1))
		args = append(args, filter.Subject)
	}
	if filter.Grade != "" {
		conditions = append(conditions, fmt.Sprintf("grade = $%d", len(args)+1))
		args = append(args, filter.Grade)
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)+1))
		args = append(args, filter.Category)
	}
	if filter.Search != "" {
		n := len(args) + 1
		conditions = append(conditions, fmt.Sprintf(
			"(title ILIKE $%d OR description ILIKE $%d OR subject ILIKE $%d OR EXISTS (SELECT 1 FROM unnest(tags) tag WHERE tag ILIKE $%d))",
			n, n, n, n))
		args = append(args, "%"+filter.Search+"%")
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY uploaded_at DESC LIMIT %d OFFSET %d", materialColumns, base, size, offset)
	var materials []models.Material
	if err := r.db.SelectContext(ctx, &materials, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list materials: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", base), args...); err != nil {
		return nil, 0, fmt.Errorf("count materials: %w", err)
	}
	return materials, total, nil
}

// FindByID fetches a single material.
func (r *MaterialRepository) FindByID(ctx context.Context, id string) (*models.Material, error) {
	query := fmt.Sprintf("SELECT %s FROM materials WHERE id = $1", materialColumns)
	var material models.Material
	if err := r.db.GetContext(ctx, &material, query, id); err != nil {
		return nil, err
	}
	return &material, nil
}

// Create inserts a new material.
func (r *MaterialRepository) Create(ctx context.Context, material *models.Material) error {
	if material.ID == "" {
		material.ID = uuid.NewString()
	}
	if material.Tags == nil {
		material.Tags = pq.StringArray{}
	}
	material.UploadedAt = time.Now().UTC()

	query := `INSERT INTO materials (id, title, description, subject, grade, category, tags, is_public, file_id, file_name, file_type, mime_type, views, downloads, uploaded_at)
VALUES (:id, :title, :description, :subject, :grade, :category, :tags, :is_public, :file_id, :file_name, :file_type, :mime_type, :views, :downloads, :uploaded_at)`
	if _, err := r.db.NamedExecContext(ctx, query, material); err != nil {
		return fmt.Errorf("create material: %w", err)
	}
	return nil
}

// IncrementViews bumps the view counter.
func (r *MaterialRepository) IncrementViews(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE materials SET views = views + 1 WHERE id = $1", id); err != nil {
		return fmt.Errorf("increment material views: %w", err)
	}
	return nil
}

// IncrementDownloads bumps the download counter.
func (r *MaterialRepository) IncrementDownloads(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE materials SET downloads = downloads + 1 WHERE id = $1", id); err != nil {
		return fmt.Errorf("increment material downloads: %w", err)
	}
	return nil
}

// Delete removes a material.
func (r *MaterialRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM materials WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete material: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete material: %w", err)
	}
	return affected > 0, nil
}

// Stats aggregates library counters in a single query.
func (r *MaterialRepository) Stats(ctx context.Context) (*models.MaterialStats, error) {
	query := `SELECT COUNT(*) AS total_materials, COALESCE(SUM(views), 0) AS total_views, COALESCE(SUM(downloads), 0) AS total_downloads FROM materials`
	var stats models.MaterialStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("material stats: %w", err)
	}
	return &stats, nil
}
