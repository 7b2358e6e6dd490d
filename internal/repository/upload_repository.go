package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/danidan902/tullu-dimtu-school-backend/internal/models"
)

// UploadRepository tracks metadata for files kept in blob storage.
type UploadRepository struct {
	db *sqlx.DB
}

// NewUploadRepository constructs an UploadRepository.
func NewUploadRepository(db *sqlx.DB) *UploadRepository {
	return &UploadRepository{db: db}
}

const uploadColumns = `id, original_name, stored_path, mime_type, size_bytes, uploaded_by, created_at`

// Create records metadata for a stored file.
func (r *UploadRepository) Create(ctx context.Context, file *models.StoredFile) error {
	file.CreatedAt = time.Now().UTC()
	query := `INSERT INTO uploads (id, original_name, stored_path, mime_type, size_bytes, uploaded_by, created_at)
VALUES (:id, :original_name, :stored_path, :mime_type, :size_bytes, :uploaded_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, file); err != nil {
		return fmt.Errorf("create upload: %w", err)
	}
	return nil
}

// FindByID fetches stored-file metadata by ID.
func (r *UploadRepository) FindByID(ctx context.Context, id string) (*models.StoredFile, error) {
	query := fmt.Sprintf("SELECT %s FROM uploads WHERE id = $1", uploadColumns)
	var file models.StoredFile
	if err := r.db.GetContext(ctx, &file, query, id); err != nil {
		return nil, err
	}
	return &file, nil
}

// List returns stored-file metadata, newest first.
func (r *UploadRepository) List(ctx context.Context, limit, offset int) ([]models.StoredFile, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := fmt.Sprintf("SELECT %s FROM uploads ORDER BY created_at DESC LIMIT $1 OFFSET $2", uploadColumns)
	var files []models.StoredFile
	if err := r.db.SelectContext(ctx, &files, query, limit, offset); err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	return files, nil
}

// Delete removes stored-file metadata.
func (r *UploadRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM uploads WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete upload: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete upload: %w", err)
	}
	return affected > 0, nil
}
