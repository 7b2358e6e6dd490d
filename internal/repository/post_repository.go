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

// PostRepository manages persistence for news and blog posts.
type PostRepository struct {
	db *sqlx.DB
}

// NewPostRepository constructs a PostRepository.
func NewPostRepository(db *sqlx.DB) *PostRepository {
	return &PostRepository{db: db}
}

const postColumns = `id, title, content, category, author, author_id, excerpt, status, tags, image_url, read_time, views, likes, created_at, updated_at`

// List returns posts matching the filter, newest first, with total count.
func (r *PostRepository) List(ctx context.Context, filter models.PostFilter) ([]models.Post, int, error) {
	base := "FROM posts WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)+1))
		args = append(args, filter.Category)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(title) LIKE $%d OR LOWER(content) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, search)
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", postColumns, base, size, offset)
	var posts []models.Post
	if err := r.db.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", base), args...); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}
	return posts, total, nil
}

// FindByID fetches a post by ID.
func (r *PostRepository) FindByID(ctx context.Context, id string) (*models.Post, error) {
	query := fmt.Sprintf("SELECT %s FROM posts WHERE id = $1", postColumns)
	var post models.Post
	if err := r.db.GetContext(ctx, &post, query, id); err != nil {
		return nil, err
	}
	return &post, nil
}

// Create inserts a new post.
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Status == "" {
		post.Status = models.PostStatusDraft
	}
	if post.Likes == nil {
		post.Likes = pq.StringArray{}
	}

	query := `INSERT INTO posts (id, title, content, category, author, author_id, excerpt, status, tags, image_url, read_time, views, likes, created_at, updated_at)
VALUES (:id, :title, :content, :category, :author, :author_id, :excerpt, :status, :tags, :image_url, :read_time, :views, :likes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, post); err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// Update modifies an existing post.
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	post.UpdatedAt = time.Now().UTC()
	query := `UPDATE posts SET title = :title, content = :content, category = :category, excerpt = :excerpt,
status = :status, tags = :tags, image_url = :image_url, read_time = :read_time, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, post); err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// AddLike records the user on the likes array once. Returns false when the
// user already liked the post.
func (r *PostRepository) AddLike(ctx context.Context, id, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE posts SET likes = array_append(likes, $2) WHERE id = $1 AND NOT ($2 = ANY(likes))", id, userID)
	if err != nil {
		return false, fmt.Errorf("like post: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("like post: %w", err)
	}
	return affected > 0, nil
}

// RemoveLike takes the user off the likes array.
func (r *PostRepository) RemoveLike(ctx context.Context, id, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE posts SET likes = array_remove(likes, $2) WHERE id = $1 AND $2 = ANY(likes)", id, userID)
	if err != nil {
		return false, fmt.Errorf("unlike post: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("unlike post: %w", err)
	}
	return affected > 0, nil
}

// IncrementViews bumps the view counter.
func (r *PostRepository) IncrementViews(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE posts SET views = views + 1 WHERE id = $1", id); err != nil {
		return fmt.Errorf("increment post views: %w", err)
	}
	return nil
}

// Delete removes a post.
func (r *PostRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM posts WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	return affected > 0, nil
}
