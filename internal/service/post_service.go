package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/danidan902/tullu-dimtu-school-backend/internal/models"
	appErrors "github.com/danidan902/tullu-dimtu-school-backend/pkg/errors"
)

// PostRepo is the persistence surface the post service needs.
type PostRepo interface {
	List(ctx context.Context, filter models.PostFilter) ([]models.Post, int, error)
	FindByID(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	IncrementViews(ctx context.Context, id string) error
	AddLike(ctx context.Context, id, userID string) (bool, error)
	RemoveLike(ctx context.Context, id, userID string) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// PostCache is the read-through cache used for the published feed.
type PostCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	InvalidatePrefix(ctx context.Context, pattern string) error
}

type cachedPostList struct {
	Posts []models.Post `json:"posts"`
	Total int           `json:"total"`
}

// CreatePostRequest is the content post payload.
type CreatePostRequest struct {
	Title    string   `json:"title" validate:"required"`
	Content  string   `json:"content" validate:"required"`
	Category string   `json:"category" validate:"required"`
	Excerpt  *string  `json:"excerpt"`
	Tags     []string `json:"tags"`
	ImageURL *string  `json:"image_url"`
	Status   string   `json:"status"`
}

// PostService implements content posts with a Redis read-through cache on the
// published feed.
type PostService struct {
	repo      PostRepo
	cache     PostCache
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPostService constructs a PostService. cache may be nil to disable caching.
func NewPostService(repo PostRepo, cache PostCache, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *PostService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &PostService{repo: repo, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// List returns posts for the filter. Published-feed pages are served from
// cache when possible.
func (s *PostService) List(ctx context.Context, filter models.PostFilter) ([]models.Post, int, error) {
	cacheable := s.cache != nil &&
		filter.Search == "" &&
		filter.Status != nil && *filter.Status == models.PostStatusPublished

	var key string
	if cacheable {
		key = fmt.Sprintf("list:%s:%d:%d", filter.Category, filter.Page, filter.PageSize)
		var cached cachedPostList
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached.Posts, cached.Total, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("post cache read failed", zap.Error(err))
		}
	}

	posts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	if cacheable {
		if err := s.cache.Set(ctx, key, cachedPostList{Posts: posts, Total: total}, s.cacheTTL); err != nil {
			s.logger.Warn("post cache write failed", zap.Error(err))
		}
	}

	return posts, total, nil
}

// Get fetches one post and bumps its view counter.
func (s *PostService) Get(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "post not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch post")
	}

	if err := s.repo.IncrementViews(ctx, id); err != nil {
		s.logger.Warn("failed to increment views", zap.String("id", id), zap.Error(err))
	} else {
		post.Views++
	}

	return post, nil
}

// Create validates and stores a new post by the given author.
func (s *PostService) Create(ctx context.Context, req CreatePostRequest, author models.UserInfo) (*models.Post, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "title, content and category are required")
	}
	if !contains(models.PostCategories, req.Category) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid post category")
	}

	status := models.PostStatus(req.Status)
	switch status {
	case "":
		status = models.PostStatusDraft
	case models.PostStatusDraft, models.PostStatusPublished, models.PostStatusArchived:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid post status")
	}

	post := &models.Post{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Author:   author.FullName,
		AuthorID: author.ID,
		Excerpt:  req.Excerpt,
		Status:   status,
		Tags:     pq.StringArray(req.Tags),
		ImageURL: req.ImageURL,
		ReadTime: estimateReadTime(req.Content),
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create post")
	}

	s.invalidateFeed(ctx)
	s.logger.Info("post created", zap.String("id", post.ID), zap.String("status", string(post.Status)))
	return post, nil
}

// Update applies the request over an existing post.
func (s *PostService) Update(ctx context.Context, id string, req CreatePostRequest) (*models.Post, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "title, content and category are required")
	}

	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "post not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch post")
	}

	post.Title = req.Title
	post.Content = req.Content
	post.Category = req.Category
	post.Excerpt = req.Excerpt
	post.Tags = pq.StringArray(req.Tags)
	post.ImageURL = req.ImageURL
	post.ReadTime = estimateReadTime(req.Content)
	if req.Status != "" {
		post.Status = models.PostStatus(req.Status)
	}

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update post")
	}

	s.invalidateFeed(ctx)
	s.logger.Info("post updated", zap.String("id", post.ID))
	return post, nil
}

// ToggleLike flips the user's like on a post and reports the new state.
func (s *PostService) ToggleLike(ctx context.Context, id, userID string) (*models.Post, bool, error) {
	if userID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "user ID is required")
	}

	liked := true
	added, err := s.repo.AddLike(ctx, id, userID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to like post")
	}
	if !added {
		if _, err := s.repo.RemoveLike(ctx, id, userID); err != nil {
			return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unlike post")
		}
		liked = false
	}

	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, appErrors.Clone(appErrors.ErrNotFound, "post not found")
		}
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch post")
	}

	s.invalidateFeed(ctx)
	return post, liked, nil
}

// Delete removes a post.
func (s *PostService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete post")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "post not found")
	}

	s.invalidateFeed(ctx)
	s.logger.Info("post deleted", zap.String("id", id))
	return nil
}

func (s *PostService) invalidateFeed(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidatePrefix(ctx, "list:*"); err != nil {
		s.logger.Warn("post cache invalidation failed", zap.Error(err))
	}
}

// estimateReadTime assumes roughly 200 words per minute.
func estimateReadTime(content string) int {
	words := 0
	inWord := false
	for _, r := range content {
		if r == ' ' || r == '\n' || r == '\t' {
			inWord = false
			continue
		}
		if !inWord {
			words++
			inWord = true
		}
	}
	minutes := (words + 199) / 200
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
