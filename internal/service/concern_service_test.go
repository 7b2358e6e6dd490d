package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danidan902/tullu-dimtu-school-backend/internal/models"
	appErrors "github.com/danidan902/tullu-dimtu-school-backend/pkg/errors"
)

type mockConcernRepo struct {
	concerns map[string]*models.Concern
	nextID   int
}

func newMockConcernRepo() *mockConcernRepo {
	return &mockConcernRepo{concerns: make(map[string]*models.Concern)}
}

func (m *mockConcernRepo) List(_ context.Context, filter models.ConcernFilter) ([]models.Concern, int, error) {
	var out []models.Concern
	for _, c := range m.concerns {
		if filter.Urgency != "" && string(c.Urgency) != filter.Urgency {
			continue
		}
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (m *mockConcernRepo) FindByID(_ context.Context, id string) (*models.Concern, error) {
	c, ok := m.concerns[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *c
	return &clone, nil
}

func (m *mockConcernRepo) Create(_ context.Context, concern *models.Concern) error {
	m.nextID++
	concern.ID = "c" + string(rune('0'+m.nextID))
	m.concerns[concern.ID] = concern
	return nil
}

func (m *mockConcernRepo) Update(_ context.Context, concern *models.Concern) error {
	m.concerns[concern.ID] = concern
	return nil
}

func (m *mockConcernRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := m.concerns[id]; !ok {
		return false, nil
	}
	delete(m.concerns, id)
	return true, nil
}

func (m *mockConcernRepo) Stats(_ context.Context) (*models.ConcernStats, error) {
	stats := &models.ConcernStats{}
	for _, c := range m.concerns {
		stats.Total++
		switch c.Urgency {
		case models.ConcernUrgencyLow:
			stats.Low++
		case models.ConcernUrgencyMedium:
			stats.Medium++
		case models.ConcernUrgencyHigh:
			stats.High++
		}
	}
	return stats, nil
}

func validConcernRequest() CreateConcernRequest {
	return CreateConcernRequest{
		Name:      "Tolessa Gemechu",
		StudentID: "TD-2026-041",
		Concern:   "Struggling to follow mathematics lessons",
	}
}

func TestConcernServiceCreateDefaultsUrgency(t *testing.T) {
	repo := newMockConcernRepo()
	svc := NewConcernService(repo, nil, nil)

	concern, err := svc.Create(context.Background(), validConcernRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, concern.ID)
	assert.Equal(t, models.ConcernUrgencyMedium, concern.Urgency)
}

func TestConcernServiceCreateValidation(t *testing.T) {
	repo := newMockConcernRepo()
	svc := NewConcernService(repo, nil, nil)

	req := validConcernRequest()
	req.StudentID = ""
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	req = validConcernRequest()
	req.Urgency = "critical"
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	assert.Empty(t, repo.concerns)
}

func TestConcernServiceUpdate(t *testing.T) {
	repo := newMockConcernRepo()
	svc := NewConcernService(repo, nil, nil)

	concern, err := svc.Create(context.Background(), validConcernRequest())
	require.NoError(t, err)

	details := "Wants a weekly tutoring slot"
	updated, err := svc.Update(context.Background(), concern.ID, UpdateConcernRequest{
		Urgency: "high",
		Details: &details,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ConcernUrgencyHigh, updated.Urgency)
	require.NotNil(t, updated.Details)
	assert.Equal(t, details, *updated.Details)
	// Untouched fields survive a partial update.
	assert.Equal(t, "Struggling to follow mathematics lessons", updated.Concern)

	_, err = svc.Update(context.Background(), concern.ID, UpdateConcernRequest{Urgency: "whenever"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Update(context.Background(), "missing", UpdateConcernRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestConcernServiceStats(t *testing.T) {
	repo := newMockConcernRepo()
	svc := NewConcernService(repo, nil, nil)

	for _, urgency := range []string{"low", "medium", "medium", "high"} {
		req := validConcernRequest()
		req.Urgency = urgency
		_, err := svc.Create(context.Background(), req)
		require.NoError(t, err)
	}

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 1, stats.Low)
	assert.Equal(t, 2, stats.Medium)
	assert.Equal(t, 1, stats.High)
}

func TestConcernServiceDelete(t *testing.T) {
	repo := newMockConcernRepo()
	svc := NewConcernService(repo, nil, nil)

	concern, err := svc.Create(context.Background(), validConcernRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), concern.ID))

	err = svc.Delete(context.Background(), concern.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
