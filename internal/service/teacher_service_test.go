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

type mockTeacherRepo struct {
	teachers    map[string]*models.Teacher
	deactivated []string
	nextID      int
}

func newMockTeacherRepo() *mockTeacherRepo {
	return &mockTeacherRepo{teachers: make(map[string]*models.Teacher)}
}

func (m *mockTeacherRepo) List(_ context.Context, _ models.TeacherFilter) ([]models.Teacher, int, error) {
	var out []models.Teacher
	for _, t := range m.teachers {
		out = append(out, *t)
	}
	return out, len(out), nil
}

func (m *mockTeacherRepo) FindByID(_ context.Context, id string) (*models.Teacher, error) {
	t, ok := m.teachers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *t
	return &clone, nil
}

func (m *mockTeacherRepo) ExistsByEmail(_ context.Context, email, excludeID string) (bool, error) {
	for id, t := range m.teachers {
		if t.Email == email && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockTeacherRepo) Create(_ context.Context, teacher *models.Teacher) error {
	m.nextID++
	teacher.ID = "t" + string(rune('0'+m.nextID))
	m.teachers[teacher.ID] = teacher
	return nil
}

func (m *mockTeacherRepo) Update(_ context.Context, teacher *models.Teacher) error {
	m.teachers[teacher.ID] = teacher
	return nil
}

func (m *mockTeacherRepo) Deactivate(_ context.Context, id string) error {
	m.deactivated = append(m.deactivated, id)
	return nil
}

func TestTeacherServiceCreate(t *testing.T) {
	repo := newMockTeacherRepo()
	svc := NewTeacherService(repo, nil, nil)

	teacher, err := svc.Create(context.Background(), CreateTeacherRequest{
		FullName: "Abebe Kebede",
		Email:    "abebe@tulludimtu.edu.et",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, teacher.ID)
	assert.Equal(t, models.TeacherStatusActive, teacher.Status)
}

func TestTeacherServiceCreateRejectsDuplicateEmail(t *testing.T) {
	repo := newMockTeacherRepo()
	svc := NewTeacherService(repo, nil, nil)

	_, err := svc.Create(context.Background(), CreateTeacherRequest{FullName: "A", Email: "abebe@tulludimtu.edu.et"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateTeacherRequest{FullName: "B", Email: "abebe@tulludimtu.edu.et"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestTeacherServiceCreateValidatesEmail(t *testing.T) {
	svc := NewTeacherService(newMockTeacherRepo(), nil, nil)

	_, err := svc.Create(context.Background(), CreateTeacherRequest{FullName: "A", Email: "not-an-email"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTeacherServiceGetNotFound(t *testing.T) {
	svc := NewTeacherService(newMockTeacherRepo(), nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTeacherServiceUpdateAllowsOwnEmail(t *testing.T) {
	repo := newMockTeacherRepo()
	svc := NewTeacherService(repo, nil, nil)

	created, err := svc.Create(context.Background(), CreateTeacherRequest{FullName: "A", Email: "abebe@tulludimtu.edu.et"})
	require.NoError(t, err)

	dep := "Science"
	updated, err := svc.Update(context.Background(), created.ID, CreateTeacherRequest{
		FullName:   "Abebe Kebede",
		Email:      "abebe@tulludimtu.edu.et",
		Department: &dep,
	})
	require.NoError(t, err)
	assert.Equal(t, "Abebe Kebede", updated.FullName)
	require.NotNil(t, updated.Department)
	assert.Equal(t, "Science", *updated.Department)
}

func TestTeacherServiceDeactivate(t *testing.T) {
	repo := newMockTeacherRepo()
	svc := NewTeacherService(repo, nil, nil)

	created, err := svc.Create(context.Background(), CreateTeacherRequest{FullName: "A", Email: "abebe@tulludimtu.edu.et"})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(context.Background(), created.ID))
	assert.Equal(t, []string{created.ID}, repo.deactivated)

	err = svc.Deactivate(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
