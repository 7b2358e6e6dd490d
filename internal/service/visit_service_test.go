package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danidan902/tullu-dimtu-school-backend/internal/models"
	appErrors "github.com/danidan902/tullu-dimtu-school-backend/pkg/errors"
)

type mockVisitRepo struct {
	visits map[string]*models.Visit
	nextID int
}

func newMockVisitRepo() *mockVisitRepo {
	return &mockVisitRepo{visits: make(map[string]*models.Visit)}
}

func (m *mockVisitRepo) List(_ context.Context, _ models.VisitFilter) ([]models.Visit, int, error) {
	var out []models.Visit
	for _, v := range m.visits {
		out = append(out, *v)
	}
	return out, len(out), nil
}

func (m *mockVisitRepo) FindByID(_ context.Context, id string) (*models.Visit, error) {
	v, ok := m.visits[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *v
	return &clone, nil
}

func (m *mockVisitRepo) Create(_ context.Context, visit *models.Visit) error {
	m.nextID++
	visit.ID = "v" + string(rune('0'+m.nextID))
	m.visits[visit.ID] = visit
	return nil
}

func (m *mockVisitRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := m.visits[id]; !ok {
		return false, nil
	}
	delete(m.visits, id)
	return true, nil
}

func validVisitRequest() CreateVisitRequest {
	return CreateVisitRequest{
		Name:             "Aster Lemma",
		Email:            "aster@example.com",
		Phone:            "+251911000000",
		Organization:     "Oromia Education Bureau",
		VisitDate:        time.Now().AddDate(0, 0, 7),
		NumberOfVisitors: 5,
		Purpose:          "educational-partner",
	}
}

func TestVisitServiceCreate(t *testing.T) {
	repo := newMockVisitRepo()
	notify := &recordingNotifier{}
	svc := NewVisitService(repo, notify, nil, nil)

	visit, err := svc.Create(context.Background(), validVisitRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, visit.ID)

	require.Len(t, notify.messages, 1)
	assert.Equal(t, "aster@example.com", notify.messages[0].ToEmail)
	assert.Equal(t, "Campus visit confirmed", notify.messages[0].Subject)
}

func TestVisitServiceCreateRejectsPastDate(t *testing.T) {
	svc := NewVisitService(newMockVisitRepo(), nil, nil, nil)

	req := validVisitRequest()
	req.VisitDate = time.Now().AddDate(0, 0, -2)
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestVisitServiceCreateVisitorBounds(t *testing.T) {
	svc := NewVisitService(newMockVisitRepo(), nil, nil, nil)

	req := validVisitRequest()
	req.NumberOfVisitors = 0
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	req = validVisitRequest()
	req.NumberOfVisitors = 51
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	req = validVisitRequest()
	req.NumberOfVisitors = 50
	_, err = svc.Create(context.Background(), req)
	assert.NoError(t, err)
}

func TestVisitServiceCreateRejectsUnknownPurpose(t *testing.T) {
	svc := NewVisitService(newMockVisitRepo(), nil, nil, nil)

	req := validVisitRequest()
	req.Purpose = "sightseeing"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestVisitServiceCreateRequiresContactFields(t *testing.T) {
	svc := NewVisitService(newMockVisitRepo(), nil, nil, nil)

	req := validVisitRequest()
	req.Email = "not-an-email"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	req = validVisitRequest()
	req.Phone = ""
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestVisitServiceGetAndDelete(t *testing.T) {
	repo := newMockVisitRepo()
	svc := NewVisitService(repo, nil, nil, nil)

	visit, err := svc.Create(context.Background(), validVisitRequest())
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), visit.ID)
	require.NoError(t, err)
	assert.Equal(t, visit.ID, got.ID)

	require.NoError(t, svc.Delete(context.Background(), visit.ID))

	_, err = svc.Get(context.Background(), visit.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	err = svc.Delete(context.Background(), visit.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
