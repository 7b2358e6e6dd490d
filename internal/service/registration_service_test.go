package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danidan902/tullu-dimtu-school-backend/internal/models"
	appErrors "github.com/danidan902/tullu-dimtu-school-backend/pkg/errors"
)

type mockRegistrationRepo struct {
	registrations map[string]*models.Registration
	nextID        int
}

func newMockRegistrationRepo() *mockRegistrationRepo {
	return &mockRegistrationRepo{registrations: make(map[string]*models.Registration)}
}

func (m *mockRegistrationRepo) List(_ context.Context, _ models.RegistrationFilter) ([]models.Registration, int, error) {
	var out []models.Registration
	for _, r := range m.registrations {
		out = append(out, *r)
	}
	return out, len(out), nil
}

func (m *mockRegistrationRepo) Create(_ context.Context, registration *models.Registration) error {
	m.nextID++
	registration.ID = "r" + string(rune('0'+m.nextID))
	m.registrations[registration.ID] = registration
	return nil
}

func (m *mockRegistrationRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := m.registrations[id]; !ok {
		return false, nil
	}
	delete(m.registrations, id)
	return true, nil
}

func validRegistrationRequest() CreateRegistrationRequest {
	email := "bontu@example.com"
	return CreateRegistrationRequest{
		FullName: "Bontu Fikadu",
		Phone:    "+251922000000",
		Email:    &email,
		Day:      time.Now().AddDate(0, 0, 14),
		Grade:    "10th Grade",
		Role:     "Student",
		Program:  "STEM Program",
	}
}

func TestRegistrationServiceCreate(t *testing.T) {
	repo := newMockRegistrationRepo()
	notify := &recordingNotifier{}
	svc := NewRegistrationService(repo, notify, nil, nil)

	registration, err := svc.Create(context.Background(), validRegistrationRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, registration.ID)

	require.Len(t, notify.messages, 1)
	assert.Equal(t, "bontu@example.com", notify.messages[0].ToEmail)
	assert.Equal(t, "Program registration confirmed", notify.messages[0].Subject)
}

func TestRegistrationServiceCreateWithoutEmailSkipsNotification(t *testing.T) {
	repo := newMockRegistrationRepo()
	notify := &recordingNotifier{}
	svc := NewRegistrationService(repo, notify, nil, nil)

	req := validRegistrationRequest()
	req.Email = nil
	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, notify.messages)
}

func TestRegistrationServiceCreateRejectsUnknownEnums(t *testing.T) {
	svc := NewRegistrationService(newMockRegistrationRepo(), nil, nil, nil)

	req := validRegistrationRequest()
	req.Grade = "13th Grade"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	req = validRegistrationRequest()
	req.Role = "Janitor"
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	req = validRegistrationRequest()
	req.Program = "Space Program"
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRegistrationServiceCreateRequiredFields(t *testing.T) {
	repo := newMockRegistrationRepo()
	svc := NewRegistrationService(repo, nil, nil, nil)

	req := validRegistrationRequest()
	req.FullName = ""
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	bad := "not-an-email"
	req = validRegistrationRequest()
	req.Email = &bad
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	assert.Empty(t, repo.registrations)
}

func TestRegistrationServiceDelete(t *testing.T) {
	repo := newMockRegistrationRepo()
	svc := NewRegistrationService(repo, nil, nil, nil)

	registration, err := svc.Create(context.Background(), validRegistrationRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), registration.ID))

	err = svc.Delete(context.Background(), registration.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
