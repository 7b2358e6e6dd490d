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
	"github.com/danidan902/tullu-dimtu-school-backend/pkg/mailer"
)

type mockAdmissionRepo struct {
	admissions map[string]*models.Admission
	nextID     int
}

func newMockAdmissionRepo() *mockAdmissionRepo {
	return &mockAdmissionRepo{admissions: make(map[string]*models.Admission)}
}

func (m *mockAdmissionRepo) List(_ context.Context, _ models.AdmissionFilter) ([]models.Admission, int, error) {
	var out []models.Admission
	for _, a := range m.admissions {
		out = append(out, *a)
	}
	return out, len(out), nil
}

func (m *mockAdmissionRepo) FindByID(_ context.Context, id string) (*models.Admission, error) {
	a, ok := m.admissions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *a
	return &clone, nil
}

func (m *mockAdmissionRepo) Create(_ context.Context, admission *models.Admission) error {
	m.nextID++
	admission.ID = "a" + string(rune('0'+m.nextID))
	m.admissions[admission.ID] = admission
	return nil
}

func (m *mockAdmissionRepo) UpdateStatus(_ context.Context, id string, status models.AdmissionStatus) (bool, error) {
	a, ok := m.admissions[id]
	if !ok {
		return false, nil
	}
	a.Status = status
	return true, nil
}

func (m *mockAdmissionRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := m.admissions[id]; !ok {
		return false, nil
	}
	delete(m.admissions, id)
	return true, nil
}

type recordingNotifier struct {
	messages []mailer.Message
}

func (n *recordingNotifier) Enqueue(msg mailer.Message) {
	n.messages = append(n.messages, msg)
}

func validAdmissionRequest() CreateAdmissionRequest {
	email := "kebede@example.com"
	return CreateAdmissionRequest{
		FirstName:       "Kebede",
		LastName:        "Alemu",
		GrandParentName: "Tesfaye",
		Gender:          "male",
		DateOfBirth:     time.Date(2010, 9, 1, 0, 0, 0, 0, time.UTC),
		Age:             15,
		Nationality:     "Ethiopian",
		FanNumber:       "FAN-12345",
		Program:         "Natural Science",
		Field:           "Grade 11",
		Email:           &email,
	}
}

func TestAdmissionServiceCreate(t *testing.T) {
	repo := newMockAdmissionRepo()
	notify := &recordingNotifier{}
	svc := NewAdmissionService(repo, notify, nil, nil)

	admission, err := svc.Create(context.Background(), validAdmissionRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, admission.ID)
	assert.Equal(t, models.AdmissionStatusPending, admission.Status)

	require.Len(t, notify.messages, 1)
	assert.Equal(t, "kebede@example.com", notify.messages[0].ToEmail)
	assert.Equal(t, "Admission application received", notify.messages[0].Subject)
}

func TestAdmissionServiceCreateWithoutEmailSkipsNotification(t *testing.T) {
	repo := newMockAdmissionRepo()
	notify := &recordingNotifier{}
	svc := NewAdmissionService(repo, notify, nil, nil)

	req := validAdmissionRequest()
	req.Email = nil
	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, notify.messages)
}

func TestAdmissionServiceCreateValidation(t *testing.T) {
	svc := NewAdmissionService(newMockAdmissionRepo(), nil, nil, nil)

	req := validAdmissionRequest()
	req.Age = 2
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	req = validAdmissionRequest()
	req.FirstName = ""
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAdmissionServiceUpdateStatusSendsDecision(t *testing.T) {
	repo := newMockAdmissionRepo()
	notify := &recordingNotifier{}
	svc := NewAdmissionService(repo, notify, nil, nil)

	admission, err := svc.Create(context.Background(), validAdmissionRequest())
	require.NoError(t, err)
	notify.messages = nil

	updated, err := svc.UpdateStatus(context.Background(), admission.ID, models.AdmissionStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.AdmissionStatusAccepted, updated.Status)
	require.Len(t, notify.messages, 1)
	assert.Equal(t, "Admission decision", notify.messages[0].Subject)
	assert.Contains(t, notify.messages[0].TextBody, "was accepted")

	notify.messages = nil
	_, err = svc.UpdateStatus(context.Background(), admission.ID, models.AdmissionStatusRejected)
	require.NoError(t, err)
	require.Len(t, notify.messages, 1)
	assert.Contains(t, notify.messages[0].TextBody, "was not accepted")
}

func TestAdmissionServiceUpdateStatusRejectsUnknownValue(t *testing.T) {
	svc := NewAdmissionService(newMockAdmissionRepo(), nil, nil, nil)

	_, err := svc.UpdateStatus(context.Background(), "a1", models.AdmissionStatus("maybe"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAdmissionServiceUpdateStatusNotFound(t *testing.T) {
	svc := NewAdmissionService(newMockAdmissionRepo(), nil, nil, nil)

	_, err := svc.UpdateStatus(context.Background(), "missing", models.AdmissionStatusAccepted)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAdmissionServiceDelete(t *testing.T) {
	repo := newMockAdmissionRepo()
	svc := NewAdmissionService(repo, nil, nil, nil)

	admission, err := svc.Create(context.Background(), validAdmissionRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), admission.ID))

	err = svc.Delete(context.Background(), admission.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
