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
	"github.com/danidan902/tullu-dimtu-school-backend/pkg/storage"
)

type mockMaterialRepo struct {
	materials map[string]*models.Material
	nextID    int
}

func newMockMaterialRepo() *mockMaterialRepo {
	return &mockMaterialRepo{materials: make(map[string]*models.Material)}
}

func (m *mockMaterialRepo) List(_ context.Context, _ models.MaterialFilter) ([]models.Material, int, error) {
	var out []models.Material
	for _, mat := range m.materials {
		out = append(out, *mat)
	}
	return out, len(out), nil
}

func (m *mockMaterialRepo) FindByID(_ context.Context, id string) (*models.Material, error) {
	mat, ok := m.materials[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *mat
	return &clone, nil
}

func (m *mockMaterialRepo) Create(_ context.Context, material *models.Material) error {
	m.nextID++
	material.ID = "m" + string(rune('0'+m.nextID))
	m.materials[material.ID] = material
	return nil
}

func (m *mockMaterialRepo) IncrementViews(_ context.Context, id string) error {
	if mat, ok := m.materials[id]; ok {
		mat.Views++
	}
	return nil
}

func (m *mockMaterialRepo) IncrementDownloads(_ context.Context, id string) error {
	if mat, ok := m.materials[id]; ok {
		mat.Downloads++
	}
	return nil
}

func (m *mockMaterialRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := m.materials[id]; !ok {
		return false, nil
	}
	delete(m.materials, id)
	return true, nil
}

func (m *mockMaterialRepo) Stats(_ context.Context) (*models.MaterialStats, error) {
	stats := &models.MaterialStats{}
	for _, mat := range m.materials {
		stats.TotalMaterials++
		stats.TotalViews += mat.Views
		stats.TotalDownloads += mat.Downloads
	}
	return stats, nil
}

type mockFileStore struct {
	files map[string]*models.StoredFile
}

func (m *mockFileStore) FindByID(_ context.Context, id string) (*models.StoredFile, error) {
	file, ok := m.files[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return file, nil
}

func newMaterialService(t *testing.T) (*MaterialService, *mockMaterialRepo, *mockFileStore) {
	t.Helper()
	repo := newMockMaterialRepo()
	files := &mockFileStore{files: map[string]*models.StoredFile{
		"f1": {ID: "f1", OriginalName: "physics-unit-3.pdf", StoredPath: "2026/08/f1.pdf", MimeType: "application/pdf"},
	}}
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	return NewMaterialService(repo, files, signer, nil, nil), repo, files
}

func validMaterialRequest() CreateMaterialRequest {
	return CreateMaterialRequest{
		Title:       "Physics Unit 3 Notes",
		Description: "Motion in one dimension",
		Subject:     "Physics",
		Grade:       "11th Grade",
		Tags:        []string{"mechanics", "kinematics"},
		FileID:      "f1",
		FileName:    "physics-unit-3.pdf",
		FileType:    "pdf",
	}
}

func TestMaterialServiceCreate(t *testing.T) {
	svc, _, _ := newMaterialService(t)

	material, err := svc.Create(context.Background(), validMaterialRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, material.ID)
	assert.Equal(t, "lecture", material.Category)
	assert.True(t, material.IsPublic)
	require.NotNil(t, material.MimeType)
	assert.Equal(t, "application/pdf", *material.MimeType)
}

func TestMaterialServiceCreateValidation(t *testing.T) {
	svc, repo, _ := newMaterialService(t)

	req := validMaterialRequest()
	req.Title = ""
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	req = validMaterialRequest()
	req.Category = "podcast"
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	assert.Empty(t, repo.materials)
}

func TestMaterialServiceCreateUnknownFile(t *testing.T) {
	svc, _, _ := newMaterialService(t)

	req := validMaterialRequest()
	req.FileID = "missing"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestMaterialServiceGetBumpsViews(t *testing.T) {
	svc, repo, _ := newMaterialService(t)

	material, err := svc.Create(context.Background(), validMaterialRequest())
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), material.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Views)
	assert.Equal(t, 1, repo.materials[material.ID].Views)

	_, err = svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestMaterialServiceDownloadLink(t *testing.T) {
	svc, repo, _ := newMaterialService(t)

	material, err := svc.Create(context.Background(), validMaterialRequest())
	require.NoError(t, err)

	download, err := svc.DownloadLink(context.Background(), material.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, download.Token)
	assert.Equal(t, 1, download.Material.Downloads)
	assert.Equal(t, 1, repo.materials[material.ID].Downloads)

	_, err = svc.DownloadLink(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestMaterialServiceDownloadLinkMissingFile(t *testing.T) {
	svc, _, files := newMaterialService(t)

	material, err := svc.Create(context.Background(), validMaterialRequest())
	require.NoError(t, err)

	delete(files.files, "f1")
	_, err = svc.DownloadLink(context.Background(), material.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestMaterialServiceStats(t *testing.T) {
	svc, repo, _ := newMaterialService(t)

	material, err := svc.Create(context.Background(), validMaterialRequest())
	require.NoError(t, err)
	repo.materials[material.ID].Views = 4
	repo.materials[material.ID].Downloads = 2

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalMaterials)
	assert.Equal(t, 4, stats.TotalViews)
	assert.Equal(t, 2, stats.TotalDownloads)
}

func TestMaterialServiceDelete(t *testing.T) {
	svc, _, _ := newMaterialService(t)

	material, err := svc.Create(context.Background(), validMaterialRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), material.ID))

	err = svc.Delete(context.Background(), material.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
