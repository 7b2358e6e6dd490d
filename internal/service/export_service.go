package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/danidan902/tullu-dimtu-school-backend/internal/models"
	appErrors "github.com/danidan902/tullu-dimtu-school-backend/pkg/errors"
	"github.com/danidan902/tullu-dimtu-school-backend/pkg/export"
	"github.com/danidan902/tullu-dimtu-school-backend/pkg/storage"
)

// Export formats and resources accepted by the export endpoints.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"

	ExportResourceAdmissions    = "admissions"
	ExportResourceVisits        = "visits"
	ExportResourceRegistrations = "registrations"
	ExportResourceTeachers      = "teachers"
)

// ExportResult describes a rendered export and its signed download link.
type ExportResult struct {
	FileID    string    `json:"file_id"`
	FileName  string    `json:"file_name"`
	Format    string    `json:"format"`
	RowCount  int       `json:"row_count"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ExportService renders administrative datasets to CSV or PDF files and hands
// out signed, expiring download tokens.
type ExportService struct {
	admissions    AdmissionRepo
	visits        VisitRepo
	registrations RegistrationRepo
	teachers      TeacherRepo

	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	store  *storage.LocalStorage
	signer *storage.SignedURLSigner
	logger *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(
	admissions AdmissionRepo,
	visits VisitRepo,
	registrations RegistrationRepo,
	teachers TeacherRepo,
	store *storage.LocalStorage,
	signer *storage.SignedURLSigner,
	logger *zap.Logger,
) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		admissions:    admissions,
		visits:        visits,
		registrations: registrations,
		teachers:      teachers,
		csv:           export.NewCSVExporter(),
		pdf:           export.NewPDFExporter(),
		store:         store,
		signer:        signer,
		logger:        logger,
	}
}

// Export renders the named resource in the requested format.
func (s *ExportService) Export(ctx context.Context, resource, format string) (*ExportResult, error) {
	format = strings.ToLower(format)
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	var (
		data  export.Dataset
		title string
		err   error
	)
	switch resource {
	case ExportResourceAdmissions:
		data, err = s.admissionDataset(ctx)
		title = "Admission Applications"
	case ExportResourceVisits:
		data, err = s.visitDataset(ctx)
		title = "Campus Visits"
	case ExportResourceRegistrations:
		data, err = s.registrationDataset(ctx)
		title = "Program Registrations"
	case ExportResourceTeachers:
		data, err = s.teacherDataset(ctx)
		title = "Staff Directory"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown export resource")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to collect export data")
	}

	var rendered []byte
	if format == ExportFormatCSV {
		rendered, err = s.csv.Render(data)
	} else {
		rendered, err = s.pdf.Render(data, title)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	fileID := uuid.NewString()
	fileName := fmt.Sprintf("%s-%s.%s", resource, time.Now().UTC().Format("20060102-150405"), format)
	relPath := fmt.Sprintf("%s/%s", resource, fileName)

	if _, err := s.store.Save(relPath, rendered); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}

	token, expiresAt, err := s.signer.Generate(fileID, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download link")
	}

	s.logger.Info("export rendered",
		zap.String("resource", resource),
		zap.String("format", format),
		zap.Int("rows", len(data.Rows)),
	)

	return &ExportResult{
		FileID:    fileID,
		FileName:  fileName,
		Format:    format,
		RowCount:  len(data.Rows),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// ResolveDownload validates a token and returns the stored file path and name.
func (s *ExportService) ResolveDownload(token string) (relPath, fileName string, err error) {
	_, relPath, _, err = s.signer.Parse(token, false)
	if err != nil {
		return "", "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download link")
	}
	parts := strings.Split(relPath, "/")
	return relPath, parts[len(parts)-1], nil
}

// OpenStored returns a handle to a previously rendered export.
func (s *ExportService) OpenStored(relPath string) (*os.File, error) {
	return s.store.Open(relPath)
}

func (s *ExportService) admissionDataset(ctx context.Context) (export.Dataset, error) {
	rows, _, err := s.admissions.List(ctx, models.AdmissionFilter{Page: 1, PageSize: 100})
	if err != nil {
		return export.Dataset{}, err
	}
	data := export.Dataset{
		Headers: []string{"ID", "Name", "Gender", "Age", "Program", "Field", "Status", "Submitted"},
	}
	for _, a := range rows {
		data.Rows = append(data.Rows, map[string]string{
			"ID":        a.ID,
			"Name":      strings.TrimSpace(a.FirstName + " " + a.LastName),
			"Gender":    a.Gender,
			"Age":       strconv.Itoa(a.Age),
			"Program":   a.Program,
			"Field":     a.Field,
			"Status":    string(a.Status),
			"Submitted": a.CreatedAt.Format(time.RFC3339),
		})
	}
	return data, nil
}

func (s *ExportService) visitDataset(ctx context.Context) (export.Dataset, error) {
	rows, _, err := s.visits.List(ctx, models.VisitFilter{Page: 1, PageSize: 100})
	if err != nil {
		return export.Dataset{}, err
	}
	data := export.Dataset{
		Headers: []string{"ID", "Name", "Email", "Date", "Visitors", "Purpose"},
	}
	for _, v := range rows {
		data.Rows = append(data.Rows, map[string]string{
			"ID":       v.ID,
			"Name":     v.Name,
			"Email":    v.Email,
			"Date":     v.VisitDate.Format("2006-01-02"),
			"Visitors": strconv.Itoa(v.NumberOfVisitors),
			"Purpose":  v.Purpose,
		})
	}
	return data, nil
}

func (s *ExportService) registrationDataset(ctx context.Context) (export.Dataset, error) {
	rows, _, err := s.registrations.List(ctx, models.RegistrationFilter{Page: 1, PageSize: 100})
	if err != nil {
		return export.Dataset{}, err
	}
	data := export.Dataset{
		Headers: []string{"ID", "Name", "Phone", "Grade", "Role", "Program", "Day"},
	}
	for _, r := range rows {
		data.Rows = append(data.Rows, map[string]string{
			"ID":      r.ID,
			"Name":    r.FullName,
			"Phone":   r.Phone,
			"Grade":   r.Grade,
			"Role":    r.Role,
			"Program": r.Program,
			"Day":     r.Day.Format("2006-01-02"),
		})
	}
	return data, nil
}

func (s *ExportService) teacherDataset(ctx context.Context) (export.Dataset, error) {
	rows, _, err := s.teachers.List(ctx, models.TeacherFilter{Page: 1, PageSize: 100})
	if err != nil {
		return export.Dataset{}, err
	}
	data := export.Dataset{
		Headers: []string{"ID", "Name", "Email", "Department", "Position", "Status"},
	}
	for _, t := range rows {
		data.Rows = append(data.Rows, map[string]string{
			"ID":         t.ID,
			"Name":       t.FullName,
			"Email":      t.Email,
			"Department": deref(t.Department),
			"Position":   deref(t.Position),
			"Status":     string(t.Status),
		})
	}
	return data, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
