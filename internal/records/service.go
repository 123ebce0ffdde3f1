package records

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"claims-intake/internal/extract"
	"claims-intake/internal/shared/metrics"
	"claims-intake/internal/shared/storage/object"
	"claims-intake/internal/shared/telemetry"
	"claims-intake/internal/shared/util"
)

// maxInspectBytes bounds how much of a stored upload is read back for inspection.
const maxInspectBytes = 10 << 20

// UploadInput is one submitted intake form.
type UploadInput struct {
	Consent  bool
	FileName string
	// Body is nil when the form carried no file part.
	Body  io.Reader
	Notes string
}

// Service contains the intake workflow.
type Service struct {
	Uploads object.ObjectStore
	Repo    Repo
	Now     func() time.Time
}

// Upload validates the submission, stores the file, derives the claim fields
// and appends the record. A storage failure after the file was written leaves
// the file in place without a record.
func (s *Service) Upload(ctx context.Context, in UploadInput) (Record, error) {
	if !in.Consent {
		return Record{}, ErrConsentRequired
	}
	if in.Body == nil {
		return Record{}, ErrFileRequired
	}
	if strings.TrimSpace(in.FileName) == "" {
		return Record{}, ErrMissingFileName
	}

	fileName, err := util.SanitizeFileName(in.FileName)
	if err != nil {
		if errors.Is(err, util.ErrInvalidFileName) {
			return Record{}, ErrInvalidFileName
		}
		return Record{}, err
	}

	saved, err := s.Uploads.Save(ctx, fileName, in.Body)
	if err != nil {
		return Record{}, fmt.Errorf("save upload %s: %w", fileName, err)
	}
	if saved.Replaced {
		metrics.IncUploadOverwrite()
		telemetry.Warn("upload.overwrite", map[string]any{
			"filename": fileName,
		})
	}
	s.inspect(ctx, saved)

	now := s.now()
	fields := extract.Simulate(fileName, now)

	rec := Record{
		Filename:             fileName,
		UploadedAt:           now.UTC(),
		PatientID:            fields.PatientID,
		ProcedureCode:        fields.ProcedureCode,
		AmountClaimed:        fields.AmountClaimed,
		DateOfService:        fields.DateOfService,
		ExtractionConfidence: fields.ExtractionConfidence,
		Consent:              in.Consent,
		Notes:                in.Notes,
	}

	created, err := s.Repo.Insert(ctx, rec)
	if err != nil {
		telemetry.Error("records.insert.failed", map[string]any{
			"filename": fileName,
			"err":      err,
		})
		return Record{}, err
	}
	return created, nil
}

// List returns every stored record in ascending id order.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	return s.Repo.ListAll(ctx)
}

// inspect logs what the stored file looks like. It never fails the upload.
func (s *Service) inspect(ctx context.Context, saved object.SaveResult) {
	fields := map[string]any{
		"filename":   saved.StorageKey,
		"size_bytes": saved.SizeBytes,
		"mime_type":  saved.MimeType,
	}
	defer func() { telemetry.Info("upload.saved", fields) }()

	if saved.SizeBytes > maxInspectBytes {
		return
	}
	rc, err := s.Uploads.Open(ctx, saved.StorageKey)
	if err != nil {
		fields["inspect_err"] = err.Error()
		return
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, maxInspectBytes))
	if err != nil {
		fields["inspect_err"] = err.Error()
		return
	}
	info, err := extract.Inspect(data, saved.StorageKey)
	fields["mime_type"] = info.MimeType
	if info.Pages > 0 {
		fields["pages"] = info.Pages
	}
	if err != nil {
		fields["inspect_err"] = err.Error()
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
