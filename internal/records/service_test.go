package records

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"claims-intake/internal/shared/storage/object/local"
	"claims-intake/internal/shared/telemetry"
)

type failingRepo struct {
	MemoryRepo
	err error
}

func (r *failingRepo) Insert(ctx context.Context, rec Record) (Record, error) {
	return Record{}, storageErr("insert", r.err)
}

func newTestService(t *testing.T, repo Repo) (*Service, string) {
	t.Helper()
	telemetry.SetOutput(&bytes.Buffer{})
	t.Cleanup(func() { telemetry.SetOutput(nil) })

	dir := t.TempDir()
	fixed := time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC)
	return &Service{
		Uploads: local.New(dir),
		Repo:    repo,
		Now:     func() time.Time { return fixed },
	}, dir
}

func TestUploadCreatesRecord(t *testing.T) {
	svc, dir := newTestService(t, NewMemoryRepo())

	rec, err := svc.Upload(context.Background(), UploadInput{
		Consent:  true,
		FileName: "report1.pdf",
		Body:     strings.NewReader("%PDF-1.4 not really"),
		Notes:    "follow-up",
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if rec.ID != 1 || rec.PatientID != "PAT-ort1" || rec.ProcedureCode != "PROC-REP" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.AmountClaimed.StringFixed(2) != "1137.50" || rec.ExtractionConfidence != 0.81 {
		t.Fatalf("unexpected derived fields: %+v", rec)
	}
	if !rec.Consent || rec.Notes != "follow-up" || rec.UploadedAt.Location() != time.UTC {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if _, err := os.Stat(filepath.Join(dir, "report1.pdf")); err != nil {
		t.Fatalf("expected stored file: %v", err)
	}
}

func TestUploadValidation(t *testing.T) {
	cases := []struct {
		name string
		in   UploadInput
		want error
	}{
		{"no consent", UploadInput{FileName: "a.pdf", Body: strings.NewReader("x")}, ErrConsentRequired},
		{"no consent no file", UploadInput{}, ErrConsentRequired},
		{"no file", UploadInput{Consent: true}, ErrFileRequired},
		{"blank name", UploadInput{Consent: true, FileName: "  ", Body: strings.NewReader("x")}, ErrMissingFileName},
		{"unusable name", UploadInput{Consent: true, FileName: "../..", Body: strings.NewReader("x")}, ErrInvalidFileName},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := NewMemoryRepo()
			svc, dir := newTestService(t, repo)

			_, err := svc.Upload(context.Background(), tc.in)
			if !errors.Is(err, tc.want) || !errors.Is(err, ErrValidation) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			recs, _ := repo.ListAll(context.Background())
			if len(recs) != 0 {
				t.Fatalf("rejected upload stored %d records", len(recs))
			}
			entries, _ := os.ReadDir(dir)
			if len(entries) != 0 {
				t.Fatalf("rejected upload wrote %d files", len(entries))
			}
		})
	}
}

func TestUploadSanitizesAndOverwrites(t *testing.T) {
	repo := NewMemoryRepo()
	svc, dir := newTestService(t, repo)
	ctx := context.Background()

	for _, body := range []string{"first", "second"} {
		if _, err := svc.Upload(ctx, UploadInput{
			Consent:  true,
			FileName: "../../scans/claim form.pdf",
			Body:     strings.NewReader(body),
		}); err != nil {
			t.Fatalf("Upload: %v", err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "claim_form.pdf"))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "second" {
		t.Fatalf("expected later upload to win, got %q", data)
	}
	recs, _ := repo.ListAll(ctx)
	if len(recs) != 2 || recs[0].Filename != "claim_form.pdf" || recs[1].ID != 2 {
		t.Fatalf("unexpected records: %+v", recs)
	}
}

func TestUploadDropsClientDirectory(t *testing.T) {
	repo := NewMemoryRepo()
	svc, dir := newTestService(t, repo)

	rec, err := svc.Upload(context.Background(), UploadInput{
		Consent:  true,
		FileName: `C:\Users\bob\report1.pdf`,
		Body:     strings.NewReader("scan"),
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if rec.Filename != "report1.pdf" {
		t.Fatalf("expected report1.pdf, got %q", rec.Filename)
	}
	if _, err := os.Stat(filepath.Join(dir, "report1.pdf")); err != nil {
		t.Fatalf("expected stored file: %v", err)
	}
}

func TestUploadStorageFailureKeepsFile(t *testing.T) {
	svc, dir := newTestService(t, &failingRepo{err: errors.New("database is locked")})

	_, err := svc.Upload(context.Background(), UploadInput{
		Consent:  true,
		FileName: "a.pdf",
		Body:     strings.NewReader("x"),
	})
	var serr *StorageError
	if !errors.As(err, &serr) {
		t.Fatalf("expected StorageError, got %v", err)
	}
	if errors.Is(err, ErrValidation) {
		t.Fatalf("storage failure must not look like a validation error")
	}
	if _, err := os.Stat(filepath.Join(dir, "a.pdf")); err != nil {
		t.Fatalf("expected file to remain: %v", err)
	}
}
