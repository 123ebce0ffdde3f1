package records_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"claims-intake/internal/records"
	"claims-intake/internal/shared/storage/object"
	"claims-intake/internal/shared/storage/object/local"
)

type insertFailingRepo struct {
	*records.MemoryRepo
}

func (r insertFailingRepo) Insert(ctx context.Context, rec records.Record) (records.Record, error) {
	return records.Record{}, &records.StorageError{Op: "insert", Err: errors.New("database is locked")}
}

type saveFailingStore struct {
	object.ObjectStore
}

func (saveFailingStore) Save(ctx context.Context, fileName string, r io.Reader) (object.SaveResult, error) {
	return object.SaveResult{}, errors.New("no space left on device")
}

func newFailureRouter(t *testing.T, uploads object.ObjectStore, repo records.Repo) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	silenceLogs(t)

	router := gin.New()
	svc := &records.Service{Uploads: uploads, Repo: repo}
	records.NewHandler(svc, local.New(t.TempDir())).RegisterRoutes(router)
	return router
}

func TestUploadInsertFailureReturns500(t *testing.T) {
	uploadDir := t.TempDir()
	repo := insertFailingRepo{MemoryRepo: records.NewMemoryRepo()}
	router := newFailureRouter(t, local.New(uploadDir), repo)

	resp := postUpload(t, router, uploadForm{consent: true, fileName: "report1.pdf", content: []byte("x")})
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if resp.Body.String() != "Could not store the record" {
		t.Fatalf("unexpected body %q", resp.Body.String())
	}
	if _, err := os.Stat(filepath.Join(uploadDir, "report1.pdf")); err != nil {
		t.Fatalf("expected file to remain after failed insert: %v", err)
	}
	recs, _ := repo.ListAll(context.Background())
	if len(recs) != 0 {
		t.Fatalf("expected no records, got %d", len(recs))
	}
}

func TestUploadSaveFailureReturns500(t *testing.T) {
	repo := records.NewMemoryRepo()
	router := newFailureRouter(t, saveFailingStore{}, repo)

	resp := postUpload(t, router, uploadForm{consent: true, fileName: "report1.pdf", content: []byte("x")})
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if resp.Body.String() != "Could not save the uploaded file" {
		t.Fatalf("unexpected body %q", resp.Body.String())
	}
	recs, _ := repo.ListAll(context.Background())
	if len(recs) != 0 {
		t.Fatalf("expected no records, got %d", len(recs))
	}
}
