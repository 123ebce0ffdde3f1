package records

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"claims-intake/internal/shared/metrics"
	"claims-intake/internal/shared/server/middleware"
	"claims-intake/internal/shared/server/respond"
	"claims-intake/internal/shared/storage/object"
	"claims-intake/internal/shared/telemetry"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc     *Service
	Exports object.ObjectStore
}

// NewHandler constructs a Handler. Export files are written to exports.
func NewHandler(svc *Service, exports object.ObjectStore) *Handler {
	return &Handler{Svc: svc, Exports: exports}
}

// RegisterRoutes attaches the form, page and export routes.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.index)
	r.POST("/upload", h.upload)
	r.GET("/records", h.page)
	r.GET("/export/csv", h.export(FormatCSV))
	r.GET("/export/json", h.export(FormatJSON))
	r.GET("/export/xlsx", h.export(FormatXLSX))
}

// RegisterAPIRoutes attaches the JSON API routes.
func (h *Handler) RegisterAPIRoutes(rg *gin.RouterGroup) {
	rg.GET("/records", h.list)
}

func (h *Handler) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", nil)
}

func (h *Handler) upload(c *gin.Context) {
	start := time.Now()
	defer func() {
		metrics.ObserveUploadDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)
	if err := c.Request.ParseMultipartForm(maxUploadSize); err != nil {
		if isTooLarge(err) {
			metrics.IncUploadRejected()
			respond.Text(c, http.StatusRequestEntityTooLarge, "too_large", "Uploaded file exceeds the 10 MB limit")
			return
		}
		// Anything else is treated as a form without a file.
		if !errors.Is(err, http.ErrNotMultipart) {
			telemetry.Warn("upload.form.parse", map[string]any{
				"request_id": middleware.RequestIDFromContext(c),
				"err":        err,
			})
		}
	}

	in := UploadInput{
		Consent: c.Request.PostFormValue("consent") == "on",
		Notes:   c.Request.PostFormValue("notes"),
	}
	if fh := formFile(c.Request, "document"); fh != nil {
		file, err := fh.Open()
		if err != nil {
			respond.Text(c, http.StatusInternalServerError, "upload_error", "Could not read the uploaded file")
			return
		}
		defer file.Close()
		in.FileName = fh.Filename
		in.Body = file
	}

	rec, err := h.Svc.Upload(c.Request.Context(), in)
	if err != nil {
		var verr *ValidationError
		var serr *StorageError
		switch {
		case errors.As(err, &verr):
			metrics.IncUploadRejected()
			respond.Text(c, http.StatusBadRequest, "validation_error", verr.Message)
		case errors.As(err, &serr):
			respond.Text(c, http.StatusInternalServerError, "storage_error", "Could not store the record")
		default:
			telemetry.Error("upload.failed", map[string]any{
				"request_id": middleware.RequestIDFromContext(c),
				"err":        err,
			})
			respond.Text(c, http.StatusInternalServerError, "upload_error", "Could not save the uploaded file")
		}
		return
	}

	metrics.IncUploadAccepted()
	c.Set(middleware.RecordIDKey, rec.ID)
	c.Redirect(http.StatusFound, "/records")
}

func (h *Handler) page(c *gin.Context) {
	recs, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Text(c, http.StatusInternalServerError, "storage_error", "Could not read records")
		return
	}
	c.HTML(http.StatusOK, "records.html", gin.H{"Records": toPageRows(recs)})
}

func (h *Handler) list(c *gin.Context) {
	recs, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "storage_error", "Could not read records", nil)
		return
	}
	respond.OK(c, toResponses(recs))
}

// export renders every record, replaces the format's file in the export
// directory and sends the same bytes back as an attachment.
func (h *Handler) export(format string) gin.HandlerFunc {
	ef := exportFormats[format]
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		recs, err := h.Svc.List(ctx)
		if err != nil {
			respond.Text(c, http.StatusInternalServerError, "storage_error", "Could not read records")
			return
		}

		var buf bytes.Buffer
		if err := ef.write(&buf, recs); err != nil {
			telemetry.Error("export.render.failed", map[string]any{"format": format, "err": err})
			respond.Text(c, http.StatusInternalServerError, "export_error", "Could not build the export")
			return
		}
		data := buf.Bytes()
		if _, err := h.Exports.SaveWithKey(ctx, ef.fileName, ef.contentType, bytes.NewReader(data)); err != nil {
			telemetry.Error("export.write.failed", map[string]any{"format": format, "err": err})
			respond.Text(c, http.StatusInternalServerError, "export_error", "Could not write the export file")
			return
		}

		metrics.IncExport(format)
		telemetry.Info("export.ok", map[string]any{
			"format":     format,
			"rows":       len(recs),
			"size_bytes": len(data),
		})
		c.Header("Content-Disposition", `attachment; filename="`+ef.fileName+`"`)
		c.Data(http.StatusOK, ef.contentType, data)
	}
}

func formFile(r *http.Request, field string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return nil
	}
	return files[0]
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}
