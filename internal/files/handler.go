package files

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"unishare-backend/internal/shared/metrics"
	"unishare-backend/internal/shared/server/middleware"
	"unishare-backend/internal/shared/server/respond"
	"unishare-backend/internal/shared/validate"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches file routes to the guarded router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/files", h.upload)
	rg.GET("/files", h.list)
	rg.GET("/files/:id", h.get)
	rg.GET("/files/:id/download", h.download)
}

type uploadRequest struct {
	Semester    string `form:"semester" json:"semester" validate:"required,oneof=1 2 3 4 5 6 7 8"`
	Course      string `form:"course" json:"course" validate:"required,max=100"`
	Description string `form:"description" json:"description" validate:"max=1000"`
}

func (h *Handler) upload(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, "missing or invalid token", nil)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusBadRequest, fmt.Sprintf("file exceeds the %d byte limit", h.MaxUploadBytes), nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "file is required", nil)
		return
	}
	if len(fileHeader.Filename) > 255 {
		respond.Error(c, http.StatusBadRequest, "validation failed", map[string]string{
			"file": "name must be at most 255 characters",
		})
		return
	}

	var req uploadRequest
	if err := c.ShouldBind(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid form fields", nil)
		return
	}
	req.Course = strings.TrimSpace(req.Course)
	req.Description = strings.TrimSpace(req.Description)
	if errs := validate.Struct(req); errs != nil {
		respond.Error(c, http.StatusBadRequest, "validation failed", errs)
		return
	}

	payload, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "unable to read file", nil)
		return
	}
	defer payload.Close()

	detail, err := h.Svc.Upload(c.Request.Context(), identity, UploadInput{
		FileName:     fileHeader.Filename,
		DeclaredType: fileHeader.Header.Get("Content-Type"),
		Semester:     req.Semester,
		Course:       req.Course,
		Description:  req.Description,
		Body:         payload,
	})
	if err != nil {
		metrics.IncUploadFailed()
		switch {
		case errors.Is(err, ErrUnsupportedType):
			respond.Error(c, http.StatusBadRequest, "file type is not allowed", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "file is required", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "failed to upload file", nil)
		}
		return
	}

	metrics.IncUpload()
	metrics.ObserveUploadSize(detail.SizeBytes)
	c.Set("fileId", detail.ID)
	respond.Created(c, "file uploaded", toResponse(detail))
}

func (h *Handler) list(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, "missing or invalid token", nil)
		return
	}

	q := Query{
		Semester:   strings.TrimSpace(c.Query("semester")),
		Course:     strings.TrimSpace(c.Query("course")),
		SearchTerm: strings.TrimSpace(c.Query("search_term")),
	}
	myUploads := strings.EqualFold(c.Query("myuploads"), "true")
	if myUploads {
		q.UploaderID = identity.AccountID
	}

	if q.Semester != "" && !validSemester(q.Semester) {
		respond.Error(c, http.StatusBadRequest, "validation failed", map[string]string{
			"semester": "must be one of: 1, 2, 3, 4, 5, 6, 7, 8",
		})
		return
	}

	details, err := h.Svc.List(c.Request.Context(), identity, q)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "failed to list files", nil)
		return
	}

	out := make([]FileResponse, 0, len(details))
	for _, d := range details {
		out = append(out, toResponse(d))
	}

	// The effective filter set is echoed back so clients can see exactly
	// what constrained the listing.
	filters := gin.H{"institution": identity.InstitutionID}
	if q.Semester != "" {
		filters["semester"] = q.Semester
	}
	if q.Course != "" {
		filters["course"] = q.Course
	}
	if q.SearchTerm != "" {
		filters["search_term"] = q.SearchTerm
	}
	if myUploads {
		filters["myuploads"] = true
	}

	respond.List(c, out, len(out), filters)
}

func (h *Handler) get(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, "missing or invalid token", nil)
		return
	}

	detail, err := h.Svc.Get(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		h.respondFetchError(c, err)
		return
	}

	c.Set("fileId", detail.ID)
	respond.OK(c, "", toResponse(detail))
}

func (h *Handler) download(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, "missing or invalid token", nil)
		return
	}

	detail, rc, err := h.Svc.Download(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		h.respondFetchError(c, err)
		return
	}
	defer rc.Close()

	metrics.IncDownload()
	c.Set("fileId", detail.ID)
	extraHeaders := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", detail.FileName),
	}
	c.DataFromReader(http.StatusOK, detail.SizeBytes, detail.MimeType, rc, extraHeaders)
}

func (h *Handler) respondFetchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "file not found", nil)
	case errors.Is(err, ErrForbidden):
		respond.Error(c, http.StatusForbidden, "file belongs to another institution", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "failed to fetch file", nil)
	}
}

func validSemester(s string) bool {
	switch s {
	case "1", "2", "3", "4", "5", "6", "7", "8":
		return true
	}
	return false
}
