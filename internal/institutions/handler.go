package institutions

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"unishare-backend/internal/shared/server/respond"
	"unishare-backend/internal/shared/validate"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches institution routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/institutions", h.list)
	rg.POST("/institutions", h.create)
}

type createRequest struct {
	Name   string `json:"name" validate:"required,min=2,max=200"`
	Domain string `json:"domain" validate:"required,min=3,max=100,tenantdomain"`
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Domain = strings.ToLower(strings.TrimSpace(req.Domain))

	if errs := validate.Struct(req); errs != nil {
		respond.Error(c, http.StatusBadRequest, "validation failed", errs)
		return
	}

	inst, err := h.Svc.Create(c.Request.Context(), req.Name, req.Domain)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDomain):
			respond.Error(c, http.StatusBadRequest, "validation failed", map[string]string{
				"domain": "must be a lowercase domain like example.edu",
			})
		case errors.Is(err, ErrDuplicateName):
			respond.Error(c, http.StatusBadRequest, "an institution with this name already exists", nil)
		case errors.Is(err, ErrDuplicateDomain):
			respond.Error(c, http.StatusBadRequest, "an institution with this domain already exists", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "failed to create institution", nil)
		}
		return
	}

	respond.Created(c, "institution created", inst)
}

func (h *Handler) list(c *gin.Context) {
	insts, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "failed to list institutions", nil)
		return
	}

	out := make([]gin.H, 0, len(insts))
	for _, inst := range insts {
		out = append(out, gin.H{"id": inst.ID, "name": inst.Name})
	}
	respond.List(c, out, len(out), nil)
}
