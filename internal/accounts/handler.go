package accounts

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"unishare-backend/internal/institutions"
	"unishare-backend/internal/shared/server/middleware"
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

// RegisterPublicRoutes attaches the unauthenticated routes.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.register)
	rg.POST("/login", h.login)
}

// RegisterProtectedRoutes attaches routes behind the auth guard.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
}

type registerRequest struct {
	Name          string `json:"name" validate:"required,min=2,max=100"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=6"`
	InstitutionID string `json:"institutionId" validate:"required,uuid"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if errs := validate.Struct(req); errs != nil {
		respond.Error(c, http.StatusBadRequest, "validation failed", errs)
		return
	}

	acc, inst, token, err := h.Svc.Register(c.Request.Context(), RegisterInput{
		Name:          req.Name,
		Email:         req.Email,
		Password:      req.Password,
		InstitutionID: req.InstitutionID,
	})
	if err != nil {
		var mismatch *DomainMismatchError
		switch {
		case errors.Is(err, ErrDuplicateEmail):
			respond.Error(c, http.StatusBadRequest, "email already registered", nil)
		case errors.Is(err, ErrInstitutionNotFound):
			respond.Error(c, http.StatusBadRequest, "institution does not exist", nil)
		case errors.As(err, &mismatch):
			respond.Error(c, http.StatusBadRequest, mismatch.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "failed to register", nil)
		}
		return
	}

	respond.Created(c, "account created", gin.H{
		"token":     token,
		"expiresIn": int64(h.Svc.Tokens.TTL().Seconds()),
		"account":   summary(acc, inst),
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if errs := validate.Struct(req); errs != nil {
		respond.Error(c, http.StatusBadRequest, "validation failed", errs)
		return
	}

	acc, inst, token, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			respond.Error(c, http.StatusUnauthorized, "invalid email or password", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "failed to log in", nil)
		return
	}

	respond.OK(c, "logged in", gin.H{
		"token":     token,
		"expiresIn": int64(h.Svc.Tokens.TTL().Seconds()),
		"account":   summary(acc, inst),
	})
}

func (h *Handler) me(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, "missing or invalid token", nil)
		return
	}
	respond.OK(c, "", gin.H{
		"id":    identity.AccountID,
		"name":  identity.Name,
		"email": identity.Email,
		"institution": gin.H{
			"id":     identity.InstitutionID,
			"name":   identity.InstitutionName,
			"domain": identity.InstitutionDomain,
		},
	})
}

func summary(acc Account, inst institutions.Institution) gin.H {
	return gin.H{
		"id":    acc.ID,
		"name":  acc.Name,
		"email": acc.Email,
		"institution": gin.H{
			"id":     inst.ID,
			"name":   inst.Name,
			"domain": inst.Domain,
		},
	}
}
