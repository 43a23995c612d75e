package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"unishare-backend/internal/shared/auth"
	"unishare-backend/internal/shared/server/respond"
)

const (
	accountIDKey = "accountId"
	identityKey  = "identity"
)

// Identity is the guard-resolved caller: the account plus its institution.
// Handlers must take institution scoping from here, never from request input.
type Identity struct {
	AccountID         string
	Name              string
	Email             string
	InstitutionID     string
	InstitutionName   string
	InstitutionDomain string
}

// IdentitySource resolves an account ID to a full identity.
type IdentitySource interface {
	Identity(ctx context.Context, accountID string) (Identity, error)
}

// Auth verifies the bearer token, loads the account with its institution and
// stores the identity in the request context. Any failure is a 401; it is the
// single authorization gate for file operations.
func Auth(tokens *auth.TokenService, ids IdentitySource) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "missing or invalid token", nil)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "missing or invalid token", nil)
			return
		}

		accountID, err := tokens.Verify(token)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "missing or invalid token", nil)
			return
		}

		identity, err := ids.Identity(c.Request.Context(), accountID)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "missing or invalid token", nil)
			return
		}

		c.Set(accountIDKey, identity.AccountID)
		c.Set(identityKey, identity)
		c.Next()
	}
}

// IdentityFromContext fetches the identity stored by the Auth middleware.
func IdentityFromContext(c *gin.Context) (Identity, bool) {
	if c == nil {
		return Identity{}, false
	}
	val, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := val.(Identity)
	return id, ok
}
