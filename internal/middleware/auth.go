package middleware

import (
	"fmt"
	"strings"

	"anoa.com/campuseventhub/internal/access"
	"anoa.com/campuseventhub/internal/auth"
	"anoa.com/campuseventhub/internal/entity"
	"anoa.com/campuseventhub/pkg/apperror"
	"anoa.com/campuseventhub/pkg/response"
	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	tokens      *auth.TokenManager
	revoker     auth.Revoker
	evaluator   *access.Evaluator
	bypassToken string
}

func NewAuthMiddleware(tokens *auth.TokenManager, revoker auth.Revoker, evaluator *access.Evaluator, bypassToken string) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:      tokens,
		revoker:     revoker,
		evaluator:   evaluator,
		bypassToken: bypassToken,
	}
}

// RequireAuth authenticates the bearer token without checking a role.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := m.authenticate(c)
		if err != nil {
			response.ResponseError(c, err)
			c.Abort()
			return
		}

		c.Set("user_id", session.ProfileID.String())
		c.Set("session", *session)
		c.Next()
	}
}

// RequireRole authenticates and evaluates the required role in one pass.
// The admin bypass seam is consulted first; everything else goes through
// the real session path.
func (m *AuthMiddleware) RequireRole(role entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		ac := m.bypassContext(c)
		if ac == nil {
			session, err := m.authenticate(c)
			if err != nil {
				response.ResponseError(c, err)
				c.Abort()
				return
			}
			ac = *session
			c.Set("session", *session)
		}

		profile, decision, err := m.evaluator.Evaluate(c.Request.Context(), ac, role)
		if decision != access.Allow {
			if err == nil {
				err = apperror.ErrForbidden
			}
			response.ResponseError(c, err)
			c.Abort()
			return
		}

		if profile != nil {
			c.Set("user_id", profile.ID.String())
			c.Set("profile", profile)
		}
		c.Next()
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context) (*auth.Session, error) {
	tokenString := ""
	authHeader := c.GetHeader("Authorization")

	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			tokenString = parts[1]
		}
	}

	// Fallback to query parameter "token" (useful for WebSockets)
	if tokenString == "" {
		tokenString = c.Query("token")
	}

	if tokenString == "" {
		return nil, apperror.ErrUnauthorized
	}

	session, err := m.tokens.Parse(tokenString)
	if err != nil {
		return nil, err
	}

	revoked, err := m.revoker.IsRevoked(c.Request.Context(), tokenString)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrUnavailable, err)
	}
	if revoked {
		return nil, apperror.ErrUnauthorized
	}

	return session, nil
}

// bypassContext is the operational bootstrap seam: a request presenting the
// configured X-Admin-Bypass token is treated as an admin without consulting
// the identity provider. Not a security boundary. Deleting this function
// (and its config key) removes the seam without touching the evaluator.
func (m *AuthMiddleware) bypassContext(c *gin.Context) auth.Context {
	if m.bypassToken == "" {
		return nil
	}
	if c.GetHeader("X-Admin-Bypass") != m.bypassToken {
		return nil
	}
	return auth.LocalOverride{}
}
