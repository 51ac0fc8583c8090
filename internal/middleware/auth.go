package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"laily-api/internal/apperr"
	"laily-api/internal/models"
	"laily-api/internal/responses"
)

const userKey = "currentUser"

// Authenticator resuelve un bearer token a una cuenta
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// Authenticate exige "Authorization: Bearer <token>" y guarda la cuenta en el contexto
func Authenticate(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := auth.Authenticate(c.Request.Context(), bearerToken(c.GetHeader("Authorization")))
		if err != nil {
			responses.Error(c, err)
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// RequireRole debe ir después de Authenticate
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			responses.Error(c, apperr.Unauthenticated("no token provided"))
			return
		}
		if user.Role != role {
			responses.Error(c, apperr.Forbidden(role+" privileges required"))
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
