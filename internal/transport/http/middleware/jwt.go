package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"documind/internal/transport/http/response"
)

const ContextUserIDKey = "user_id"

// TokenVerifier resolves a bearer token to the caller identifier.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

func AuthJWT(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			response.Abort(c, 401, response.CodeUnauthorized, "missing authorization header")
			return
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") {
			response.Abort(c, 401, response.CodeUnauthorized, "invalid authorization scheme")
			return
		}

		userID, err := verifier.VerifyToken(strings.TrimSpace(token))
		if err != nil {
			response.Abort(c, 401, response.CodeUnauthorized, "invalid or expired token")
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

// UserID returns the caller identifier stored by AuthJWT.
func UserID(c *gin.Context) (string, bool) {
	userID := c.GetString(ContextUserIDKey)
	return userID, userID != ""
}
