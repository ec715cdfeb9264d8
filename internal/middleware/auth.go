package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/justsurfingit/job-portal/internal/apperrors"
	"github.com/justsurfingit/job-portal/internal/auth"
)

const claimsKey = "auth.claims"

// VerifyToken requires "Authorization: Bearer <token>" and a token the
// verifier accepts. The verified claims are stored on the request context.
func VerifyToken(verifier auth.Verifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			RespondError(c, apperrors.Unauthorized("unauthorized access", nil))
			return
		}

		claims, err := verifier.VerifyIDToken(c.Request.Context(), token)
		if err != nil {
			logger.Warn("token verification failed",
				zap.String("request_id", RequestIDFrom(c)),
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
			RespondError(c, apperrors.Unauthorized("unauthorized access", err))
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// VerifyEmail requires the email query parameter to equal the verified email.
// It must run after VerifyToken.
func VerifyEmail() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			RespondError(c, apperrors.Unauthorized("unauthorized access", nil))
			return
		}
		if claims.Email == "" || c.Query("email") != claims.Email {
			RespondError(c, apperrors.Forbidden("forbidden access"))
			return
		}
		c.Next()
	}
}

func ClaimsFrom(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok && claims != nil
}
