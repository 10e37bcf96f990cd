package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// LedgerClaims are the JWT claims accepted by the API. The subject is the
// actor id recorded on every write; Organizations lists the tenants the actor
// may act in.
type LedgerClaims struct {
	jwt.RegisteredClaims
	Organizations []string `json:"orgs"`
}

// AuthMiddleware creates a Gin middleware handler that validates JWT tokens.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		claims := &LedgerClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(jwtSecret), nil
		})
		if err != nil {
			logger.Warn("Invalid token", "error", err)
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		if !token.Valid || claims.Subject == "" {
			logger.Warn("User ID (subject) missing from token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		ctx := WithUserID(c.Request.Context(), claims.Subject)
		ctx = context.WithValue(ctx, organizationsKey, claims.Organizations)
		ctx = WithLogger(ctx, logger.With(slog.String("user_id", claims.Subject)))
		c.Request = c.Request.WithContext(ctx)
		c.Set(string(userIDKey), claims.Subject)

		c.Next()
	}
}

// RequireOrganization rejects requests whose :organization_id path parameter is
// not listed in the caller's token.
func RequireOrganization() gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID := c.Param("organization_id")
		if orgID == "" || !slices.Contains(organizationsFromContext(c), orgID) {
			GetLoggerFromCtx(c.Request.Context()).Warn("Organization access denied", slog.String("organization_id", orgID))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access to this organization is not allowed", "code": "authorization"})
			return
		}
		c.Request = c.Request.WithContext(WithLogger(c.Request.Context(),
			GetLoggerFromCtx(c.Request.Context()).With(slog.String("organization_id", orgID))))
		c.Next()
	}
}
