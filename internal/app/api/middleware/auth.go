package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"go.uber.org/zap"

	"github.com/fatflowers/fieldbook/internal/models"
	"github.com/fatflowers/fieldbook/pkg/config"
	"github.com/fatflowers/fieldbook/pkg/logctx"
	"github.com/fatflowers/fieldbook/pkg/response"
)

const roleKey = "role"

var errMissingToken = errors.New("missing bearer token")

// Claims are the access token claims: sub is the user id.
type Claims struct {
	Role models.UserRole `json:"role"`
	jwt.StandardClaims
}

// IssueToken signs an HS256 access token for userID.
func IssueToken(secret, userID string, role models.UserRole, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		StandardClaims: jwt.StandardClaims{
			Subject:   userID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func parseToken(secret, header string) (*Claims, error) {
	raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if raw == "" || raw == header {
		return nil, errMissingToken
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

// AuthMiddleware requires a valid bearer token and stores the user id and role on the request.
func AuthMiddleware(cfg *config.Config, base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Auth.JWTSecret == "" {
			logctx.FromGin(c, base).Errorw("auth_not_configured")
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, "auth not configured"))
			return
		}
		claims, err := parseToken(cfg.Auth.JWTSecret, c.GetHeader("Authorization"))
		if err != nil {
			logctx.FromGin(c, base).Infow("auth_rejected", "error", err.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, err.Error()))
			return
		}

		c.Set(logctx.UserIDKey, claims.Subject)
		c.Set(roleKey, claims.Role)
		ctx := context.WithValue(c.Request.Context(), logctx.UserIDKey, claims.Subject)
		c.Request = c.Request.WithContext(ctx)
		setRequestLogger(c, logctx.FromGin(c, base).With("user_id", claims.Subject))

		c.Next()
	}
}

// AdminMiddleware lets through admins and superadmins. It must run after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(roleKey)
		if r, ok := role.(models.UserRole); !ok || !r.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, response.ErrorT[any](response.APIResponseCodeForbidden, "admin role required"))
			return
		}
		c.Next()
	}
}
