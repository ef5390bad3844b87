package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"creature-server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Context keys set by JWTAuth.
const (
	ContextUserIDKey  = "user_id"
	ContextIsAdminKey = "is_admin"
)

// RoleAdmin is the JWT role claim that bypasses map unlock gating.
const RoleAdmin = "ROLE_ADMIN"

// Claims are the custom JWT claims issued by the auth service.
type Claims struct {
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// JWTAuth verifies the bearer access token: signature, expiry and the
// user id claim. Token revocation stays the auth service's concern.
func JWTAuth(secretKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			zap.L().Warn("Authorization header missing", zap.String("path", c.Request.URL.Path))
			abortUnauthorized(c, models.ErrCodeTokenInvalid, "Authorization header missing")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			zap.L().Warn("Invalid Authorization header format")
			abortUnauthorized(c, models.ErrCodeTokenInvalid, "Invalid Authorization header format")
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secretKey), nil
		})
		if err != nil {
			zap.L().Warn("Access token verification failed", zap.Error(err))
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortUnauthorized(c, models.ErrCodeTokenExpired, "Token has expired")
				return
			}
			abortUnauthorized(c, models.ErrCodeTokenInvalid, "Token is invalid or malformed")
			return
		}
		if !token.Valid {
			abortUnauthorized(c, models.ErrCodeTokenInvalid, "Token is invalid")
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			zap.L().Warn("JWT user_id claim is not a UUID", zap.String("user_id", claims.UserID))
			abortUnauthorized(c, models.ErrCodeTokenInvalid, "Invalid token: bad user id")
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Set(ContextIsAdminKey, hasRole(claims.Roles, RoleAdmin))
		c.Next()
	}
}

func hasRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Code: code, Message: message})
}

// UserIDFromContext returns the authenticated player's id set by JWTAuth.
func UserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// IsAdminFromContext reports whether the authenticated user carries the
// admin role.
func IsAdminFromContext(c *gin.Context) bool {
	v, ok := c.Get(ContextIsAdminKey)
	if !ok {
		return false
	}
	admin, ok := v.(bool)
	return ok && admin
}

// GenerateTestJWT creates a signed token for tests only.
func GenerateTestJWT(userID uuid.UUID, roles []string, secretKey string, validity time.Duration) (string, error) {
	claims := &Claims{
		UserID: userID.String(),
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign test JWT: %w", err)
	}
	return signed, nil
}
