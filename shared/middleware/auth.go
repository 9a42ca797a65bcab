package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/fadedistrict/go-booking-saas/shared/config"
	"github.com/fadedistrict/go-booking-saas/shared/models"
	"github.com/fadedistrict/go-booking-saas/shared/utils"
)

// ContextUserKey is the request context key for the authenticated caller
const ContextUserKey = "current_user"

// AuthClaims represents the JWT claims issued at login
type AuthClaims struct {
	Email      string `json:"email"`
	Role       string `json:"role"`
	BusinessID string `json:"business_id,omitempty"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates self-issued JWT tokens backed by Redis sessions
type AuthMiddleware struct {
	secret []byte
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(cfg *config.AuthConfig) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(cfg.JWTSecret)}
}

// IssueToken creates a signed JWT for the given user
func (am *AuthMiddleware) IssueToken(user *models.User, ttl time.Duration) (string, error) {
	claims := AuthClaims{
		Email: user.Email,
		Role:  string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	if user.BusinessID != nil {
		claims.BusinessID = user.BusinessID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(am.secret)
}

// ParseToken verifies a token signature and returns its claims
func (am *AuthMiddleware) ParseToken(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return am.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// RequireAuth middleware validates JWT tokens and their Redis sessions
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			utils.UnauthorizedResponse(c, "Authorization token required")
			c.Abort()
			return
		}

		claims, err := am.ParseToken(tokenString)
		if err != nil {
			utils.UnauthorizedResponse(c, "Invalid token")
			c.Abort()
			return
		}

		// Session must still exist; logout revokes it before expiry
		session, err := utils.GetTokenSession(tokenString)
		if err != nil {
			utils.UnauthorizedResponse(c, "Session expired or revoked")
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			utils.UnauthorizedResponse(c, "Invalid token subject")
			c.Abort()
			return
		}

		info := models.UserInfo{
			UserID:     userID,
			Email:      claims.Email,
			Role:       models.UserRole(claims.Role),
			BusinessID: session.UserInfo.BusinessID,
		}

		c.Set(ContextUserKey, &info)
		c.Next()
	}
}

// OptionalAuth resolves the caller when a valid token is present but lets
// anonymous requests through. Public booking endpoints use this: a customer
// needs no account, while staff on the same route get their role applied.
func (am *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := am.ParseToken(tokenString)
		if err != nil {
			c.Next()
			return
		}

		session, err := utils.GetTokenSession(tokenString)
		if err != nil {
			c.Next()
			return
		}

		if userID, err := uuid.Parse(claims.Subject); err == nil {
			c.Set(ContextUserKey, &models.UserInfo{
				UserID:     userID,
				Email:      claims.Email,
				Role:       models.UserRole(claims.Role),
				BusinessID: session.UserInfo.BusinessID,
			})
		}
		c.Next()
	}
}

// RequireRole middleware validates the caller's role
func (am *AuthMiddleware) RequireRole(requiredRole models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		info := UserFromContext(c)
		if info == nil {
			utils.UnauthorizedResponse(c, "User not found in context")
			c.Abort()
			return
		}

		if info.Role != requiredRole {
			utils.ForbiddenResponse(c, "Insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireSuperAdmin middleware restricts a route to platform super admins
func (am *AuthMiddleware) RequireSuperAdmin() gin.HandlerFunc {
	return am.RequireRole(models.RoleSuperAdmin)
}

// UserFromContext returns the authenticated caller, or nil for anonymous requests
func UserFromContext(c *gin.Context) *models.UserInfo {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	info, ok := value.(*models.UserInfo)
	if !ok {
		return nil
	}
	return info
}

// extractToken extracts the JWT token from the Authorization header
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return authHeader
}
