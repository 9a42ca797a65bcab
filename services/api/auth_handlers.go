package main

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/fadedistrict/go-booking-saas/shared/broadcast"
	"github.com/fadedistrict/go-booking-saas/shared/config"
	"github.com/fadedistrict/go-booking-saas/shared/middleware"
	"github.com/fadedistrict/go-booking-saas/shared/models"
	"github.com/fadedistrict/go-booking-saas/shared/utils"
)

// RegisterRequest represents the signup request. Business fields are
// optional: when present the signup creates the tenant and its owner
// account in one transaction.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Phone     string `json:"phone"`

	BusinessName      string `json:"business_name"`
	BusinessSubdomain string `json:"business_subdomain"`
	BusinessEmail     string `json:"business_email"`
	BusinessTimezone  string `json:"business_timezone"`
}

// LoginRequest represents the login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	AccessToken string           `json:"access_token"`
	ExpiresIn   int64            `json:"expires_in"`
	TokenType   string           `json:"token_type"`
	UserInfo    *models.UserInfo `json:"user_info"`
}

// handleRegister handles the signup flow
func handleRegister(db *gorm.DB, publisher broadcast.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		var existing models.User
		if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
			utils.ConflictResponse(c, "Email already registered")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			utils.InternalServerErrorResponse(c, "Failed to process password")
			return
		}

		user := models.User{
			ID:           uuid.New(),
			Email:        email,
			PasswordHash: string(hash),
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Phone:        req.Phone,
			Role:         models.RoleBusinessOwner,
			IsActive:     true,
		}

		var business *models.Business
		if req.BusinessSubdomain != "" {
			subdomain := strings.ToLower(strings.TrimSpace(req.BusinessSubdomain))
			if !models.ValidSubdomain(subdomain) {
				utils.BadRequestResponse(c, "Subdomain can only contain lowercase letters, numbers, and hyphens")
				return
			}

			var taken models.Business
			if err := db.Where("subdomain = ?", subdomain).First(&taken).Error; err == nil {
				utils.ConflictResponse(c, "This subdomain is already taken")
				return
			}

			businessEmail := req.BusinessEmail
			if businessEmail == "" {
				businessEmail = email
			}
			timezone := req.BusinessTimezone
			if timezone == "" {
				timezone = "Europe/Berlin"
			}

			business = &models.Business{
				ID:                 uuid.New(),
				Name:               req.BusinessName,
				Subdomain:          subdomain,
				Email:              businessEmail,
				Timezone:           timezone,
				IsActive:           true,
				SubscriptionStatus: models.SubscriptionTrial,
			}
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if business != nil {
				if err := tx.Create(business).Error; err != nil {
					return err
				}
				user.BusinessID = &business.ID
			}
			return tx.Create(&user).Error
		})
		if err != nil {
			utils.InternalServerErrorResponse(c, "Failed to create account")
			return
		}

		if business != nil {
			publisher.Dashboard("business_created", map[string]interface{}{
				"business": business,
				"message":  "New business \"" + business.Name + "\" created",
			})
		}

		utils.CreatedResponse(c, "Account created successfully", gin.H{
			"user":     user,
			"business": business,
		})
	}
}

// handleLogin authenticates a user and opens a Redis-backed session
func handleLogin(db *gorm.DB, am *middleware.AuthMiddleware, cfg *config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		var user models.User
		err := db.Where("email = ? AND is_active = ?", strings.ToLower(req.Email), true).First(&user).Error
		if err != nil {
			// Same response for unknown email and bad password
			utils.UnauthorizedResponse(c, "Invalid credentials")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			utils.UnauthorizedResponse(c, "Invalid credentials")
			return
		}

		token, err := am.IssueToken(&user, cfg.TokenTTL)
		if err != nil {
			utils.InternalServerErrorResponse(c, "Failed to issue token")
			return
		}

		info := models.UserInfo{
			UserID:     user.ID,
			Email:      user.Email,
			Role:       user.Role,
			BusinessID: user.BusinessID,
		}

		if _, err := utils.CreateTokenSession(token, info, cfg.TokenTTL); err != nil {
			utils.InternalServerErrorResponse(c, "Failed to create session")
			return
		}

		now := time.Now()
		if err := db.Model(&user).Update("last_login_at", &now).Error; err != nil {
			logrus.Warnf("Failed to record last login for %s: %v", user.Email, err)
		}

		utils.OKResponse(c, "Login successful", LoginResponse{
			AccessToken: token,
			ExpiresIn:   int64(cfg.TokenTTL.Seconds()),
			TokenType:   "Bearer",
			UserInfo:    &info,
		})
	}
}

// handleLogout revokes the caller's session
func handleLogout() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			utils.BadRequestResponse(c, "Authorization token required")
			return
		}

		if err := utils.RevokeTokenSession(token); err != nil {
			logrus.Warnf("Failed to revoke session: %v", err)
		}

		utils.OKResponse(c, "Logged out successfully", nil)
	}
}

// handleMe returns the authenticated caller's profile
func handleMe(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		info := middleware.UserFromContext(c)
		if info == nil {
			utils.UnauthorizedResponse(c, "Authorization token required")
			return
		}

		var user models.User
		err := db.Preload("Business").Where("id = ?", info.UserID).First(&user).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.NotFoundResponse(c, "User not found")
			} else {
				utils.InternalServerErrorResponse(c, "Failed to fetch user")
			}
			return
		}

		utils.OKResponse(c, "User retrieved successfully", user)
	}
}
