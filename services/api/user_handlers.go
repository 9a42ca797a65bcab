package main

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/fadedistrict/go-booking-saas/shared/middleware"
	"github.com/fadedistrict/go-booking-saas/shared/models"
	"github.com/fadedistrict/go-booking-saas/shared/utils"
)

// CreateUserRequest represents the create user request (super admin only)
type CreateUserRequest struct {
	Email      string          `json:"email" binding:"required,email"`
	Password   string          `json:"password" binding:"required,min=8"`
	FirstName  string          `json:"first_name" binding:"required"`
	LastName   string          `json:"last_name" binding:"required"`
	Phone      string          `json:"phone"`
	Role       models.UserRole `json:"role" binding:"required,oneof=super_admin business_owner"`
	BusinessID *uuid.UUID      `json:"business_id"`
}

// UpdateUserRequest represents the update user request
type UpdateUserRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	IsActive  *bool   `json:"is_active"`
}

// handleListUsers handles listing users (super admin only)
func handleListUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.Preload("Business").Order("first_name, last_name").Find(&users).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to fetch users")
			return
		}

		utils.OKResponse(c, "Users retrieved successfully", users)
	}
}

// handleCreateUser handles user creation (super admin only). Business
// owners require a business; super admins must not carry one.
func handleCreateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		if req.Role == models.RoleBusinessOwner && req.BusinessID == nil {
			utils.BadRequestResponse(c, "Business owners must belong to a business")
			return
		}
		if req.Role == models.RoleSuperAdmin && req.BusinessID != nil {
			utils.BadRequestResponse(c, "Super admins cannot belong to a business")
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		var existing models.User
		if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
			utils.ConflictResponse(c, "Email already registered")
			return
		}

		if req.BusinessID != nil {
			var business models.Business
			if err := db.Where("id = ?", *req.BusinessID).First(&business).Error; err != nil {
				utils.BadRequestResponse(c, "Business not found")
				return
			}
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
			Role:         req.Role,
			BusinessID:   req.BusinessID,
			IsActive:     true,
		}

		if err := db.Create(&user).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to create user")
			return
		}

		utils.CreatedResponse(c, "User created successfully", user)
	}
}

// handleGetUser returns one user. Owners may read their own record.
func handleGetUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := middleware.UserFromContext(c)
		userID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			utils.BadRequestResponse(c, "Invalid user ID")
			return
		}

		if caller == nil {
			utils.UnauthorizedResponse(c, "Authorization token required")
			return
		}
		if !caller.IsSuperAdmin() && caller.UserID != userID {
			utils.ForbiddenResponse(c, "Access denied")
			return
		}

		var user models.User
		if err := db.Preload("Business").Where("id = ?", userID).First(&user).Error; err != nil {
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

// handleUpdateUser updates mutable profile fields. The active flag is a
// super admin control (soft disable, never delete).
func handleUpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := middleware.UserFromContext(c)
		userID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			utils.BadRequestResponse(c, "Invalid user ID")
			return
		}

		if caller == nil {
			utils.UnauthorizedResponse(c, "Authorization token required")
			return
		}
		if !caller.IsSuperAdmin() && caller.UserID != userID {
			utils.ForbiddenResponse(c, "Access denied")
			return
		}

		var user models.User
		if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.NotFoundResponse(c, "User not found")
			} else {
				utils.InternalServerErrorResponse(c, "Failed to fetch user")
			}
			return
		}

		var req UpdateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		if req.FirstName != nil {
			user.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			user.LastName = *req.LastName
		}
		if req.Phone != nil {
			user.Phone = *req.Phone
		}
		if req.IsActive != nil && caller.IsSuperAdmin() {
			user.IsActive = *req.IsActive
		}

		if err := db.Save(&user).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to update user")
			return
		}

		utils.OKResponse(c, "User updated successfully", user)
	}
}

// handleDeleteUser soft-disables a user (super admin only)
func handleDeleteUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := db.Where("id = ?", c.Param("id")).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.NotFoundResponse(c, "User not found")
			} else {
				utils.InternalServerErrorResponse(c, "Failed to fetch user")
			}
			return
		}

		user.IsActive = false
		if err := db.Save(&user).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to disable user")
			return
		}

		utils.OKResponse(c, "User disabled successfully", nil)
	}
}
