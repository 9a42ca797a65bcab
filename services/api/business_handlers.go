package main

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fadedistrict/go-booking-saas/shared/broadcast"
	"github.com/fadedistrict/go-booking-saas/shared/middleware"
	"github.com/fadedistrict/go-booking-saas/shared/models"
	"github.com/fadedistrict/go-booking-saas/shared/utils"
)

// CreateBusinessRequest represents the create business request
type CreateBusinessRequest struct {
	Name             string `json:"name" binding:"required"`
	Subdomain        string `json:"subdomain" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Phone            string `json:"phone"`
	Timezone         string `json:"timezone"`
	EmailFromName    string `json:"email_from_name"`
	EmailFromAddress string `json:"email_from_address"`
	PrimaryColor     string `json:"primary_color"`
	LogoURL          string `json:"logo_url"`
}

// UpdateBusinessRequest represents the update business request
type UpdateBusinessRequest struct {
	Name               *string                    `json:"name"`
	Email              *string                    `json:"email"`
	Phone              *string                    `json:"phone"`
	BusinessHoursStart *string                    `json:"business_hours_start"`
	BusinessHoursEnd   *string                    `json:"business_hours_end"`
	Timezone           *string                    `json:"timezone"`
	EmailFromName      *string                    `json:"email_from_name"`
	EmailFromAddress   *string                    `json:"email_from_address"`
	PrimaryColor       *string                    `json:"primary_color"`
	LogoURL            *string                    `json:"logo_url"`
	IsActive           *bool                      `json:"is_active"`
	SubscriptionStatus *models.SubscriptionStatus `json:"subscription_status"`
}

// handleListBusinesses handles listing all businesses (super admin only)
func handleListBusinesses(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var businesses []models.Business
		if err := db.Order("created_at DESC").Find(&businesses).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to fetch businesses")
			return
		}

		utils.OKResponse(c, "Businesses retrieved successfully", businesses)
	}
}

// handleCreateBusiness handles business creation (super admin only)
func handleCreateBusiness(db *gorm.DB, publisher broadcast.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateBusinessRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		subdomain := strings.ToLower(strings.TrimSpace(req.Subdomain))
		if !models.ValidSubdomain(subdomain) {
			utils.BadRequestResponse(c, "Subdomain can only contain lowercase letters, numbers, and hyphens")
			return
		}

		var existing models.Business
		if err := db.Where("subdomain = ?", subdomain).First(&existing).Error; err == nil {
			utils.ConflictResponse(c, "This subdomain is already taken")
			return
		}

		timezone := req.Timezone
		if timezone == "" {
			timezone = "Europe/Berlin"
		}

		business := models.Business{
			ID:                 uuid.New(),
			Name:               req.Name,
			Subdomain:          subdomain,
			Email:              req.Email,
			Phone:              req.Phone,
			Timezone:           timezone,
			EmailFromName:      req.EmailFromName,
			EmailFromAddress:   req.EmailFromAddress,
			LogoURL:            req.LogoURL,
			IsActive:           true,
			SubscriptionStatus: models.SubscriptionTrial,
		}
		if req.PrimaryColor != "" {
			business.PrimaryColor = req.PrimaryColor
		}

		if err := db.Create(&business).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to create business")
			return
		}

		publisher.Dashboard("business_created", map[string]interface{}{
			"business": business,
			"message":  "New business \"" + business.Name + "\" created",
		})

		utils.CreatedResponse(c, "Business created successfully", business)
	}
}

// handleGetBusiness returns one business. Super admins read any tenant;
// owners read only their own.
func handleGetBusiness(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.UserFromContext(c)
		businessID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			utils.BadRequestResponse(c, "Invalid business ID")
			return
		}

		if user == nil || !user.CanAccessBusiness(businessID) {
			utils.ForbiddenResponse(c, "Access denied to this business")
			return
		}

		var business models.Business
		if err := db.Where("id = ?", businessID).First(&business).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.NotFoundResponse(c, "Business not found")
			} else {
				utils.InternalServerErrorResponse(c, "Failed to fetch business")
			}
			return
		}

		utils.OKResponse(c, "Business retrieved successfully", business)
	}
}

// handleUpdateBusiness handles updating a business
func handleUpdateBusiness(db *gorm.DB, publisher broadcast.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.UserFromContext(c)
		businessID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			utils.BadRequestResponse(c, "Invalid business ID")
			return
		}

		if user == nil || !user.CanAccessBusiness(businessID) {
			utils.ForbiddenResponse(c, "Access denied to this business")
			return
		}

		var business models.Business
		if err := db.Where("id = ?", businessID).First(&business).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.NotFoundResponse(c, "Business not found")
			} else {
				utils.InternalServerErrorResponse(c, "Failed to fetch business")
			}
			return
		}

		var req UpdateBusinessRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		if req.Name != nil {
			business.Name = *req.Name
		}
		if req.Email != nil {
			business.Email = *req.Email
		}
		if req.Phone != nil {
			business.Phone = *req.Phone
		}
		if req.BusinessHoursStart != nil {
			business.BusinessHoursStart = *req.BusinessHoursStart
		}
		if req.BusinessHoursEnd != nil {
			business.BusinessHoursEnd = *req.BusinessHoursEnd
		}
		if req.Timezone != nil {
			if _, err := time.LoadLocation(*req.Timezone); err != nil {
				utils.BadRequestResponse(c, "Unknown timezone")
				return
			}
			business.Timezone = *req.Timezone
		}
		if req.EmailFromName != nil {
			business.EmailFromName = *req.EmailFromName
		}
		if req.EmailFromAddress != nil {
			business.EmailFromAddress = *req.EmailFromAddress
		}
		if req.PrimaryColor != nil {
			business.PrimaryColor = *req.PrimaryColor
		}
		if req.LogoURL != nil {
			business.LogoURL = *req.LogoURL
		}

		// Activation and subscription changes are platform decisions
		if user.IsSuperAdmin() {
			if req.IsActive != nil {
				business.IsActive = *req.IsActive
			}
			if req.SubscriptionStatus != nil {
				business.SubscriptionStatus = *req.SubscriptionStatus
			}
		}

		if err := db.Save(&business).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to update business")
			return
		}

		publisher.Dashboard("business_updated", map[string]interface{}{
			"business": business,
			"message":  "Business \"" + business.Name + "\" updated",
		})

		utils.OKResponse(c, "Business updated successfully", business)
	}
}

// handleDeleteBusiness deactivates a business. Tenants are never hard
// deleted; their data stays for reactivation.
func handleDeleteBusiness(db *gorm.DB, publisher broadcast.Publisher) gin.HandlerFunc {
	return setBusinessActive(db, publisher, false, "Business deactivated successfully")
}

// handleActivateBusiness reactivates a business
func handleActivateBusiness(db *gorm.DB, publisher broadcast.Publisher) gin.HandlerFunc {
	return setBusinessActive(db, publisher, true, "Business activated successfully")
}

func setBusinessActive(db *gorm.DB, publisher broadcast.Publisher, active bool, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var business models.Business
		if err := db.Where("id = ?", c.Param("id")).First(&business).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.NotFoundResponse(c, "Business not found")
			} else {
				utils.InternalServerErrorResponse(c, "Failed to fetch business")
			}
			return
		}

		business.IsActive = active
		if err := db.Save(&business).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to update business")
			return
		}

		publisher.Dashboard("business_updated", map[string]interface{}{
			"business": business,
			"message":  "Business \"" + business.Name + "\" updated",
		})

		utils.OKResponse(c, message, business)
	}
}

// handleBusinessStats returns per-tenant reservation statistics
func handleBusinessStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.UserFromContext(c)
		businessID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			utils.BadRequestResponse(c, "Invalid business ID")
			return
		}

		if user == nil || !user.CanAccessBusiness(businessID) {
			utils.ForbiddenResponse(c, "Access denied to this business")
			return
		}

		now := time.Now()
		last7 := now.AddDate(0, 0, -7)
		last30 := now.AddDate(0, 0, -30)

		var totalUsers, totalReservations, pending, confirmed, last7Count, last30Count int64
		db.Model(&models.User{}).Where("business_id = ?", businessID).Count(&totalUsers)
		db.Model(&models.Reservation{}).Where("business_id = ?", businessID).Count(&totalReservations)
		db.Model(&models.Reservation{}).Where("business_id = ? AND status = ?", businessID, models.StatusPending).Count(&pending)
		db.Model(&models.Reservation{}).Where("business_id = ? AND status = ?", businessID, models.StatusConfirmed).Count(&confirmed)
		db.Model(&models.Reservation{}).Where("business_id = ? AND created_at >= ?", businessID, last7).Count(&last7Count)
		db.Model(&models.Reservation{}).Where("business_id = ? AND created_at >= ?", businessID, last30).Count(&last30Count)

		utils.OKResponse(c, "Business statistics retrieved successfully", gin.H{
			"total_users":               totalUsers,
			"total_reservations":        totalReservations,
			"pending_reservations":      pending,
			"confirmed_reservations":    confirmed,
			"reservations_last_7_days":  last7Count,
			"reservations_last_30_days": last30Count,
		})
	}
}
