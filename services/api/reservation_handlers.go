package main

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fadedistrict/go-booking-saas/shared/middleware"
	"github.com/fadedistrict/go-booking-saas/shared/models"
	"github.com/fadedistrict/go-booking-saas/shared/utils"
)

// createReservationRequest is the booking payload. BusinessID is only
// honored for super admins on the main domain; everyone else is scoped by
// subdomain or their own tenant.
type createReservationRequest struct {
	CreateReservationInput
	BusinessID *uuid.UUID `json:"business_id"`
}

// updateReservationRequest carries the editable reservation fields
type updateReservationRequest struct {
	CustomerName  *string `json:"customer_name"`
	CustomerEmail *string `json:"customer_email"`
	CustomerPhone *string `json:"customer_phone"`
	StartTime     *string `json:"start_time"`
	EndTime       *string `json:"end_time"`
	Notes         *string `json:"notes"`
}

func parseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

type updateStatusRequest struct {
	Status models.ReservationStatus `json:"status" binding:"required"`
}

var (
	errNoBusinessContext = errors.New("no business associated with this account")
	errForeignBusiness   = errors.New("access denied to this business")
)

// statusScope resolves which tenant a status update is scoped to and
// enforces tenant access. Super admins get the subdomain tenant when one
// is present and an unscoped (nil) lookup otherwise; everyone else must
// have access to the resolved tenant.
func statusScope(c *gin.Context, db *gorm.DB, user *models.UserInfo) (*models.Business, error) {
	tenant := middleware.TenantFromContext(c)
	if user.IsSuperAdmin() {
		return tenant, nil
	}

	if tenant == nil {
		tenant, _ = bookingBusiness(c, db, nil)
		if tenant == nil {
			return nil, errNoBusinessContext
		}
	}
	if !user.CanAccessBusiness(tenant.ID) {
		return nil, errForeignBusiness
	}
	return tenant, nil
}

// bookingBusiness resolves which business a mutating reservation request
// targets: the subdomain tenant when present, otherwise the caller's own
// tenant, otherwise (super admin only) an explicit business_id.
func bookingBusiness(c *gin.Context, db *gorm.DB, explicit *uuid.UUID) (*models.Business, bool) {
	if tenant := middleware.TenantFromContext(c); tenant != nil {
		return tenant, true
	}

	user := middleware.UserFromContext(c)
	if user == nil {
		return nil, false
	}

	var businessID uuid.UUID
	switch {
	case user.IsSuperAdmin() && explicit != nil:
		businessID = *explicit
	case user.BusinessID != nil:
		businessID = *user.BusinessID
	default:
		return nil, false
	}

	var business models.Business
	if err := db.Where("id = ? AND is_active = ?", businessID, true).First(&business).Error; err != nil {
		return nil, false
	}
	return &business, true
}

// handleListReservations lists reservations visible to the caller. Scope:
// subdomain tenant first, then the caller's role; an anonymous caller on
// the main domain sees an empty set.
func handleListReservations(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant := middleware.TenantFromContext(c)
		user := middleware.UserFromContext(c)

		// Public callers may book but not browse
		if user == nil {
			utils.OKResponse(c, "Reservations retrieved successfully", []models.Reservation{})
			return
		}

		query := db.Order("created_at DESC")
		switch {
		case tenant != nil:
			if !user.IsSuperAdmin() && (user.BusinessID == nil || *user.BusinessID != tenant.ID) {
				utils.ForbiddenResponse(c, "Access denied to this business")
				return
			}
			query = query.Where("business_id = ?", tenant.ID)
		case user.IsSuperAdmin():
			// No scoping: super admins see all tenants
		case user.BusinessID != nil:
			query = query.Where("business_id = ?", *user.BusinessID)
		default:
			utils.OKResponse(c, "Reservations retrieved successfully", []models.Reservation{})
			return
		}

		var reservations []models.Reservation
		if err := query.Find(&reservations).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to fetch reservations")
			return
		}

		utils.OKResponse(c, "Reservations retrieved successfully", reservations)
	}
}

// handleCreateReservation handles public booking and staff-created
// reservations. No account is required on a tenant subdomain.
func handleCreateReservation(db *gorm.DB, svc *ReservationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createReservationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		business, ok := bookingBusiness(c, db, req.BusinessID)
		if !ok {
			utils.BadRequestResponse(c, "Business context required")
			return
		}

		user := middleware.UserFromContext(c)
		if user != nil && !user.CanAccessBusiness(business.ID) {
			utils.ForbiddenResponse(c, "Access denied to this business")
			return
		}

		reservation, err := svc.Create(c.Request.Context(), business, req.CreateReservationInput)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidWindow), errors.Is(err, ErrMissingContact):
				utils.BadRequestResponse(c, err.Error())
			default:
				utils.InternalServerErrorResponse(c, "Failed to create reservation")
			}
			return
		}

		utils.CreatedResponse(c, "Reservation created successfully", reservation)
	}
}

// handleGetReservation returns one reservation, tenant-scoped
func handleGetReservation(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.UserFromContext(c)
		if user == nil {
			utils.UnauthorizedResponse(c, "Authorization token required")
			return
		}

		var reservation models.Reservation
		query := db.Where("id = ?", c.Param("id"))
		if !user.IsSuperAdmin() {
			if user.BusinessID == nil {
				utils.ForbiddenResponse(c, "No business associated with this account")
				return
			}
			query = query.Where("business_id = ?", *user.BusinessID)
		}

		if err := query.First(&reservation).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.NotFoundResponse(c, "Reservation not found")
			} else {
				utils.InternalServerErrorResponse(c, "Failed to fetch reservation")
			}
			return
		}

		utils.OKResponse(c, "Reservation retrieved successfully", reservation)
	}
}

// handleUpdateReservation updates contact and scheduling fields. Status
// changes go through the dedicated status endpoint so transition rules and
// notifications cannot be bypassed.
func handleUpdateReservation(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.UserFromContext(c)
		if user == nil {
			utils.UnauthorizedResponse(c, "Authorization token required")
			return
		}

		var reservation models.Reservation
		query := db.Where("id = ?", c.Param("id"))
		if !user.IsSuperAdmin() {
			if user.BusinessID == nil {
				utils.ForbiddenResponse(c, "No business associated with this account")
				return
			}
			query = query.Where("business_id = ?", *user.BusinessID)
		}
		if err := query.First(&reservation).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.NotFoundResponse(c, "Reservation not found")
			} else {
				utils.InternalServerErrorResponse(c, "Failed to fetch reservation")
			}
			return
		}

		var req updateReservationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		if req.CustomerName != nil {
			reservation.CustomerName = *req.CustomerName
		}
		if req.CustomerEmail != nil {
			reservation.CustomerEmail = *req.CustomerEmail
		}
		if req.CustomerPhone != nil {
			reservation.CustomerPhone = *req.CustomerPhone
		}
		if req.Notes != nil {
			reservation.Notes = *req.Notes
		}
		if req.StartTime != nil {
			t, err := parseRFC3339(*req.StartTime)
			if err != nil {
				utils.BadRequestResponse(c, "Invalid start_time")
				return
			}
			reservation.StartTime = t
		}
		if req.EndTime != nil {
			t, err := parseRFC3339(*req.EndTime)
			if err != nil {
				utils.BadRequestResponse(c, "Invalid end_time")
				return
			}
			reservation.EndTime = t
		}

		if !reservation.ValidWindow() {
			utils.BadRequestResponse(c, ErrInvalidWindow.Error())
			return
		}

		if err := db.Save(&reservation).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to update reservation")
			return
		}

		utils.OKResponse(c, "Reservation updated successfully", reservation)
	}
}

// handleUpdateReservationStatus drives the reservation state machine
func handleUpdateReservationStatus(db *gorm.DB, svc *ReservationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.UserFromContext(c)
		if user == nil {
			utils.UnauthorizedResponse(c, "Authorization token required")
			return
		}

		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			utils.BadRequestResponse(c, "Invalid reservation ID")
			return
		}

		var req updateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		tenant, err := statusScope(c, db, user)
		if err != nil {
			if errors.Is(err, errForeignBusiness) {
				utils.ForbiddenResponse(c, "Access denied to this business")
			} else {
				utils.ForbiddenResponse(c, "No business associated with this account")
			}
			return
		}

		reservation, err := svc.UpdateStatus(c.Request.Context(), tenant, id, req.Status)
		if err != nil {
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				utils.NotFoundResponse(c, "Reservation not found")
			case errors.Is(err, ErrInvalidTransition):
				utils.BadRequestResponse(c, err.Error())
			default:
				utils.InternalServerErrorResponse(c, "Failed to update reservation status")
			}
			return
		}

		utils.OKResponse(c, "Reservation status updated successfully", reservation)
	}
}

// handleDeleteReservation hard-deletes a reservation. Super admin only;
// the normal lifecycle cancels rather than deletes.
func handleDeleteReservation(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var reservation models.Reservation
		if err := db.Where("id = ?", c.Param("id")).First(&reservation).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.NotFoundResponse(c, "Reservation not found")
			} else {
				utils.InternalServerErrorResponse(c, "Failed to fetch reservation")
			}
			return
		}

		if err := db.Unscoped().Delete(&reservation).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to delete reservation")
			return
		}

		utils.OKResponse(c, "Reservation deleted successfully", nil)
	}
}
