package main

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fadedistrict/go-booking-saas/shared/models"
	"github.com/fadedistrict/go-booking-saas/shared/utils"
)

const (
	dashboardStatsCacheKey = "dashboard:stats"
	dashboardStatsCacheTTL = 30 * time.Second
)

// dashboardStats is the super-admin dashboard summary
type dashboardStats struct {
	TotalBusinesses        int64 `json:"total_businesses"`
	ActiveBusinesses       int64 `json:"active_businesses"`
	TotalUsers             int64 `json:"total_users"`
	TotalReservations      int64 `json:"total_reservations"`
	PendingReservations    int64 `json:"pending_reservations"`
	ReservationsLast30Days int64 `json:"reservations_last_30_days"`
}

// handleDashboardStats returns platform-wide statistics, cached briefly in
// Redis since every open dashboard polls it.
func handleDashboardStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cached, err := utils.CacheGet(dashboardStatsCacheKey); err == nil {
			var stats dashboardStats
			if json.Unmarshal([]byte(cached), &stats) == nil {
				utils.OKResponse(c, "Dashboard statistics retrieved successfully", stats)
				return
			}
		}

		var stats dashboardStats
		last30 := time.Now().AddDate(0, 0, -30)

		db.Model(&models.Business{}).Count(&stats.TotalBusinesses)
		db.Model(&models.Business{}).Where("is_active = ?", true).Count(&stats.ActiveBusinesses)
		db.Model(&models.User{}).Where("role = ?", models.RoleBusinessOwner).Count(&stats.TotalUsers)
		db.Model(&models.Reservation{}).Count(&stats.TotalReservations)
		db.Model(&models.Reservation{}).Where("status = ?", models.StatusPending).Count(&stats.PendingReservations)
		db.Model(&models.Reservation{}).Where("created_at >= ?", last30).Count(&stats.ReservationsLast30Days)

		if data, err := json.Marshal(stats); err == nil {
			_ = utils.CacheSet(dashboardStatsCacheKey, string(data), dashboardStatsCacheTTL)
		}

		utils.OKResponse(c, "Dashboard statistics retrieved successfully", stats)
	}
}
