package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadedistrict/go-booking-saas/shared/middleware"
	"github.com/fadedistrict/go-booking-saas/shared/models"
	"github.com/fadedistrict/go-booking-saas/shared/utils"
)

// withRequestContext injects a resolved tenant and authenticated caller
// the way the tenant and auth middlewares would
func withRequestContext(tenant *models.Business, user *models.UserInfo) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tenant != nil {
			c.Set(middleware.ContextTenantKey, tenant)
		}
		if user != nil {
			c.Set(middleware.ContextUserKey, user)
		}
		c.Next()
	}
}

func ownerOf(business *models.Business) *models.UserInfo {
	return &models.UserInfo{
		UserID:     uuid.New(),
		Email:      "owner@example.com",
		Role:       models.RoleBusinessOwner,
		BusinessID: &business.ID,
	}
}

func superAdmin() *models.UserInfo {
	return &models.UserInfo{
		UserID: uuid.New(),
		Email:  "admin@example.com",
		Role:   models.RoleSuperAdmin,
	}
}

func statusScopeContext(t *testing.T, tenant *models.Business, user *models.UserInfo) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPut, "/reservations/x/status", nil)
	if tenant != nil {
		c.Set(middleware.ContextTenantKey, tenant)
	}
	if user != nil {
		c.Set(middleware.ContextUserKey, user)
	}
	return c
}

func TestStatusScopeOwnerOwnSubdomain(t *testing.T) {
	tenant := testBusiness()
	c := statusScopeContext(t, tenant, ownerOf(tenant))

	scope, err := statusScope(c, nil, ownerOf(tenant))
	require.NoError(t, err)
	require.NotNil(t, scope)
	assert.Equal(t, tenant.ID, scope.ID)
}

func TestStatusScopeOwnerForeignSubdomainDenied(t *testing.T) {
	tenantA := testBusiness()
	tenantB := testBusiness()
	c := statusScopeContext(t, tenantB, ownerOf(tenantA))

	_, err := statusScope(c, nil, ownerOf(tenantA))
	assert.ErrorIs(t, err, errForeignBusiness)
}

func TestStatusScopeSuperAdminConstrainedBySubdomain(t *testing.T) {
	tenant := testBusiness()
	c := statusScopeContext(t, tenant, superAdmin())

	scope, err := statusScope(c, nil, superAdmin())
	require.NoError(t, err)
	require.NotNil(t, scope)
	assert.Equal(t, tenant.ID, scope.ID)
}

func TestStatusScopeSuperAdminMainDomainUnscoped(t *testing.T) {
	c := statusScopeContext(t, nil, superAdmin())

	scope, err := statusScope(c, nil, superAdmin())
	require.NoError(t, err)
	assert.Nil(t, scope)
}

func TestUpdateReservationStatusForeignSubdomainForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tenantA := testBusiness()
	tenantB := testBusiness()

	router := gin.New()
	router.Use(withRequestContext(tenantB, ownerOf(tenantA)))
	router.PUT("/reservations/:id/status", handleUpdateReservationStatus(nil, nil))

	body := strings.NewReader(`{"status":"confirmed"}`)
	req := httptest.NewRequest(http.MethodPut, "/reservations/"+uuid.NewString()+"/status", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateReservationForeignSubdomainForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tenantA := testBusiness()
	tenantB := testBusiness()

	router := gin.New()
	router.Use(withRequestContext(tenantB, ownerOf(tenantA)))
	router.POST("/reservations/", handleCreateReservation(nil, nil))

	body := strings.NewReader(`{
		"customer_name": "Jane Doe",
		"customer_email": "jane@example.com",
		"start_time": "2026-01-02T13:30:00Z",
		"end_time": "2026-01-02T14:00:00Z"
	}`)
	req := httptest.NewRequest(http.MethodPost, "/reservations/", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestListReservationsAnonymousIsEmpty(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/reservations/", handleListReservations(nil))

	req := httptest.NewRequest(http.MethodGet, "/reservations/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data, ok := resp.Data.([]interface{})
	require.True(t, ok)
	assert.Empty(t, data)
}

func TestParseRFC3339(t *testing.T) {
	ts, err := parseRFC3339("2026-01-02T13:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 2026, ts.Year())

	_, err = parseRFC3339("02.01.2026 13:30")
	assert.Error(t, err)
}
