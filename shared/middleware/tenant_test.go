package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadedistrict/go-booking-saas/shared/models"
)

func TestExtractSubdomain(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{"tenant subdomain", "acme.example.com", "acme"},
		{"tenant subdomain with port", "acme.example.com:8080", "acme"},
		{"uppercase host", "ACME.Example.COM", "acme"},
		{"bare domain", "example.com", ""},
		{"bare domain with port", "example.com:8080", ""},
		{"localhost", "localhost", ""},
		{"localhost with port", "localhost:8001", ""},
		{"deep subdomain", "acme.api.example.com", "acme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractSubdomain(tt.host))
		})
	}
}

func resolveRequest(t *testing.T, lookup TenantLookup, host string) (*httptest.ResponseRecorder, *models.Business, bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var tenant *models.Business
	var handlerRan bool

	router := gin.New()
	router.Use(ResolveTenant(lookup))
	router.GET("/", func(c *gin.Context) {
		handlerRan = true
		tenant = TenantFromContext(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "http://"+host+"/", nil)
	req.Host = host
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w, tenant, handlerRan
}

func TestResolveTenantActiveBusiness(t *testing.T) {
	business := &models.Business{
		ID:        uuid.New(),
		Name:      "Fade District",
		Subdomain: "fade",
		IsActive:  true,
	}
	lookup := func(subdomain string) (*models.Business, error) {
		require.Equal(t, "fade", subdomain)
		return business, nil
	}

	w, tenant, handlerRan := resolveRequest(t, lookup, "fade.example.com")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, handlerRan)
	require.NotNil(t, tenant)
	assert.Equal(t, business.ID, tenant.ID)
}

func TestResolveTenantUnknownSubdomain(t *testing.T) {
	lookup := func(subdomain string) (*models.Business, error) {
		return nil, ErrTenantNotFound
	}

	w, _, handlerRan := resolveRequest(t, lookup, "ghost.example.com")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, handlerRan)
}

func TestResolveTenantMainDomain(t *testing.T) {
	lookup := func(subdomain string) (*models.Business, error) {
		t.Fatal("lookup must not run for the main domain")
		return nil, nil
	}

	w, tenant, handlerRan := resolveRequest(t, lookup, "example.com")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, handlerRan)
	assert.Nil(t, tenant)
}
