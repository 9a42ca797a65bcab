package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fadedistrict/go-booking-saas/shared/models"
	"github.com/fadedistrict/go-booking-saas/shared/utils"
)

// Context keys for the resolved tenant. Values are set fresh on every
// request; downstream handlers must never cache them across requests.
const (
	ContextTenantKey    = "tenant"
	ContextSubdomainKey = "subdomain"
)

// ErrTenantNotFound is returned when a subdomain matches no active business
var ErrTenantNotFound = errors.New("tenant not found")

// TenantLookup resolves a subdomain to an active business. Injected so the
// resolver can be exercised without a database.
type TenantLookup func(subdomain string) (*models.Business, error)

// LookupActiveBusiness returns a TenantLookup backed by the database.
// Only active, non-deleted businesses resolve.
func LookupActiveBusiness(db *gorm.DB) TenantLookup {
	return func(subdomain string) (*models.Business, error) {
		var business models.Business
		err := db.Where("subdomain = ? AND is_active = ?", subdomain, true).First(&business).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTenantNotFound
			}
			return nil, err
		}
		return &business, nil
	}
}

// ExtractSubdomain extracts the tenant label from a request host.
// Hosts with at least three dot-separated labels yield the left-most label
// ("acme.example.com" -> "acme"); bare domains and localhost yield "".
func ExtractSubdomain(host string) string {
	// Strip the port if present
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	host = strings.ToLower(host)

	parts := strings.Split(host, ".")
	if len(parts) >= 3 {
		return parts[0]
	}
	return ""
}

// ResolveTenant returns middleware that resolves the request host to a
// tenant and stores it in the request context. Main-domain requests carry
// no tenant; a subdomain that matches no active business fails with 404
// before any handler runs.
func ResolveTenant(lookup TenantLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		subdomain := ExtractSubdomain(c.Request.Host)
		if subdomain == "" {
			c.Set(ContextTenantKey, (*models.Business)(nil))
			c.Set(ContextSubdomainKey, "")
			c.Next()
			return
		}

		business, err := lookup(subdomain)
		if err != nil {
			if errors.Is(err, ErrTenantNotFound) {
				utils.NotFoundResponse(c, "Business not found")
			} else {
				utils.InternalServerErrorResponse(c, "Failed to resolve business")
			}
			c.Abort()
			return
		}

		c.Set(ContextTenantKey, business)
		c.Set(ContextSubdomainKey, subdomain)
		c.Next()
	}
}

// TenantFromContext returns the tenant resolved for this request, or nil
// when the request came in on the main domain.
func TenantFromContext(c *gin.Context) *models.Business {
	value, exists := c.Get(ContextTenantKey)
	if !exists {
		return nil
	}
	business, ok := value.(*models.Business)
	if !ok {
		return nil
	}
	return business
}
