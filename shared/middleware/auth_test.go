package middleware

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadedistrict/go-booking-saas/shared/config"
	"github.com/fadedistrict/go-booking-saas/shared/models"
)

func testAuthMiddleware(secret string) *AuthMiddleware {
	return NewAuthMiddleware(&config.AuthConfig{JWTSecret: secret})
}

func TestIssueAndParseToken(t *testing.T) {
	am := testAuthMiddleware("test-secret")
	businessID := uuid.New()
	user := &models.User{
		ID:         uuid.New(),
		Email:      "owner@example.com",
		Role:       models.RoleBusinessOwner,
		BusinessID: &businessID,
	}

	token, err := am.IssueToken(user, time.Hour)
	require.NoError(t, err)

	claims, err := am.ParseToken(token)
	require.NoError(t, err)

	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, "owner@example.com", claims.Email)
	assert.Equal(t, string(models.RoleBusinessOwner), claims.Role)
	assert.Equal(t, businessID.String(), claims.BusinessID)
}

func TestParseTokenWrongSecret(t *testing.T) {
	issuer := testAuthMiddleware("secret-a")
	verifier := testAuthMiddleware("secret-b")

	token, err := issuer.IssueToken(&models.User{ID: uuid.New()}, time.Hour)
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.Error(t, err)
}

func TestParseExpiredToken(t *testing.T) {
	am := testAuthMiddleware("test-secret")

	token, err := am.IssueToken(&models.User{ID: uuid.New()}, -time.Minute)
	require.NoError(t, err)

	_, err = am.ParseToken(token)
	assert.Error(t, err)
}

func TestParseGarbageToken(t *testing.T) {
	am := testAuthMiddleware("test-secret")
	_, err := am.ParseToken("not-a-jwt")
	assert.Error(t, err)
}

func TestSuperAdminTokenHasNoBusiness(t *testing.T) {
	am := testAuthMiddleware("test-secret")
	user := &models.User{
		ID:    uuid.New(),
		Email: "admin@example.com",
		Role:  models.RoleSuperAdmin,
	}

	token, err := am.IssueToken(user, time.Hour)
	require.NoError(t, err)

	claims, err := am.ParseToken(token)
	require.NoError(t, err)
	assert.Empty(t, claims.BusinessID)
}
