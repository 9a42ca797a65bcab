package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidSubdomain(t *testing.T) {
	assert.True(t, ValidSubdomain("fade"))
	assert.True(t, ValidSubdomain("fade-district"))
	assert.True(t, ValidSubdomain("shop42"))

	assert.False(t, ValidSubdomain(""))
	assert.False(t, ValidSubdomain("Fade"))
	assert.False(t, ValidSubdomain("fade district"))
	assert.False(t, ValidSubdomain("fade.district"))
	assert.False(t, ValidSubdomain("fade_district"))
}

func TestBusinessAdminEmail(t *testing.T) {
	b := Business{Email: "owner@example.com"}
	assert.Equal(t, "owner@example.com", b.AdminEmail())

	b.EmailFromAddress = "bookings@example.com"
	assert.Equal(t, "bookings@example.com", b.AdminEmail())
}

func TestBusinessFullDomain(t *testing.T) {
	b := Business{Subdomain: "fade"}
	assert.Equal(t, "fade.example.com", b.FullDomain("example.com"))
}

func TestBusinessLocation(t *testing.T) {
	b := Business{Timezone: "Europe/Berlin"}
	loc := b.Location()
	assert.Equal(t, "Europe/Berlin", loc.String())

	b.Timezone = "Not/AZone"
	assert.Equal(t, time.UTC, b.Location())
}
