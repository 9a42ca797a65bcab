package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func confirmedJob() Job {
	return Job{
		Kind:      KindReservationConfirmed,
		Recipient: "jane@example.com",
		Data: map[string]string{
			"customer_name": "Jane Doe",
			"business_name": "Fade District",
			"brand_color":   "#FF0000",
			"date":          "January 02, 2026",
			"time":          "02:30 PM",
		},
	}
}

func TestRenderConfirmed(t *testing.T) {
	subject, html, err := Render(confirmedJob())
	require.NoError(t, err)

	assert.Equal(t, "Your Reservation is Confirmed! - Fade District", subject)
	assert.Contains(t, html, "Jane Doe")
	assert.Contains(t, html, "Fade District")
	assert.Contains(t, html, "#FF0000")
	assert.Contains(t, html, "January 02, 2026")
	assert.Contains(t, html, "02:30 PM")
}

func TestRenderCanceled(t *testing.T) {
	job := confirmedJob()
	job.Kind = KindReservationCanceled

	subject, html, err := Render(job)
	require.NoError(t, err)

	assert.Equal(t, "Your Reservation has been Canceled - Fade District", subject)
	assert.Contains(t, html, "has been canceled")
}

func TestRenderAdminIncludesCustomerContact(t *testing.T) {
	job := Job{
		Kind:      KindNewReservationAdmin,
		Recipient: "owner@fadedistrict.com",
		Data: map[string]string{
			"customer_name":  "Jane Doe",
			"customer_email": "jane@example.com",
			"customer_phone": "+49123456789",
			"business_name":  "Fade District",
			"date":           "January 02, 2026",
			"time":           "02:30 PM",
		},
	}

	subject, html, err := Render(job)
	require.NoError(t, err)

	assert.Equal(t, "New Reservation - Fade District", subject)
	assert.Contains(t, html, "jane@example.com")
	assert.Contains(t, html, "+49123456789")
}

func TestRenderUnknownKind(t *testing.T) {
	_, _, err := Render(Job{Kind: Kind("password_reset")})
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestRenderDefaultsBrandColor(t *testing.T) {
	job := confirmedJob()
	delete(job.Data, "brand_color")

	_, html, err := Render(job)
	require.NoError(t, err)
	assert.Contains(t, html, "#3B82F6")
}

func TestRenderEscapesCustomerInput(t *testing.T) {
	job := confirmedJob()
	job.Data["customer_name"] = "<script>alert(1)</script>"

	_, html, err := Render(job)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestFormatAppointment(t *testing.T) {
	// 13:30 UTC in winter is 14:30 in Berlin
	ts := time.Date(2026, time.January, 2, 13, 30, 0, 0, time.UTC)

	date, clock := FormatAppointment(ts, "Europe/Berlin")
	assert.Equal(t, "January 02, 2026", date)
	assert.Equal(t, "02:30 PM", clock)
}

func TestFormatAppointmentUnknownTimezoneFallsBackToUTC(t *testing.T) {
	ts := time.Date(2026, time.June, 15, 9, 5, 0, 0, time.UTC)

	date, clock := FormatAppointment(ts, "Mars/Olympus")
	assert.Equal(t, "June 15, 2026", date)
	assert.Equal(t, "09:05 AM", clock)
}
