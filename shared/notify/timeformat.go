package notify

import "time"

const (
	dateLayout  = "January 02, 2006"
	clockLayout = "03:04 PM"
)

// FormatAppointment renders a stored absolute timestamp in the tenant's
// timezone as a long date and a 12-hour clock time. An unknown timezone
// falls back to UTC rather than failing the notification.
func FormatAppointment(t time.Time, timezone string) (date string, clock string) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return local.Format(dateLayout), local.Format(clockLayout)
}
