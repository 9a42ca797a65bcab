package notify

import (
	"bytes"
	"fmt"
	"html/template"
)

// emailTemplate pairs a subject line with an HTML body template
type emailTemplate struct {
	subject string
	body    *template.Template
}

var templates = map[Kind]emailTemplate{
	KindReservationConfirmed: {
		subject: "Your Reservation is Confirmed! - %s",
		body: template.Must(template.New("reservation_confirmed").Parse(`
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2 style="color: {{.BrandColor}};">Reservation Confirmed</h2>
  <p>Hi {{.CustomerName}},</p>
  <p>Your reservation at <strong>{{.BusinessName}}</strong> has been confirmed.</p>
  <table>
    <tr><td><strong>Date:</strong></td><td>{{.Date}}</td></tr>
    <tr><td><strong>Time:</strong></td><td>{{.Time}}</td></tr>
  </table>
  <p>We look forward to seeing you!</p>
  <p>{{.BusinessName}}</p>
</body>
</html>`)),
	},
	KindReservationCanceled: {
		subject: "Your Reservation has been Canceled - %s",
		body: template.Must(template.New("reservation_canceled").Parse(`
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2 style="color: {{.BrandColor}};">Reservation Canceled</h2>
  <p>Hi {{.CustomerName}},</p>
  <p>Your reservation at <strong>{{.BusinessName}}</strong> on {{.Date}} at {{.Time}} has been canceled.</p>
  <p>If this was a mistake, please contact us to rebook.</p>
  <p>{{.BusinessName}}</p>
</body>
</html>`)),
	},
	KindNewReservationAdmin: {
		subject: "New Reservation - %s",
		body: template.Must(template.New("new_reservation_admin").Parse(`
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>New Reservation</h2>
  <p>A new reservation has come in for <strong>{{.BusinessName}}</strong>.</p>
  <table>
    <tr><td><strong>Customer:</strong></td><td>{{.CustomerName}}</td></tr>
    <tr><td><strong>Email:</strong></td><td>{{.CustomerEmail}}</td></tr>
    <tr><td><strong>Phone:</strong></td><td>{{.CustomerPhone}}</td></tr>
    <tr><td><strong>Date:</strong></td><td>{{.Date}}</td></tr>
    <tr><td><strong>Time:</strong></td><td>{{.Time}}</td></tr>
  </table>
</body>
</html>`)),
	},
}

// templateData adapts a job's flat data map to the named template fields
type templateData struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	BusinessName  string
	BrandColor    string
	Date          string
	Time          string
}

func dataFromJob(job Job) templateData {
	brand := job.Data["brand_color"]
	if brand == "" {
		brand = "#3B82F6"
	}
	return templateData{
		CustomerName:  job.Data["customer_name"],
		CustomerEmail: job.Data["customer_email"],
		CustomerPhone: job.Data["customer_phone"],
		BusinessName:  job.Data["business_name"],
		BrandColor:    brand,
		Date:          job.Data["date"],
		Time:          job.Data["time"],
	}
}

// Render produces the subject and HTML body for a job. Template selection
// is a pure function of the notification kind; unknown kinds are rejected
// without sending anything.
func Render(job Job) (subject string, html string, err error) {
	tmpl, ok := templates[job.Kind]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrUnknownKind, job.Kind)
	}

	subject = fmt.Sprintf(tmpl.subject, job.Data["business_name"])

	var buf bytes.Buffer
	if err := tmpl.body.Execute(&buf, dataFromJob(job)); err != nil {
		return "", "", fmt.Errorf("failed to render template for %q: %w", job.Kind, err)
	}

	return subject, buf.String(), nil
}
