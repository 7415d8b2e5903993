package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

// FormatCents renders an integer-cents amount as a decimal string for
// display. Money stays in cents everywhere else.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// AppointmentInvite carries everything the mailer needs to render a
// booking/reschedule notification and its calendar attachment.
type AppointmentInvite struct {
	AppointmentID uint
	PatientName   string
	ServiceType   string
	Date          string // YYYY-MM-DD
	Time          string // HH:MM
	ConfirmURL    string
}

// BuildICS renders a minimal VCALENDAR invite for the appointment. Slots are
// one hour long.
func BuildICS(invite AppointmentInvite) (string, error) {
	start, err := time.Parse("2006-01-02 15:04", invite.Date+" "+invite.Time)
	if err != nil {
		return "", fmt.Errorf("failed to build calendar invite: %w", err)
	}
	end := start.Add(time.Hour)

	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//PearlDental//Appointments//EN\r\n")
	b.WriteString("BEGIN:VEVENT\r\n")
	b.WriteString("UID:" + uuid.New().String() + "@pearldental\r\n")
	b.WriteString("DTSTAMP:" + time.Now().UTC().Format("20060102T150405Z") + "\r\n")
	b.WriteString("DTSTART:" + start.Format("20060102T150405") + "\r\n")
	b.WriteString("DTEND:" + end.Format("20060102T150405") + "\r\n")
	b.WriteString("SUMMARY:Dental appointment - " + invite.ServiceType + "\r\n")
	b.WriteString("END:VEVENT\r\n")
	b.WriteString("END:VCALENDAR\r\n")
	return b.String(), nil
}

// SendBookingEmail sends the booking confirmation with a calendar invite and
// the confirm/cancel link. Callers treat mail as fire-and-forget: failures
// are logged and reported but never roll back the booking.
func SendBookingEmail(email string, invite AppointmentInvite) error {
	subject := "Your appointment request"
	text := fmt.Sprintf("Your %s appointment is requested for %s at %s.\nConfirm or cancel: %s",
		invite.ServiceType, invite.Date, invite.Time, invite.ConfirmURL)
	html := fmt.Sprintf(`
	<div style="font-family: Arial, sans-serif;">
		<h1>Appointment requested</h1>
		<p>Hello %s,</p>
		<p>Your <strong>%s</strong> appointment is requested for <strong>%s</strong> at <strong>%s</strong>.</p>
		<p><a href="%s">Confirm or cancel your appointment</a></p>
	</div>`, invite.PatientName, invite.ServiceType, invite.Date, invite.Time, invite.ConfirmURL)

	return sendWithInvite(email, subject, text, html, &invite)
}

// SendRescheduleEmail notifies the patient of a changed date/time.
func SendRescheduleEmail(email string, invite AppointmentInvite) error {
	subject := "Your appointment was rescheduled"
	text := fmt.Sprintf("Your %s appointment has been moved to %s at %s.",
		invite.ServiceType, invite.Date, invite.Time)
	html := fmt.Sprintf(`
	<div style="font-family: Arial, sans-serif;">
		<h1>Appointment rescheduled</h1>
		<p>Hello %s,</p>
		<p>Your <strong>%s</strong> appointment has been moved to <strong>%s</strong> at <strong>%s</strong>.</p>
	</div>`, invite.PatientName, invite.ServiceType, invite.Date, invite.Time)

	return sendWithInvite(email, subject, text, html, &invite)
}

// SendBillingReceiptEmail sends the post-treatment billing summary.
func SendBillingReceiptEmail(email, patientName string, totalCents int64) error {
	subject := "Your treatment receipt"
	amount := FormatCents(totalCents)
	text := fmt.Sprintf("Thank you for your visit. Total billed: %s", amount)
	html := fmt.Sprintf(`
	<div style="font-family: Arial, sans-serif;">
		<h1>Treatment receipt</h1>
		<p>Hello %s,</p>
		<p>Thank you for your visit. Total billed: <strong>%s</strong>.</p>
		<p>You can settle the balance at the front desk, or ask about an installment plan.</p>
	</div>`, patientName, amount)

	return sendWithInvite(email, subject, text, html, nil)
}

func sendWithInvite(email, subject, text, html string, invite *AppointmentInvite) error {
	fromEmail := os.Getenv("SMTP_USER")

	m := gomail.NewMessage()
	m.SetHeader("From", fromEmail)
	m.SetHeader("To", email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", text)
	m.AddAlternative("text/html", html)

	if invite != nil {
		ics, err := BuildICS(*invite)
		if err != nil {
			log.Printf("Skipping calendar attachment: %v", err)
		} else {
			m.Attach("appointment.ics", gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write([]byte(ics))
				return err
			}))
		}
	}

	return dialAndSend(m)
}

func dialAndSend(m *gomail.Message) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPortStr := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")

	smtpPort, err := strconv.Atoi(smtpPortStr)
	if err != nil {
		return fmt.Errorf("invalid SMTP_PORT value: %w", err)
	}

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
