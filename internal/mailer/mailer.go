// Package mailer sends transactional e-mail over SMTP.  All sends are
// best-effort from the caller's point of view: account flows and the
// booking pipeline log a failed delivery and carry on, they never fail
// the user-visible operation because a relay was down.
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"log"

	gomail "gopkg.in/gomail.v2"

	"github.com/tsering10/OP-Final-Project/internal/config"
)

// Mailer wraps a gomail dialer.  When no SMTP host is configured the
// mailer runs in log-only mode, which keeps local development and tests
// independent of a relay.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// New builds a Mailer from the application config.  A nil dialer means
// log-only mode.
func New(cfg config.Config) *Mailer {
	m := &Mailer{from: cfg.FromEmail}
	if cfg.SMTPHost != "" {
		m.dialer = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	}
	return m
}

// Send delivers one HTML message to the given recipients.
func (m *Mailer) Send(to []string, subject, htmlBody string) error {
	if m.dialer == nil {
		log.Printf("mailer: smtp disabled, dropping %q to %v", subject, to)
		return nil
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

var linkTmpl = template.Must(template.New("link").Parse(
	`<p>Hi {{.Name}},</p><p>{{.Intro}}</p><p><a href="{{.Link}}">{{.Link}}</a></p>`))

// SendAccountLink sends an activation or password-reset link.  Used by
// registration, the activation re-send and the forgot-password flow.
func (m *Mailer) SendAccountLink(to, name, subject, intro, link string) error {
	var body bytes.Buffer
	if err := linkTmpl.Execute(&body, struct {
		Name, Intro, Link string
	}{Name: name, Intro: intro, Link: link}); err != nil {
		return err
	}
	return m.Send([]string{to}, subject, body.String())
}

var bookingTmpl = template.Must(template.New("booking").Parse(
	`<p>You have successfully booked <strong>{{.Title}}</strong> with {{.Chef}}.</p>` +
		`<p>On {{.Date}} at {{.Time}}.</p>`))

// SendBookingConfirmation notifies both the customer and the hosting
// chef that a seat was booked.
func (m *Mailer) SendBookingConfirmation(customerEmail, chefEmail, title, chefName, date, timeOfDay string) error {
	var body bytes.Buffer
	if err := bookingTmpl.Execute(&body, struct {
		Title, Chef, Date, Time string
	}{Title: title, Chef: chefName, Date: date, Time: timeOfDay}); err != nil {
		return err
	}
	return m.Send([]string{customerEmail, chefEmail}, "Workshop Booking Confirmation", body.String())
}
