package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/lloydpilapil/pixelmojo-leads/internal/infra/queue"

	"gopkg.in/gomail.v2"
)

func NewEmailSender(host string, port int, user, password, from, replyTo, salesInbox string) *EmailSender {
	return &EmailSender{
		Host:       host,
		Port:       port,
		User:       user,
		Password:   password,
		From:       from,
		ReplyTo:    replyTo,
		SalesInbox: salesInbox,
	}
}

// SendQualifiedAlert notifies the sales inbox about a lead in the 60-79
// band.
func (s *EmailSender) SendQualifiedAlert(payload queue.LeadAlertPayload) error {
	subject := fmt.Sprintf("New qualified lead: %s (score %d)", displayName(payload), payload.Score)
	return s.sendAlert("qualified_lead.html", subject, payload)
}

// SendHighValueAlert is the 80+ variant: distinct template, urgent framing.
func (s *EmailSender) SendHighValueAlert(payload queue.LeadAlertPayload) error {
	subject := fmt.Sprintf("🔥 HIGH-VALUE lead: %s (score %d) — reply today", displayName(payload), payload.Score)
	return s.sendAlert("high_value_lead.html", subject, payload)
}

func (s *EmailSender) sendAlert(templateName, subject string, payload queue.LeadAlertPayload) error {
	data := AlertEmailData{
		LeadID:      payload.LeadID,
		Name:        payload.Name,
		Email:       payload.Email,
		Company:     payload.Company,
		ProjectType: payload.ProjectType,
		BudgetRange: payload.BudgetRange,
		Timeline:    payload.Timeline,
		Score:       payload.Score,
	}

	tmplPath := filepath.Join("templates", templateName)
	t, err := template.ParseFiles(tmplPath)
	if err != nil {
		return fmt.Errorf("failed to read alert template: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render alert template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.SalesInbox)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}

	return nil
}

func displayName(payload queue.LeadAlertPayload) string {
	if payload.Name != "" {
		return payload.Name
	}
	return payload.Email
}

// SendFollowUp delivers a generated re-engagement email to the lead and
// returns a message id for the audit trail.
func (s *EmailSender) SendFollowUp(to, subject, html, text string) (string, error) {
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Reply-To", s.ReplyTo)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", text)
	if html != "" {
		m.AddAlternative("text/html", html)
	}

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return "", fmt.Errorf("failed to send follow-up email: %w", err)
	}

	// SMTP gives us no provider id back; mint one for the response payload.
	return uuid.New().String(), nil
}
