package controller

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/eyepatch-3097/ds-chatbot/utils"
)

// mailer sends plain-text notifications over SMTP. Sends are synchronous
// and single-attempt; the caller logs and moves on when one fails.
type mailer struct {
	host     string
	port     int
	user     string
	password string
	from     string
}

func (m *mailer) configured() bool {
	return strings.TrimSpace(m.host) != "" && strings.TrimSpace(m.user) != ""
}

func (m *mailer) Send(to, subject, body string) error {
	from := m.from
	if from == "" {
		from = m.user
	}
	msg := "From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n\r\n" +
		body + "\r\n"
	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return smtp.SendMail(addr, auth, from, []string{to}, []byte(msg))
}

// notifyLead emails the configured recipient about a captured lead.
// Skipped quietly when no valid recipient or SMTP host is configured.
func (c *Controller) notifyLead(name, email, leadType, freeText, transcript string) error {
	to := utils.NormalizeEmail(c.cfg.LeadNotificationEmail)
	if !utils.ValidEmail(to) || !c.mail.configured() {
		return nil
	}
	subject := fmt.Sprintf("[Dotswitch Chatbot Lead] %s (%s)", email, leadType)
	body := "New chatbot lead from Dotswitch website.\n\n" +
		"Name: " + orPlaceholder(name, "(not provided)") + "\n" +
		"Email: " + email + "\n" +
		"Lead type: " + leadType + "\n" +
		"Free-text message: " + orPlaceholder(freeText, "(none)") + "\n\n" +
		"--- Chat Transcript ---\n\n" +
		transcript
	return c.mail.Send(to, subject, body)
}

func orPlaceholder(v, placeholder string) string {
	if strings.TrimSpace(v) == "" {
		return placeholder
	}
	return v
}
