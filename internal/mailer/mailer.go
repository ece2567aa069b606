package mailer

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"

	"github.com/nurpe/dealership-contracts/internal/config"
)

// Mailer sends contract notification emails over SMTP. Callers treat
// it as fire-and-forget; delivery guarantees stop at the SMTP handoff.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// New returns nil when no SMTP host is configured, which disables
// notifications.
func New(cfg config.SMTPConfig) *Mailer {
	if cfg.Host == "" {
		return nil
	}
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   from,
	}
}

func (m *Mailer) SendContractDocumentEmail(toEmail, customerName string, fileNames []string, contractID uuid.UUID) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "Your contract documents have been updated")

	var body strings.Builder
	fmt.Fprintf(&body, "Hello %s,\n\n", customerName)
	fmt.Fprintf(&body, "The documents for your contract %s were updated:\n\n", contractID)
	for _, name := range fileNames {
		fmt.Fprintf(&body, "  - %s\n", name)
	}
	body.WriteString("\nPlease contact your dealer for details.\n")
	msg.SetBody("text/plain", body.String())

	return m.dialer.DialAndSend(msg)
}
