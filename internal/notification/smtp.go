package notification

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"

	mail "github.com/go-mail/mail/v2"
	"github.com/mkosyakov/kedb-service/internal/config"
)

// SMTPNotifier sends assignment mail over SMTP with mandatory STARTTLS.
type SMTPNotifier struct {
	cfg config.SMTP
	log *slog.Logger
}

func NewSMTPNotifier(cfg config.SMTP, log *slog.Logger) *SMTPNotifier {
	return &SMTPNotifier{
		cfg: cfg,
		log: log,
	}
}

func (s *SMTPNotifier) SendAssignmentNotification(ctx context.Context, n AssignmentNotification) error {
	const op = "internal.notification.SendAssignmentNotification"

	if s.cfg.Host == "" || s.cfg.From == "" {
		return fmt.Errorf("%s: smtp not configured (SMTP_HOST/SMTP_FROM)", op)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	m := mail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", n.RecipientEmail)
	m.SetHeader("Subject", fmt.Sprintf("KEDB record %s has been assigned to you", n.RecordCode))
	m.SetBody("text/html", renderAssignmentBody(n))

	d := mail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.Timeout = s.cfg.Timeout
	d.TLSConfig = &tls.Config{
		ServerName:         s.cfg.Host,
		InsecureSkipVerify: s.cfg.SkipTLSVerify,
	}

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("%s: failed to send mail: %w", op, err)
	}

	s.log.Info("assignment notification sent",
		slog.String("record", n.RecordCode),
		slog.String("recipient", n.RecipientEmail),
	)

	return nil
}

func renderAssignmentBody(n AssignmentNotification) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<p>Hello %s,</p>", n.RecipientName)
	fmt.Fprintf(&b, "<p>%s assigned the known error record <b>%s</b> (%s) to you.</p>",
		n.ActorName, n.RecordCode, n.RecordTitle)

	if n.DueDate != nil {
		fmt.Fprintf(&b, "<p>Due date: %s</p>", n.DueDate.Format("2006-01-02"))
	}

	if n.Notes != "" {
		fmt.Fprintf(&b, "<p>Notes: %s</p>", n.Notes)
	}

	b.WriteString("<p>Please review it in the Knowledge Error Database.</p>")

	return b.String()
}
