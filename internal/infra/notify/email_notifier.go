package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"gym-membership-platform/internal/config"
	"gym-membership-platform/internal/domain/ports/adapter"
)

var _ adapter.Notifier = (*EmailNotifier)(nil)

const smtpTimeout = 15 * time.Second

// EmailNotifier sends transactional member mail over SMTP.
type EmailNotifier struct {
	host    string
	port    int
	auth    smtp.Auth
	from    string
	timeout time.Duration
	log     *zerolog.Logger
}

func NewEmailNotifier(cfg config.SMTPConfig, logger *zerolog.Logger) *EmailNotifier {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	l := logger.With().Str("component", "email_notifier").Logger()
	return &EmailNotifier{
		host:    cfg.Host,
		port:    cfg.Port,
		auth:    auth,
		from:    cfg.From,
		timeout: smtpTimeout,
		log:     &l,
	}
}

func (n *EmailNotifier) SendLoginCode(ctx context.Context, email, code string) error {
	subject := "Your login code"
	body := fmt.Sprintf(
		"Your one-time login code is %s.\n\nIt expires in a few minutes. If you did not request it, ignore this mail.\n",
		code,
	)
	return n.send(ctx, email, subject, body)
}

func (n *EmailNotifier) SendMembershipActivated(ctx context.Context, email, name, planTitle string, endDate time.Time) error {
	subject := "Your membership is active"
	body := fmt.Sprintf(
		"Hi %s,\n\nYour payment went through and your %s membership is now active.\nIt is valid until %s.\n\nSee you at the gym!\n",
		name, planTitle, endDate.Format("2 January 2006"),
	)
	return n.send(ctx, email, subject, body)
}

func (n *EmailNotifier) SendDeletionConfirmation(ctx context.Context, email, name string) error {
	subject := "Your profile has been deleted"
	body := fmt.Sprintf(
		"Hi %s,\n\nYour profile and all associated data have been removed as requested.\n\nWe are sorry to see you go.\n",
		name,
	)
	return n.send(ctx, email, subject, body)
}

func (n *EmailNotifier) SendExpiryReminder(ctx context.Context, email, name string, endDate time.Time) error {
	subject := "Your membership expires soon"
	body := fmt.Sprintf(
		"Hi %s,\n\nYour membership expires on %s. Renew before then to keep your access without interruption.\n",
		name, endDate.Format("2 January 2006"),
	)
	return n.send(ctx, email, subject, body)
}

func (n *EmailNotifier) SendMembershipExpired(ctx context.Context, email, name string, endDate time.Time) error {
	subject := "Your membership has expired"
	body := fmt.Sprintf(
		"Hi %s,\n\nYour membership expired on %s. Purchase a new plan to regain access.\n",
		name, endDate.Format("2 January 2006"),
	)
	return n.send(ctx, email, subject, body)
}

// send honors ctx cancellation around the blocking SMTP conversation.
func (n *EmailNotifier) send(ctx context.Context, to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + n.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	done := make(chan error, 1)
	go func() {
		done <- n.deliver(to, []byte(msg))
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return err
		}
		n.log.Debug().Str("to", to).Str("subject", subject).Msg("mail sent")
		return nil
	}
}

// deliver runs the SMTP exchange over a deadline-bound connection so a wedged
// peer cannot hold the sending goroutine past the timeout.
func (n *EmailNotifier) deliver(to string, msg []byte) error {
	addr := fmt.Sprintf("%s:%d", n.host, n.port)
	conn, err := net.DialTimeout("tcp", addr, n.timeout)
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	_ = conn.SetDeadline(time.Now().Add(n.timeout))

	c, err := smtp.NewClient(conn, n.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer c.Close()

	if n.auth != nil {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(&tls.Config{ServerName: n.host}); err != nil {
				return fmt.Errorf("smtp starttls: %w", err)
			}
		}
		if err := c.Auth(n.auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err := c.Mail(n.from); err != nil {
		return fmt.Errorf("smtp mail: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp body: %w", err)
	}
	return c.Quit()
}
