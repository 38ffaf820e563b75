// Package mailer delivers account e-mails over SMTP.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/logging"
	"gopkg.in/gomail.v2"
)

// Message is a single HTML e-mail.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer sends messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// VerificationMessage builds the e-mail that carries a registration link.
func VerificationMessage(to, link string) Message {
	escaped := html.EscapeString(link)
	return Message{
		To:      to,
		Subject: "Verify your email",
		HTML:    fmt.Sprintf(`<p>Click here to verify: <a href="%s">%s</a></p>`, escaped, escaped),
	}
}

// Config holds SMTP settings.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer sends each message over a fresh SMTP connection.
type SMTPMailer struct {
	from   string
	dialer dialer
	logger logging.Logger
}

func NewSMTPMailer(cfg Config, l logging.Logger) *SMTPMailer {
	return &SMTPMailer{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		logger: l.With("module", "mailer"),
	}
}

func (s *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("send email: empty recipient")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	s.logger.Info(ctx, "email sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

// ErrClosed is returned by Async.Send once Close has been called.
var ErrClosed = errors.New("mailer closed")

// Async hands messages to the wrapped Mailer in background goroutines and
// returns immediately. Delivery failures are logged.
type Async struct {
	next   Mailer
	logger logging.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewAsync(next Mailer, l logging.Logger) *Async {
	return &Async{next: next, logger: l.With("module", "mailer_async")}
}

func (a *Async) Send(ctx context.Context, msg Message) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrClosed
	}
	a.wg.Add(1)
	a.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	go func() {
		defer a.wg.Done()
		if err := a.next.Send(ctx, msg); err != nil {
			a.logger.Error(ctx, "email delivery failed", "to", msg.To, "error", err)
		}
	}()

	return nil
}

// Close stops accepting messages and blocks until in-flight sends finish.
func (a *Async) Close() {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()

	a.wg.Wait()
}
