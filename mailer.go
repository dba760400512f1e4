package accounts

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"time"

	"github.com/gofiber/template/django/v3"
	goerrors "github.com/goliatone/go-errors"
)

// TemplateRenderer renders the outbound email bodies from django
// templates on disk: reset.html and verify.html.
type TemplateRenderer struct {
	engine *django.Engine
}

var _ EmailRenderer = (*TemplateRenderer)(nil)

// NewTemplateRenderer loads the template directory eagerly so that a
// missing or broken template fails at startup, not at send time.
func NewTemplateRenderer(dir string) (*TemplateRenderer, error) {
	engine := django.New(dir, ".html")
	if err := engine.Load(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load email templates")
	}
	return &TemplateRenderer{engine: engine}, nil
}

func (r *TemplateRenderer) RenderReset(email, name, code string) (string, error) {
	return r.render("reset", map[string]any{
		"user_email": email,
		"user_name":  name,
		"user_code":  code,
	})
}

func (r *TemplateRenderer) RenderVerify(email, link string) (string, error) {
	return r.render("verify", map[string]any{
		"user_email": email,
		"user_link":  link,
	})
}

func (r *TemplateRenderer) render(name string, binding map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := r.engine.Render(&buf, name, binding); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to render email template").
			WithMetadata(map[string]any{"template": name})
	}
	return buf.String(), nil
}

// SMTPMailer delivers mail over implicit TLS, the :465 flavor where the
// TLS handshake happens before any SMTP traffic.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	logger   Logger
}

var _ Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer creates a mailer. The username doubles as the sender
// address unless WithFrom overrides it.
func NewSMTPMailer(host string, port int, username, password string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     username,
		logger:   defLogger{},
	}
}

// WithFrom overrides the envelope sender.
func (m *SMTPMailer) WithFrom(from string) *SMTPMailer {
	if from != "" {
		m.from = from
	}
	return m
}

// WithLogger overrides the logger used by the mailer.
func (m *SMTPMailer) WithLogger(logger Logger) *SMTPMailer {
	if logger != nil {
		m.logger = logger
	}
	return m
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	dialer := &net.Dialer{Timeout: 10 * time.Second}
	conn, err := tls.DialWithDialer(dialer, "tcp", addr, &tls.Config{ServerName: m.host})
	if err != nil {
		return m.deliveryError(err, "smtp dial failed", to)
	}

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return m.deliveryError(err, "smtp handshake failed", to)
	}
	defer client.Close()

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	if err := client.Auth(auth); err != nil {
		return m.deliveryError(err, "smtp auth failed", to)
	}

	if err := client.Mail(m.from); err != nil {
		return m.deliveryError(err, "smtp sender rejected", to)
	}
	if err := client.Rcpt(to); err != nil {
		return m.deliveryError(err, "smtp recipient rejected", to)
	}

	w, err := client.Data()
	if err != nil {
		return m.deliveryError(err, "smtp data command failed", to)
	}

	msg := buildMessage(m.from, to, subject, htmlBody)
	if _, err := w.Write([]byte(msg)); err != nil {
		return m.deliveryError(err, "smtp write failed", to)
	}
	if err := w.Close(); err != nil {
		return m.deliveryError(err, "smtp message rejected", to)
	}

	return client.Quit()
}

func (m *SMTPMailer) deliveryError(err error, msg, to string) error {
	m.logger.Error("%s: %v", msg, err)
	return goerrors.Wrap(err, goerrors.CategoryOperation, msg).
		WithTextCode(TextCodeDeliveryFailed).
		WithMetadata(map[string]any{"recipient": to})
}

func buildMessage(from, to, subject, htmlBody string) string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	b.WriteString("\r\n")
	return b.String()
}
