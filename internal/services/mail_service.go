package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"fithub/config"
	"fithub/internal/models/db_models"
	"fithub/pkg/utils"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const OrderConfirmationSubject = "Your FitLife Hub Order Confirmation"

type IMailService interface {
	SendOrderConfirmation(account *db_models.Account, order *db_models.Order) error
}

// MailSender delivers one plain-text message.
type MailSender interface {
	Send(to, subject, body string) error
}

type mailService struct {
	sender MailSender
}

func NewMailService(sender MailSender) IMailService {
	return &mailService{sender: sender}
}

// NewMailSender picks SMTP when a host is configured and logs messages otherwise.
func NewMailSender(cfg config.MailConfig) MailSender {
	if strings.TrimSpace(cfg.Host) == "" {
		return LogMailSender{}
	}
	return &SMTPMailSender{cfg: cfg}
}

func (m *mailService) SendOrderConfirmation(account *db_models.Account, order *db_models.Order) error {
	if account == nil || order == nil {
		return pkgerrors.Wrap(utils.ErrInvalidInput, "order confirmation needs an account and an order")
	}
	if strings.TrimSpace(account.Email) == "" {
		return pkgerrors.Wrapf(utils.ErrMailDelivery, "account %s has no email address", account.ID)
	}

	if err := m.sender.Send(account.Email, OrderConfirmationSubject, OrderConfirmationBody(account, order)); err != nil {
		return pkgerrors.Wrapf(utils.ErrMailDelivery, "order %s: %v", order.ID, err)
	}
	return nil
}

func OrderConfirmationBody(account *db_models.Account, order *db_models.Order) string {
	return fmt.Sprintf(
		"Hi %s,\n\nThank you for your order #%s!\nOrder total: €%s\nWe'll notify you when your order ships.\n\nFitLife Hub Team",
		account.DisplayName(), order.ID, order.TotalEuros().StringFixed(2),
	)
}

// LogMailSender writes messages to the log instead of delivering them.
type LogMailSender struct{}

func (LogMailSender) Send(to, subject, body string) error {
	log.Info().
		Str("to", to).
		Str("subject", subject).
		Str("body", body).
		Msg("mail not delivered: no SMTP host configured")
	return nil
}

// ------------------- SMTP -------------------

type SMTPMailSender struct {
	cfg config.MailConfig
}

func (s *SMTPMailSender) Send(to, subject, body string) error {
	var msg bytes.Buffer
	write := func(format string, a ...any) { _, _ = msg.WriteString(fmt.Sprintf(format, a...)) }

	write("From: %s\r\n", s.formatFromHeader())
	write("To: %s\r\n", to)
	write("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	write("Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	write("MIME-Version: 1.0\r\n")
	write("Content-Type: text/plain; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n", strings.ReplaceAll(body, "\n", "\r\n"))

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	tlsCfg := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}

	var conn net.Conn
	var err error
	if s.cfg.UseSSL {
		// SMTPS (implicit TLS, usually port 465)
		conn, err = tls.DialWithDialer(&net.Dialer{Timeout: 10 * time.Second}, "tcp", addr, tlsCfg)
	} else {
		conn, err = (&net.Dialer{Timeout: 10 * time.Second}).Dial("tcp", addr)
	}
	if err != nil {
		return err
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer c.Quit()

	if !s.cfg.UseSSL {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err = c.StartTLS(tlsCfg); err != nil {
				return err
			}
		} else if s.cfg.RequireTLS {
			return fmt.Errorf("server does not support STARTTLS and RequireTLS=true")
		}
	}

	if s.cfg.Username != "" {
		if err = c.Auth(smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)); err != nil {
			return err
		}
	}
	if err = c.Mail(s.cfg.From); err != nil {
		return err
	}
	if err = c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(msg.Bytes()); err != nil {
		return err
	}
	return w.Close()
}

func (s *SMTPMailSender) formatFromHeader() string {
	name := strings.TrimSpace(s.cfg.FromName)
	if name == "" {
		return s.cfg.From
	}
	return fmt.Sprintf("%s <%s>", mime.BEncoding.Encode("utf-8", name), s.cfg.From)
}
