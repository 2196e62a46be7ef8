// Package ingest provides front ends that feed incoming emails into the
// triage pipeline: an SMTP listener for forwarded support mail and a
// one-shot CLI processor.
package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/mikey/llm-email-assistant/internal/core"
	"go.uber.org/zap"
)

// SMTPProcessor accepts forwarded customer emails over SMTP, runs each
// one through the triage pipeline and optionally relays the drafted
// reply to an upstream SMTP host.
type SMTPProcessor struct {
	service      *core.AssistantService
	logger       *zap.Logger
	listenAddr   string
	server       *smtp.Server
	relayEnabled bool
	relayAddr    string
	relayPort    int
}

// NewSMTPProcessor creates a new SMTP processor
func NewSMTPProcessor(
	service *core.AssistantService,
	logger *zap.Logger,
	listenAddr string,
	relayEnabled bool,
	relayAddr string,
	relayPort int,
) *SMTPProcessor {
	return &SMTPProcessor{
		service:      service,
		logger:       logger,
		listenAddr:   listenAddr,
		relayEnabled: relayEnabled,
		relayAddr:    relayAddr,
		relayPort:    relayPort,
	}
}

// ProcessEmail runs one triage request through the pipeline
func (p *SMTPProcessor) ProcessEmail(ctx context.Context, req *core.TriageRequest) (*core.TriageResponse, error) {
	return p.service.ProcessEmail(ctx, req)
}

// Start starts the SMTP server
func (p *SMTPProcessor) Start() error {
	p.server = smtp.NewServer(&smtpBackend{processor: p})

	p.server.Addr = p.listenAddr
	p.server.Domain = "localhost"
	p.server.ReadTimeout = 30 * time.Second
	p.server.WriteTimeout = 30 * time.Second
	p.server.MaxMessageBytes = 30 * 1024 * 1024 // 30MB
	p.server.MaxRecipients = 50
	p.server.AllowInsecureAuth = true

	p.logger.Info("SMTP ingest starting", zap.String("address", p.listenAddr))

	go func() {
		if err := p.server.ListenAndServe(); err != nil {
			if err != smtp.ErrServerClosed {
				p.logger.Error("SMTP server error", zap.Error(err))
			}
		}
	}()

	return nil
}

// Stop stops the SMTP server
func (p *SMTPProcessor) Stop() error {
	if p.server != nil {
		return p.server.Close()
	}
	return nil
}

// relayReply sends the drafted reply to the configured upstream SMTP host
func (p *SMTPProcessor) relayReply(resp *core.TriageResponse) error {
	relayAddr := fmt.Sprintf("%s:%d", p.relayAddr, p.relayPort)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", relayAddr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to relay host: %w", err)
	}

	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}
	if err := c.Mail(resp.From, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}
	if err := c.Rcpt(resp.To, nil); err != nil {
		return fmt.Errorf("RCPT TO failed: %w", err)
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(formatReplyMessage(resp)); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send reply data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		p.logger.Warn("QUIT command failed", zap.Error(err))
	}

	return nil
}

// formatReplyMessage renders the drafted reply as an RFC 822 message
func formatReplyMessage(resp *core.TriageResponse) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", resp.From)
	fmt.Fprintf(&buf, "To: %s\r\n", resp.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", resp.Subject)
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(strings.ReplaceAll(resp.Body, "\n", "\r\n"))
	buf.WriteString("\r\n")
	return buf.Bytes()
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	processor *SMTPProcessor
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{
		processor:  b.processor,
		recipients: make([]string, 0),
	}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	processor  *SMTPProcessor
	sender     string
	recipients []string
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = make([]string, 0)
}

// Logout is called when the session ends
func (s *smtpSession) Logout() error {
	return nil
}

// AuthPlain handles PLAIN authentication (not needed for ingest)
func (s *smtpSession) AuthPlain(_ []byte) error {
	return smtp.ErrAuthUnsupported
}

// Mail sets the sender address
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt adds a recipient
func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data receives the message, runs it through the pipeline and logs the
// outcome. Pipeline degradation never rejects the message; only
// unreadable input does.
func (s *smtpSession) Data(r io.Reader) error {
	rawData, err := io.ReadAll(r)
	if err != nil {
		s.processor.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	msg, err := mail.ReadMessage(bytes.NewReader(rawData))
	if err != nil {
		s.processor.logger.Error("Failed to parse email message", zap.Error(err))
		return err
	}

	body, err := extractTextFromMessage(msg)
	if err != nil {
		s.processor.logger.Error("Failed to extract text content", zap.Error(err))
		return err
	}

	subject := decodeHeader(msg.Header.Get("Subject"))
	if subject == "" {
		subject = "(no subject)"
	}

	to := ""
	if len(s.recipients) > 0 {
		to = s.recipients[0]
	}

	req := &core.TriageRequest{
		From:    s.sender,
		To:      to,
		Subject: subject,
		Body:    body,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	resp, err := s.processor.ProcessEmail(ctx, req)
	if err != nil {
		s.processor.logger.Error("Failed to process email",
			zap.String("sender", s.sender),
			zap.Error(err))
		return &smtp.SMTPError{
			Code:         554,
			EnhancedCode: smtp.EnhancedCode{5, 7, 0},
			Message:      "Message could not be processed",
		}
	}

	s.processor.logger.Info("Email triaged",
		zap.String("sender", s.sender),
		zap.String("intent", resp.Intent),
		zap.Float64("confidence", resp.Confidence),
		zap.Bool("escalate", resp.Escalate),
		zap.String("reply_subject", resp.Subject))

	if s.processor.relayEnabled && !resp.Escalate {
		if err := s.processor.relayReply(resp); err != nil {
			s.processor.logger.Error("Failed to relay drafted reply", zap.Error(err))
		}
	}

	return nil
}
