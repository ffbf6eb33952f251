package mailer

import (
	"log/slog"
	"os"
	"strings"
	"testing"
)

func TestLogProviderSend(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	provider := NewLogProvider(logger)

	msg := Message{
		From:    "bokning@helsingbuss.se",
		To:      []string{"kund@example.com"},
		Subject: "Er offert",
		HTML:    "<p>Offert bifogad</p>",
		Text:    "Offert bifogad",
		Attachments: []Attachment{
			{Filename: "offert.pdf", ContentType: "application/pdf", Content: []byte("%PDF-1.4")},
		},
	}

	result, err := provider.Send(msg)
	if err != nil {
		t.Fatalf("LogProvider.Send() error = %v", err)
	}

	if result.ProviderMessageID == "" {
		t.Error("LogProvider.Send() returned empty message ID")
	}

	if !strings.HasPrefix(result.ProviderMessageID, "log-") {
		t.Errorf("LogProvider.Send() message ID = %v, want prefix 'log-'", result.ProviderMessageID)
	}
}

func TestLogProviderName(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	provider := NewLogProvider(logger)

	if got := provider.Name(); got != "log" {
		t.Errorf("LogProvider.Name() = %v, want 'log'", got)
	}
}

type capturingProvider struct {
	sent []Message
}

func (c *capturingProvider) Name() string { return "capture" }

func (c *capturingProvider) Send(msg Message) (SendResult, error) {
	c.sent = append(c.sent, msg)
	return SendResult{ProviderMessageID: "capture-1"}, nil
}

func TestMailerSendUsesDefaultFromAddress(t *testing.T) {
	provider := &capturingProvider{}
	m := New(provider, "noreply@helsingbuss.se")

	_, err := m.Send(Message{
		To:      []string{"kund@example.com"},
		Subject: "Test",
		HTML:    "<p>Test</p>",
	})
	if err != nil {
		t.Fatalf("Mailer.Send() error = %v", err)
	}

	if len(provider.sent) != 1 {
		t.Fatalf("expected 1 sent message, got %d", len(provider.sent))
	}
	if got := provider.sent[0].From; got != "noreply@helsingbuss.se" {
		t.Errorf("Message.From = %v, want default sender", got)
	}
}

func TestMailerSendKeepsExplicitFromAddress(t *testing.T) {
	provider := &capturingProvider{}
	m := New(provider, "noreply@helsingbuss.se")

	_, err := m.Send(Message{
		From:    "bokning@helsingbuss.se",
		To:      []string{"kund@example.com"},
		Subject: "Test",
	})
	if err != nil {
		t.Fatalf("Mailer.Send() error = %v", err)
	}

	if got := provider.sent[0].From; got != "bokning@helsingbuss.se" {
		t.Errorf("Message.From = %v, want explicit sender", got)
	}
}

func TestMailerProviderName(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	provider := NewLogProvider(logger)
	m := New(provider, "noreply@helsingbuss.se")

	if got := m.ProviderName(); got != "log" {
		t.Errorf("Mailer.ProviderName() = %v, want 'log'", got)
	}
}

func TestResendProviderName(t *testing.T) {
	provider := NewResendProvider("fake-api-key")

	if got := provider.Name(); got != "resend" {
		t.Errorf("ResendProvider.Name() = %v, want 'resend'", got)
	}
}
