package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/resource-planner-api/pkg/config"
)

func TestSMTPMailerSend(t *testing.T) {
	m := NewSMTPMailer(config.MailConfig{Host: "smtp.local", Port: 2525, From: "planner@local"})
	var gotAddr string
	var gotTo []string
	var gotMsg []byte
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, msg
		return nil
	}

	err := m.Send(context.Background(), Message{To: []string{"ana@local"}, Subject: "Hola", Body: "linea 1\nlinea 2"})
	require.NoError(t, err)
	assert.Equal(t, "smtp.local:2525", gotAddr)
	assert.Equal(t, []string{"ana@local"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Hola\r\n")
	assert.True(t, strings.HasSuffix(string(gotMsg), "linea 1\r\nlinea 2"))
}

func TestSMTPMailerPropagatesFailure(t *testing.T) {
	m := NewSMTPMailer(config.MailConfig{Host: "smtp.local", Port: 25})
	m.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("connection refused") }

	err := m.Send(context.Background(), Message{To: []string{"a@b"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestSMTPMailerTimeout(t *testing.T) {
	m := NewSMTPMailer(config.MailConfig{Host: "smtp.local", Port: 25, Timeout: 10 * time.Millisecond})
	m.send = func(string, smtp.Auth, string, []string, []byte) error {
		time.Sleep(200 * time.Millisecond)
		return nil
	}

	err := m.Send(context.Background(), Message{To: []string{"a@b"}})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMailersRequireRecipients(t *testing.T) {
	require.ErrorIs(t, NewLogMailer(zap.NewNop()).Send(context.Background(), Message{}), ErrNoRecipients)
	require.ErrorIs(t, NewSMTPMailer(config.MailConfig{}).Send(context.Background(), Message{}), ErrNoRecipients)
}

func TestNewPicksImplementation(t *testing.T) {
	assert.IsType(t, &LogMailer{}, New(config.MailConfig{}, nil))
	assert.IsType(t, &SMTPMailer{}, New(config.MailConfig{Host: "smtp.local", Port: 25}, nil))
}

func TestRenderTemplates(t *testing.T) {
	msg, err := Render(EventReviewRejected, []string{"ana@local"}, TemplateData{
		PersonName:   "Ana",
		Category:     "residencia",
		Observations: "Falta el comprobante",
	})
	require.NoError(t, err)
	assert.Equal(t, "Revisión rechazada: residencia", msg.Subject)
	assert.Contains(t, msg.Body, "Falta el comprobante")
	assert.Equal(t, []string{"ana@local"}, msg.To)

	msg, err = Render(EventEarlyCloseRequested, nil, TemplateData{PersonName: "Luis", Week: "2024-03-04"})
	require.NoError(t, err)
	assert.Contains(t, msg.Body, "2024-03-04")
	assert.NotContains(t, msg.Body, "Mensaje")

	_, err = Render(Event("nope"), nil, TemplateData{})
	require.Error(t, err)
}
