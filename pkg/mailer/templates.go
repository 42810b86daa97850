package mailer

import (
	"bytes"
	"fmt"
	"text/template"
)

// Event identifies a notification template.
type Event string

const (
	EventReviewRequested     Event = "review_requested"
	EventReviewApproved      Event = "review_approved"
	EventReviewRejected      Event = "review_rejected"
	EventEarlyCloseRequested Event = "early_close_requested"
	EventEarlyCloseApproved  Event = "early_close_approved"
	EventEarlyCloseRejected  Event = "early_close_rejected"
)

// TemplateData feeds the notification templates.
type TemplateData struct {
	PersonName   string
	Category     string
	Reference    string
	Week         string
	Message      string
	Observations string
}

type mailTemplate struct {
	subject string
	body    *template.Template
}

var templates = map[Event]mailTemplate{
	EventReviewRequested: {
		subject: "Nueva revisión pendiente: {{.Category}}",
		body: template.Must(template.New("review_requested").Parse(
			`{{.PersonName}} ha enviado información de {{.Category}} para revisión.

Referencia: {{.Reference}}
`)),
	},
	EventReviewApproved: {
		subject: "Revisión aprobada: {{.Category}}",
		body: template.Must(template.New("review_approved").Parse(
			`Hola {{.PersonName}},

Tu información de {{.Category}} ha sido aprobada.
`)),
	},
	EventReviewRejected: {
		subject: "Revisión rechazada: {{.Category}}",
		body: template.Must(template.New("review_rejected").Parse(
			`Hola {{.PersonName}},

Tu información de {{.Category}} ha sido rechazada.

Observaciones: {{.Observations}}
`)),
	},
	EventEarlyCloseRequested: {
		subject: "Solicitud de cierre anticipado de semana",
		body: template.Must(template.New("early_close_requested").Parse(
			`{{.PersonName}} solicita el cierre anticipado de la semana {{.Week}}.
{{if .Message}}
Mensaje: {{.Message}}
{{end}}`)),
	},
	EventEarlyCloseApproved: {
		subject: "Cierre anticipado aprobado",
		body: template.Must(template.New("early_close_approved").Parse(
			`Hola {{.PersonName}},

Tu solicitud de cierre anticipado de la semana {{.Week}} ha sido aprobada.
`)),
	},
	EventEarlyCloseRejected: {
		subject: "Cierre anticipado rechazado",
		body: template.Must(template.New("early_close_rejected").Parse(
			`Hola {{.PersonName}},

Tu solicitud de cierre anticipado de la semana {{.Week}} ha sido rechazada.

Observaciones: {{.Observations}}
`)),
	},
}

// Render builds the message for event addressed to recipients.
func Render(event Event, to []string, data TemplateData) (Message, error) {
	tpl, ok := templates[event]
	if !ok {
		return Message{}, fmt.Errorf("unknown mail event %q", event)
	}
	subject, err := template.New("subject").Parse(tpl.subject)
	if err != nil {
		return Message{}, fmt.Errorf("parse subject: %w", err)
	}
	var subj, body bytes.Buffer
	if err := subject.Execute(&subj, data); err != nil {
		return Message{}, fmt.Errorf("render subject: %w", err)
	}
	if err := tpl.body.Execute(&body, data); err != nil {
		return Message{}, fmt.Errorf("render body: %w", err)
	}
	return Message{To: to, Subject: subj.String(), Body: body.String()}, nil
}
