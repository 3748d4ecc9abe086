package mailer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/wneessen/go-mail"

	"github.com/josphatwangui51-hash/survey-market/internal/domain"
	"github.com/josphatwangui51-hash/survey-market/internal/utils"
)

var ErrUnknownType = errors.New("mailer: unknown mail type")

type kind struct {
	file    string
	subject string
	data    func() any
}

var kinds = map[string]kind{
	domain.MailAccountCreated: {
		file:    "account_created.html",
		subject: "Survey Market - Welcome",
		data:    func() any { return &domain.AccountCreatedMailData{} },
	},
	domain.MailResetPassword: {
		file:    "reset_password.html",
		subject: "Survey Market - Password reset code",
		data:    func() any { return &domain.ResetPasswordMailData{} },
	},
	domain.MailWithdrawalResolved: {
		file:    "withdrawal_resolved.html",
		subject: "Survey Market - Withdrawal update",
		data:    func() any { return &domain.WithdrawalResolvedMailData{} },
	},
	domain.MailDirectiveIssued: {
		file:    "directive_issued.html",
		subject: "Survey Market - New directive",
		data:    func() any { return &domain.DirectiveIssuedMailData{} },
	},
}

var funcs = template.FuncMap{
	"kes":     utils.FormatKES,
	"minutes": func(seconds int) int { return seconds / 60 },
}

// Renderer turns queued mail messages into HTML emails.
type Renderer struct {
	from      string
	templates map[string]*template.Template
}

// NewRenderer parses every mail template under dir up front so a missing file
// stops the worker at startup instead of on the first message.
func NewRenderer(dir, from string) (*Renderer, error) {
	r := &Renderer{
		from:      from,
		templates: make(map[string]*template.Template, len(kinds)),
	}

	for mailType, k := range kinds {
		tmpl, err := template.New(k.file).Funcs(funcs).ParseFiles(filepath.Join(dir, k.file))
		if err != nil {
			return nil, fmt.Errorf("mailer: parse %s: %w", k.file, err)
		}
		r.templates[mailType] = tmpl
	}

	return r, nil
}

// Render returns the subject and HTML body for one message.
func (r *Renderer) Render(mailType string, data json.RawMessage) (string, string, error) {
	k, ok := kinds[mailType]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrUnknownType, mailType)
	}

	v := k.data()
	if err := json.Unmarshal(data, v); err != nil {
		return "", "", fmt.Errorf("mailer: decode %s data: %w", mailType, err)
	}

	var buf bytes.Buffer
	if err := r.templates[mailType].Execute(&buf, v); err != nil {
		return "", "", fmt.Errorf("mailer: render %s: %w", mailType, err)
	}

	return k.subject, buf.String(), nil
}

// Build decodes a queued delivery body into a ready-to-send message.
func (r *Renderer) Build(body []byte) (*mail.Msg, error) {
	var envelope struct {
		Type string          `json:"type"`
		To   string          `json:"to"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("mailer: decode message: %w", err)
	}

	subject, html, err := r.Render(envelope.Type, envelope.Data)
	if err != nil {
		return nil, err
	}

	msg := mail.NewMsg()
	if err := msg.From(r.from); err != nil {
		return nil, err
	}
	if err := msg.To(envelope.To); err != nil {
		return nil, err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, html)

	return msg, nil
}
