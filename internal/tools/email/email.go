// Package email implements the email tool executor (C2): sending a
// message via SMTP with address validation and credential
// sanitization on failure (spec.md §4.2).
//
// Grounded on the teacher's go.mod net/smtp-based mail idiom,
// generalized onto this spec's validation and failure-taxonomy rules
// rather than the teacher's own channel-notification contract.
package email

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"regexp"
	"strings"

	"github.com/agentcore/turnengine/internal/agentstate"
	"github.com/agentcore/turnengine/internal/config"
)

// addressPattern is the conservative local-part@domain validator
// spec.md §4.2 requires: no whitespace, exactly one @, a non-empty
// domain containing a dot.
var addressPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Tool implements the "email" tool executor.
type Tool struct {
	Runtime *config.Runtime
	// sendMail is a seam over net/smtp.SendMail so tests don't need a
	// live SMTP server.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// New builds the email tool against the real net/smtp.SendMail.
func New(rt *config.Runtime) *Tool {
	return &Tool{Runtime: rt, sendMail: smtp.SendMail}
}

func (t *Tool) Name() string        { return "email" }
func (t *Tool) Description() string { return "Send an email via the configured SMTP account." }

func (t *Tool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"operation": {"type": "string", "enum": ["send"]},
			"to": {"type": "string"},
			"cc": {"type": "string"},
			"bcc": {"type": "string"},
			"subject": {"type": "string"},
			"body": {"type": "string"}
		},
		"required": ["operation", "to", "subject", "body"]
	}`)
}

func (t *Tool) IsEnabled(actx *agentstate.Context) bool {
	return t.Runtime.Snapshot().IsEmailEnabled()
}

type params struct {
	Operation string `json:"operation"`
	To        string `json:"to"`
	CC        string `json:"cc"`
	BCC       string `json:"bcc"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

func (t *Tool) Execute(ctx context.Context, actx *agentstate.Context, raw json.RawMessage) (*agentstate.ToolResult, error) {
	var p params
	if err := json.Unmarshal(raw, &p); err != nil {
		return agentstate.Fail(agentstate.FailureValidation, "invalid parameters: "+err.Error()), nil
	}
	if p.Operation == "" || p.To == "" || p.Subject == "" || p.Body == "" {
		return agentstate.Fail(agentstate.FailureValidation, "operation, to, subject, and body are required"), nil
	}

	to, err := splitAndValidate(p.To)
	if err != nil {
		return agentstate.Fail(agentstate.FailureValidation, err.Error()), nil
	}
	cc, err := splitAndValidate(p.CC)
	if err != nil {
		return agentstate.Fail(agentstate.FailureValidation, err.Error()), nil
	}
	bcc, err := splitAndValidate(p.BCC)
	if err != nil {
		return agentstate.Fail(agentstate.FailureValidation, err.Error()), nil
	}

	smtpCfg := t.Runtime.Snapshot().Settings().Tools.SMTP
	if smtpCfg.Host == "" {
		return agentstate.Fail(agentstate.FailureValidation, "SMTP is not configured"), nil
	}

	recipients := append(append([]string{}, to...), cc...)
	recipients = append(recipients, bcc...)

	msg := buildMessage(smtpCfg.Username, to, cc, p.Subject, p.Body)
	addr := fmt.Sprintf("%s:%d", smtpCfg.Host, smtpCfg.Port)
	auth := smtp.PlainAuth("", smtpCfg.Username, smtpCfg.Password, smtpCfg.Host)

	if err := t.sendMail(addr, auth, smtpCfg.Username, recipients, msg); err != nil {
		return agentstate.Fail(agentstate.FailureUpstreamError, sanitize(err.Error(), smtpCfg.Username, smtpCfg.Password)), nil
	}
	return agentstate.Ok(fmt.Sprintf("sent to %d recipient(s)", len(recipients)), nil), nil
}

func splitAndValidate(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		addr := strings.TrimSpace(p)
		if addr == "" {
			continue
		}
		if !addressPattern.MatchString(addr) {
			return nil, fmt.Errorf("invalid email address: %s", addr)
		}
		out = append(out, addr)
	}
	return out, nil
}

func buildMessage(from string, to, cc []string, subject, body string) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s\r\n", from)
	fmt.Fprintf(&sb, "To: %s\r\n", strings.Join(to, ", "))
	if len(cc) > 0 {
		fmt.Fprintf(&sb, "Cc: %s\r\n", strings.Join(cc, ", "))
	}
	fmt.Fprintf(&sb, "Subject: %s\r\n", subject)
	sb.WriteString("\r\n")
	sb.WriteString(body)
	return []byte(sb.String())
}

func sanitize(msg, username, password string) string {
	out := msg
	if username != "" {
		out = strings.ReplaceAll(out, username, "***")
	}
	if password != "" {
		out = strings.ReplaceAll(out, password, "***")
	}
	return out
}
