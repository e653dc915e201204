package tools

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/smtp"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/focusforge/focusforge/internal/llm"
)

// SMTPConfig carries the fallback transport for outbound mail.
type SMTPConfig struct {
	Server   string
	Port     int
	User     string
	Password string
}

// EmailClient reads mail through the Gmail API and sends through Gmail with
// an SMTP fallback. Without a Gmail token every read yields empty results.
type EmailClient struct {
	gmail    *gmail.Service
	smtp     SMTPConfig
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailClient(ctx context.Context, token string, smtpCfg SMTPConfig) (*EmailClient, error) {
	if smtpCfg.Server == "" {
		smtpCfg.Server = "smtp.gmail.com"
	}
	if smtpCfg.Port == 0 {
		smtpCfg.Port = 587
	}
	client := &EmailClient{smtp: smtpCfg, sendMail: smtp.SendMail}
	if token == "" {
		return client, nil
	}
	source, err := tokenSource(token)
	if err != nil {
		return nil, fmt.Errorf("parsing gmail token: %w", err)
	}
	service, err := gmail.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, fmt.Errorf("creating gmail service: %w", err)
	}
	client.gmail = service
	return client, nil
}

func (c *EmailClient) Authenticated() bool {
	return c.gmail != nil
}

// EmailSummary is the reduced message shape handed to the model.
type EmailSummary struct {
	ID      string `json:"id"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Date    string `json:"date"`
	Snippet string `json:"snippet"`
}

// RecentEmails lists inbox metadata for up to maxResults messages matching
// the optional Gmail query. Unauthenticated clients and API failures yield
// an empty list.
func (c *EmailClient) RecentEmails(ctx context.Context, maxResults int, query string) []EmailSummary {
	if c.gmail == nil {
		return []EmailSummary{}
	}
	list, err := c.gmail.Users.Messages.List("me").
		MaxResults(int64(maxResults)).
		Q(query).
		Context(ctx).
		Do()
	if err != nil {
		return []EmailSummary{}
	}
	emails := make([]EmailSummary, 0, len(list.Messages))
	for _, ref := range list.Messages {
		message, err := c.gmail.Users.Messages.Get("me", ref.Id).
			Format("metadata").
			MetadataHeaders("From", "Subject", "Date").
			Context(ctx).
			Do()
		if err != nil {
			return []EmailSummary{}
		}
		summary := EmailSummary{ID: ref.Id, Snippet: message.Snippet}
		if message.Payload != nil {
			for _, header := range message.Payload.Headers {
				switch header.Name {
				case "From":
					summary.From = header.Value
				case "Subject":
					summary.Subject = header.Value
				case "Date":
					summary.Date = header.Value
				}
			}
		}
		emails = append(emails, summary)
	}
	return emails
}

// DraftEmail builds a reviewable draft without sending anything.
func (c *EmailClient) DraftEmail(to, subject, body string) map[string]any {
	return map[string]any{
		"draft": map[string]any{
			"to":      to,
			"subject": subject,
			"body":    body,
		},
		"note": "This is a draft. User can review before sending.",
	}
}

// SendResult reports the outcome of a send attempt. Failures are carried in
// the result rather than returned as Go errors.
type SendResult struct {
	Success   bool   `json:"success"`
	Method    string `json:"method,omitempty"`
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// SendEmail delivers through the Gmail API when authenticated, falling back
// to SMTP with STARTTLS.
func (c *EmailClient) SendEmail(ctx context.Context, to, subject, body string) SendResult {
	if c.gmail != nil {
		raw := fmt.Sprintf("To: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n%s", to, subject, body)
		message := &gmail.Message{Raw: base64.URLEncoding.EncodeToString([]byte(raw))}
		sent, err := c.gmail.Users.Messages.Send("me", message).Context(ctx).Do()
		if err == nil {
			return SendResult{Success: true, Method: "gmail_api", MessageID: sent.Id}
		}
	}

	if c.smtp.User == "" || c.smtp.Password == "" {
		return SendResult{Success: false, Error: "SMTP credentials not configured"}
	}
	addr := fmt.Sprintf("%s:%d", c.smtp.Server, c.smtp.Port)
	auth := smtp.PlainAuth("", c.smtp.User, c.smtp.Password, c.smtp.Server)
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", c.smtp.User, to, subject, body)
	if err := c.sendMail(addr, auth, c.smtp.User, []string{to}, []byte(msg)); err != nil {
		return SendResult{Success: false, Error: err.Error()}
	}
	return SendResult{Success: true, Method: "smtp"}
}

// EmailTools exposes the read and draft operations as planner tools. Sending
// stays out of the model's hands.
func EmailTools(client *EmailClient) []Tool {
	return []Tool{
		{
			Name:        "get_recent_emails",
			Description: "Get recent emails from user's inbox. Useful for understanding context, pending tasks, or important communications related to the session.",
			Parameters: llm.ParamSchema{
				Properties: map[string]llm.Param{
					"max_results": {Type: "integer", Description: "Maximum number of emails to return (default: 10)"},
					"query":       {Type: "string", Description: "Gmail search query (optional, e.g., 'from:example@gmail.com' or 'subject:meeting')"},
				},
			},
			Handler: func(ctx context.Context, args map[string]any) (map[string]any, error) {
				emails := client.RecentEmails(ctx, intArg(args, "max_results", 10), stringArg(args, "query"))
				return map[string]any{"emails": emails, "count": len(emails)}, nil
			},
		},
		{
			Name:        "draft_email",
			Description: "Create a draft email. Use this when user's session activity suggests they need to send an email. Always create a draft first for user review before sending.",
			Parameters: llm.ParamSchema{
				Properties: map[string]llm.Param{
					"to":      {Type: "string", Description: "Recipient email address"},
					"subject": {Type: "string", Description: "Email subject line"},
					"body":    {Type: "string", Description: "Email body content"},
				},
				Required: []string{"to", "subject", "body"},
			},
			Handler: func(ctx context.Context, args map[string]any) (map[string]any, error) {
				return client.DraftEmail(stringArg(args, "to"), stringArg(args, "subject"), stringArg(args, "body")), nil
			},
		},
	}
}
