// Package email delivers finished reports and failure notices over
// SendGrid. Delivery failures never alter a stored report.
package email

import (
	"context"
	"fmt"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"market-movers/internal/interfaces"
	"market-movers/internal/logger"
	"market-movers/internal/report"
	"market-movers/internal/store"
	"market-movers/internal/types"
)

type SendGridDelivery struct {
	client     *sendgrid.Client
	from       *mail.Email
	recipients []string
	enabled    bool
}

var _ interfaces.Delivery = (*SendGridDelivery)(nil)

// NewSendGridDelivery builds a delivery from config. When email is
// disabled or SENDGRID_API_KEY is unset, sends become logged no-ops.
func NewSendGridDelivery(cfg *store.Config) *SendGridDelivery {
	d := &SendGridDelivery{
		from:       mail.NewEmail(cfg.Email.FromName, cfg.Email.From),
		recipients: cfg.Email.Recipients,
		enabled:    cfg.Email.Enabled,
	}

	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		d.enabled = false
	} else {
		d.client = sendgrid.NewSendClient(apiKey)
	}

	if !d.enabled {
		logger.Warn(context.Background(), "Email delivery disabled",
			"configured", cfg.Email.Enabled,
			"has_api_key", apiKey != "",
		)
	}

	return d
}

func (d *SendGridDelivery) SendReport(ctx context.Context, r *types.Report) error {
	if !d.enabled {
		logger.Info(ctx, "Email disabled, skipping report delivery", "date", r.Date)
		return nil
	}

	html, err := report.RenderHTML(r)
	if err != nil {
		return err
	}

	return d.send(ctx, report.Subject(r), report.RenderText(r), html)
}

func (d *SendGridDelivery) SendFailureNotice(ctx context.Context, date, detail string) error {
	if !d.enabled {
		logger.Info(ctx, "Email disabled, skipping failure notice", "date", date)
		return nil
	}

	subject := fmt.Sprintf("Market Movers %s: report generation failed", date)
	body := fmt.Sprintf("Report generation for %s failed.\n\n%s\n", date, detail)
	html := fmt.Sprintf("<p>Report generation for <strong>%s</strong> failed.</p><pre>%s</pre>", date, detail)

	return d.send(ctx, subject, body, html)
}

func (d *SendGridDelivery) send(ctx context.Context, subject, plain, html string) error {
	m := mail.NewV3Mail()
	m.SetFrom(d.from)
	m.Subject = subject
	m.AddContent(mail.NewContent("text/plain", plain))
	m.AddContent(mail.NewContent("text/html", html))

	p := mail.NewPersonalization()
	for _, addr := range d.recipients {
		p.AddTos(mail.NewEmail("", addr))
	}
	m.AddPersonalizations(p)

	resp, err := d.client.SendWithContext(ctx, m)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}

	logger.Info(ctx, "Email sent",
		"subject", subject,
		"recipients", len(d.recipients),
		"status", resp.StatusCode,
	)
	return nil
}
