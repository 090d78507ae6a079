package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
	"time"

	"github.com/homerent/server/internal/model"
	"github.com/homerent/server/internal/port/outbound"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	templateRenewalSucceeded = "renewal_succeeded"
	templateRenewalFailed    = "renewal_failed"
)

// SMTPConfig holds SMTP configuration.
type SMTPConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	FromAddress string
	FromName    string
	BaseURL     string // for links back to the landlord dashboard
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier sends subscription notifications via SMTP.
type SMTPNotifier struct {
	config    *SMTPConfig
	templates *template.Template
	printer   *message.Printer
	send      sendFunc
	logger    *zap.Logger
}

// NewSMTPNotifier creates a new SMTP notifier.
func NewSMTPNotifier(config *SMTPConfig, logger *zap.Logger) *SMTPNotifier {
	t := template.Must(template.New(templateRenewalSucceeded).Parse(renewalSucceededTemplate))
	template.Must(t.New(templateRenewalFailed).Parse(renewalFailedTemplate))

	return &SMTPNotifier{
		config:    config,
		templates: t,
		printer:   message.NewPrinter(language.Vietnamese),
		send:      smtp.SendMail,
		logger:    logger,
	}
}

type renewalData struct {
	Name         string
	PlanName     string
	Amount       string
	EndDate      string
	DashboardURL string
}

func (s *SMTPNotifier) data(user *model.User, sub *model.LandlordSubscription, amount int64) renewalData {
	plan := sub.PlanType
	if plan == "" {
		plan = sub.PlanID
	}
	return renewalData{
		Name:         user.DisplayName(),
		PlanName:     plan,
		Amount:       s.printer.Sprintf("%d ₫", amount),
		EndDate:      sub.EndDate.Format("02/01/2006"),
		DashboardURL: strings.TrimRight(s.config.BaseURL, "/") + "/landlord/subscription",
	}
}

// SendRenewalSucceeded sends the auto-renewal receipt.
func (s *SMTPNotifier) SendRenewalSucceeded(ctx context.Context, user *model.User, sub *model.LandlordSubscription, amount int64) error {
	return s.deliver(ctx, user.Email, "Your landlord subscription has been renewed",
		templateRenewalSucceeded, s.data(user, sub, amount))
}

// SendRenewalFailed tells the user the renewal could not be charged.
func (s *SMTPNotifier) SendRenewalFailed(ctx context.Context, user *model.User, sub *model.LandlordSubscription, amount int64) error {
	return s.deliver(ctx, user.Email, "Action needed: landlord subscription renewal failed",
		templateRenewalFailed, s.data(user, sub, amount))
}

func (s *SMTPNotifier) deliver(ctx context.Context, to, subject, tmpl string, data renewalData) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, tmpl, data); err != nil {
		return fmt.Errorf("render template %s: %w", tmpl, err)
	}

	from := s.config.FromAddress
	if s.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromAddress)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nDate: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		from, to, subject, time.Now().Format(time.RFC1123Z), body.String())

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var auth smtp.Auth
	if s.config.User != "" && s.config.Password != "" {
		auth = smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)
	}

	if err := s.send(addr, auth, s.config.FromAddress, []string{to}, []byte(msg)); err != nil {
		s.logger.Error("failed to send email",
			zap.String("to", to),
			zap.String("template", tmpl),
			zap.Error(err),
		)
		return fmt.Errorf("send email: %w", err)
	}

	s.logger.Info("email sent", zap.String("to", to), zap.String("template", tmpl))
	return nil
}

// Compile-time check
var _ outbound.SubscriptionNotifierPort = (*SMTPNotifier)(nil)

const renewalSucceededTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .button { display: inline-block; padding: 12px 24px; background-color: #0F766E; color: white; text-decoration: none; border-radius: 6px; }
        .footer { margin-top: 30px; font-size: 12px; color: #666; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Subscription renewed</h1>
        <p>Hi {{.Name}},</p>
        <p>Your <strong>{{.PlanName}}</strong> landlord subscription was renewed automatically.</p>
        <p>Amount charged: <strong>{{.Amount}}</strong><br>Valid until: <strong>{{.EndDate}}</strong></p>
        <p><a href="{{.DashboardURL}}" class="button">View subscription</a></p>
        <div class="footer">
            <p>You can turn off auto-renewal at any time from your dashboard.</p>
        </div>
    </div>
</body>
</html>
`

const renewalFailedTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .button { display: inline-block; padding: 12px 24px; background-color: #B91C1C; color: white; text-decoration: none; border-radius: 6px; }
        .footer { margin-top: 30px; font-size: 12px; color: #666; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Renewal failed</h1>
        <p>Hi {{.Name}},</p>
        <p>We could not renew your <strong>{{.PlanName}}</strong> landlord subscription because your balance does not cover <strong>{{.Amount}}</strong>.</p>
        <p>Your subscription ends on <strong>{{.EndDate}}</strong>. Top up your balance to keep your listings visible.</p>
        <p><a href="{{.DashboardURL}}" class="button">Top up and renew</a></p>
        <div class="footer">
            <p>We will try again during the next renewal run.</p>
        </div>
    </div>
</body>
</html>
`
