package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/NomadCrew/nomad-diary-backend/config"
	"github.com/NomadCrew/nomad-diary-backend/logger"
	"github.com/NomadCrew/nomad-diary-backend/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/resend/resend-go/v2"
)

// ErrEmailDisabled is returned when EMAIL_ENABLED is false.
var ErrEmailDisabled = errors.New("email delivery is disabled")

type EmailMetrics struct {
	sendLatency prometheus.Histogram
	errorCount  prometheus.Counter
	sentCount   prometheus.Counter
}

// emailSender is the part of the Resend client the service uses.
type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type EmailService struct {
	config  *config.EmailConfig
	sender  emailSender
	metrics *EmailMetrics
	tmpl    *template.Template
}

func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return NewEmailServiceWithRegistry(cfg, prometheus.DefaultRegisterer)
}

func NewEmailServiceWithRegistry(cfg *config.EmailConfig, reg prometheus.Registerer) *EmailService {
	logger.GetLogger().Infow("Initializing email service",
		"enabled", cfg.Enabled,
		"from", cfg.FromAddress,
		"apikey", logger.MaskSensitiveString(cfg.ResendAPIKey, 3, 0))
	client := resend.NewClient(cfg.ResendAPIKey)
	metrics := &EmailMetrics{
		sendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "nomaddiary_email_send_duration_seconds",
			Help:    "Time taken to send emails",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		}),
		errorCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nomaddiary_email_errors_total",
			Help: "Total number of email sending errors",
		}),
		sentCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nomaddiary_emails_sent_total",
			Help: "Total number of emails sent",
		}),
	}

	reg.MustRegister(metrics.sendLatency)
	reg.MustRegister(metrics.errorCount)
	reg.MustRegister(metrics.sentCount)

	return &EmailService{
		config:  cfg,
		sender:  client.Emails,
		metrics: metrics,
		tmpl:    template.Must(template.New("itinerary").Parse(itineraryEmailTemplate)),
	}
}

// SendItinerary mails the itinerary to every recipient in one message.
func (s *EmailService) SendItinerary(ctx context.Context, msg types.ItineraryEmail) error {
	log := logger.GetLogger()
	if !s.config.Enabled {
		return ErrEmailDisabled
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("no recipients")
	}

	startTime := time.Now()
	defer func() {
		s.metrics.sendLatency.Observe(time.Since(startTime).Seconds())
	}()

	var htmlContent bytes.Buffer
	if err := s.tmpl.Execute(&htmlContent, msg); err != nil {
		s.metrics.errorCount.Inc()
		log.Errorw("Failed to execute email template", "error", err)
		return fmt.Errorf("failed to execute template: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromAddress),
		To:      msg.To,
		Subject: fmt.Sprintf("Itinerary: %s", msg.TripTitle),
		Html:    htmlContent.String(),
	}
	if msg.ReplyTo != "" {
		params.ReplyTo = msg.ReplyTo
	}

	if _, err := s.sender.SendWithContext(ctx, params); err != nil {
		s.metrics.errorCount.Inc()
		log.Errorw("Failed to send email",
			"error", err,
			"recipients", len(msg.To),
			"subject", params.Subject)
		return fmt.Errorf("email send failed: %w", err)
	}

	s.metrics.sentCount.Inc()
	log.Infow("Email sent successfully",
		"recipients", len(msg.To),
		"subject", params.Subject)
	return nil
}

const itineraryEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.TripTitle}}</title>
    <style>
        body { font-family: sans-serif; background-color: #f7f7f7; color: #333333; margin: 0; padding: 20px; }
        .container { max-width: 640px; margin: 20px auto; background-color: #ffffff; padding: 30px; border-radius: 12px; }
        h1 { color: #F46315; font-size: 26px; }
        h2 { font-size: 18px; margin-top: 28px; border-bottom: 1px solid #eeeeee; }
        li { margin-bottom: 8px; line-height: 1.5; }
        .meta { color: #777777; font-size: 14px; }
        .button { display: inline-block; padding: 12px 24px; font-weight: bold; text-decoration: none;
                  background-color: #F46315; color: #ffffff; border-radius: 8px; }
    </style>
</head>
<body>
    <div class="container">
        <h1>{{.Itinerary.Title}}</h1>
        <p class="meta">{{.TripTitle}} &middot; {{.StartDate}} to {{.EndDate}}</p>
        {{if .SenderName}}<p>{{.SenderName}} shared this itinerary with you.</p>{{end}}
        {{with .Itinerary.Summary}}<p>{{.}}</p>{{end}}
        {{range .Itinerary.Days}}
        <h2>Day {{.DayNumber}}{{with .Title}}: {{.}}{{end}}</h2>
        <ul>
            {{range .Activities}}
            <li>{{with .Time}}<strong>{{.}}</strong> {{end}}{{.Title}}{{with .Location}} &middot; {{.}}{{end}}
                {{with .Description}}<br/><span class="meta">{{.}}</span>{{end}}</li>
            {{end}}
        </ul>
        {{end}}
        {{if .ShareURL}}
        <p><a href="{{.ShareURL}}" class="button">Open the trip diary</a></p>
        {{end}}
    </div>
</body>
</html>`
