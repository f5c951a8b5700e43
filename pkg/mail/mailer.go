// Package mail sends transactional and operational email over SMTP.
package mail

import (
	"bytes"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"hostal/pkg/logger"
	"hostal/pkg/model"
)

// Config carries the SMTP settings resolved from the environment.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// SendFunc matches smtp.SendMail. Injectable for tests.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type Mailer struct {
	cfg  Config
	send SendFunc
	log  *logger.Logger
}

func NewMailer(cfg Config, log *logger.Logger) *Mailer {
	return &Mailer{
		cfg:  cfg,
		send: smtp.SendMail,
		log:  log,
	}
}

// NewMailerWithSender returns a Mailer that delivers through send instead of
// a real SMTP connection.
func NewMailerWithSender(cfg Config, send SendFunc, log *logger.Logger) *Mailer {
	return &Mailer{cfg: cfg, send: send, log: log}
}

func (m *Mailer) deliver(to []string, subject string, body []byte) error {
	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.Write(body)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	addr := m.cfg.Host + ":" + m.cfg.Port
	if err := m.send(addr, auth, m.cfg.From, to, msg.Bytes()); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", strings.Join(to, ", "), err)
	}
	return nil
}

// SendBookingConfirmation emails the guest their booking details.
func (m *Mailer) SendBookingConfirmation(booking *model.Booking) error {
	data := struct {
		CustomerName string
		BookingID    string
		CheckIn      string
		CheckOut     string
		RoomType     string
		GuestCount   int
		TotalPrice   float64
	}{
		CustomerName: booking.CustomerName,
		BookingID:    booking.ID,
		CheckIn:      booking.CheckIn.Format(model.DateLayout),
		CheckOut:     booking.CheckOut.Format(model.DateLayout),
		RoomType:     booking.RoomType,
		GuestCount:   booking.GuestCount,
		TotalPrice:   booking.TotalPrice,
	}

	var body bytes.Buffer
	if err := confirmationTmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render confirmation email: %w", err)
	}

	return m.deliver([]string{booking.CustomerEmail}, "Booking Confirmation - Hostal MAGIC", body.Bytes())
}

// MetricRow is a labeled numeric value in the report summary section.
type MetricRow struct {
	Label string
	Value string
}

// SendDailyReport emails the rendered report to the operator addresses.
func (m *Mailer) SendDailyReport(to []string, report *model.Report, metrics []MetricRow) error {
	if len(to) == 0 {
		m.log.Warn("no report recipients configured, skipping email")
		return nil
	}

	data := struct {
		Date     string
		Insights []string
		Alerts   []model.Alert
		Metrics  []MetricRow
	}{
		Date:     report.Date,
		Insights: report.Insights,
		Alerts:   report.Alerts,
		Metrics:  metrics,
	}

	var body bytes.Buffer
	if err := reportTmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render report email: %w", err)
	}

	subject := fmt.Sprintf("Daily Report - Hostal MAGIC - %s", report.Date)
	return m.deliver(to, subject, body.Bytes())
}

// SendPipelineFailure notifies the operator that a report run failed.
func (m *Mailer) SendPipelineFailure(to []string, stage string, cause error) error {
	if len(to) == 0 {
		return nil
	}

	data := struct {
		Timestamp string
		Stage     string
		Error     string
	}{
		Timestamp: time.Now().Format(time.RFC3339),
		Stage:     stage,
		Error:     cause.Error(),
	}

	var body bytes.Buffer
	if err := failureTmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render failure email: %w", err)
	}

	return m.deliver(to, "ERROR - Analytics Pipeline - Hostal MAGIC", body.Bytes())
}
