package email

import (
	"bytes"
	"fmt"
	"net/smtp"

	"github.com/Dan9191/mortgage-service/internal/config"
	"github.com/Dan9191/mortgage-service/internal/models"
	"github.com/Dan9191/mortgage-service/internal/report"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email, addr string, auth smtp.Auth) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// SendScheduleSummary emails the summary of a calculation with its schedule attached as CSV
func (s *Sender) SendScheduleSummary(to string, calc *models.Calculation) error {
	e, err := s.buildScheduleEmail(to, calc)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}

func (s *Sender) buildScheduleEmail(to string, calc *models.Calculation) (*email.Email, error) {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Mortgage repayment schedule #%d", calc.ID)

	var body bytes.Buffer
	body.WriteString("Hello,\n\nHere is the repayment schedule you requested.\n\n")
	if err := report.WriteSummary(&body, calc.Summary); err != nil {
		return nil, fmt.Errorf("failed to render summary: %w", err)
	}
	body.WriteString("\nThe full month by month schedule is attached.\n\nBest regards,\nMortgage Service")
	e.Text = body.Bytes()

	var attachment bytes.Buffer
	if err := report.WriteCSV(&attachment, calc.Schedule); err != nil {
		return nil, fmt.Errorf("failed to render schedule: %w", err)
	}
	if _, err := e.Attach(&attachment, fmt.Sprintf("schedule-%d.csv", calc.ID), "text/csv"); err != nil {
		return nil, fmt.Errorf("failed to attach schedule: %w", err)
	}

	return e, nil
}
