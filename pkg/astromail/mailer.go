// Package astromail sends the end-of-batch capture report by mail, so
// failing cameras surface without anyone tailing logs on the box.
package astromail

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/Asteroidea-tn/astrograb/pkg/astrocapture"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string // comma separated recipients
}

type Mailer struct {
	cfg Config
}

func New(cfg Config) *Mailer {
	return &Mailer{cfg: cfg}
}

// Enabled reports whether enough SMTP settings are present to send.
func (m *Mailer) Enabled() bool {
	return m.cfg.Host != "" && m.cfg.From != "" && m.cfg.To != ""
}

// SendReport mails a plain-text summary of the batch outcomes.
func (m *Mailer) SendReport(outcomes []astrocapture.Outcome) error {
	succeeded, failed := astrocapture.Summarize(outcomes)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", strings.Split(m.cfg.To, ",")...)
	msg.SetHeader("Subject", fmt.Sprintf("astrograb: %d captured, %d failed", succeeded, failed))
	msg.SetBody("text/plain", BuildReport(outcomes))

	port := m.cfg.Port
	if port == 0 {
		port = 587
	}

	dialer := gomail.NewDialer(m.cfg.Host, port, m.cfg.Username, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send capture report: %w", err)
	}
	return nil
}

// BuildReport renders one line per device outcome.
func BuildReport(outcomes []astrocapture.Outcome) string {
	var b strings.Builder
	for _, outcome := range outcomes {
		if outcome.OK() {
			fmt.Fprintf(&b, "[%s] OK %s (%dx%d, %s)\n",
				outcome.Device, outcome.Path, outcome.Width, outcome.Height,
				outcome.Elapsed.Round(time.Millisecond))
		} else {
			fmt.Fprintf(&b, "[%s] %s: %v\n", outcome.Device, outcome.Status, outcome.Err)
		}
	}
	return b.String()
}
