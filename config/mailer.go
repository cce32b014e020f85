package config

import (
	"crypto/tls"
	"fmt"
	"os"
	"strconv"
	"time"

	mail "github.com/go-mail/mail/v2"
	"github.com/google/uuid"
)

func smtpHost() string { return os.Getenv("SMTP_HOST") }

func smtpPort() int {
	p, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if p == 0 {
		p = 587
	}
	return p
}

func smtpTimeout() time.Duration {
	secs, _ := strconv.Atoi(os.Getenv("SMTP_TIMEOUT_SECONDS"))
	if secs <= 0 {
		secs = 15
	}
	return time.Duration(secs) * time.Second
}

// SendMail delivers an HTML email via SMTP and returns the generated
// Message-Id. The dial and send are bounded by SMTP_TIMEOUT_SECONDS
// (default 15s); a timeout surfaces as an ordinary transport error.
func SendMail(to []string, subject, html string) (string, error) {
	if len(to) == 0 {
		return "", nil
	}

	host := smtpHost()
	from := os.Getenv("SMTP_FROM") // e.g. "Layanan Publik <no-reply@bogorkab.go.id>"
	if host == "" || from == "" {
		return "", fmt.Errorf("smtp not configured (SMTP_HOST/SMTP_FROM)")
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), host)

	m := mail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetHeader("Message-Id", messageID)
	m.SetBody("text/html", html)

	d := mail.NewDialer(host, smtpPort(), os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASS"))
	d.Timeout = smtpTimeout()

	// Mandatory STARTTLS on 587, matches Gmail/Office365 expectations.
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.TLSConfig = &tls.Config{
		ServerName:         host,
		InsecureSkipVerify: os.Getenv("SMTP_SKIP_TLS_VERIFY") == "1", // dev only
	}

	if err := d.DialAndSend(m); err != nil {
		return "", err
	}
	return messageID, nil
}
