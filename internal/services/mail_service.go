package services

import (
	"bytes"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strings"
	"time"
)

type IMailService interface {
	SendPaymentNotification(to, subject, body, trackingNumber string) error
}

// SMTPConfig holds SMTP + branding config.
type SMTPConfig struct {
	Host       string // e.g. "smtp.gmail.com"
	Port       int    // 587 (STARTTLS) or 465 (SMTPS)
	Username   string
	Password   string
	From       string
	FromName   string
	UseSSL     bool // true for SMTPS 465, false for STARTTLS 587
	RequireTLS bool

	AppName    string
	AppBaseURL string
}

type smtpMailService struct {
	cfg     SMTPConfig
	htmlTpl *template.Template
	textTpl *template.Template
}

func NewSMTPMailService(cfg SMTPConfig) (IMailService, error) {
	return &smtpMailService{
		cfg:     cfg,
		htmlTpl: template.Must(template.New("paymentHTML").Parse(paymentHTMLTemplate)),
		textTpl: template.Must(template.New("paymentText").Parse(paymentTextTemplate)),
	}, nil
}

type emailData struct {
	Title          string
	Intro          string
	TrackingNumber string
	TrackingURL    string
	AppName        string
	Year           int
}

const paymentHTMLTemplate = `<!doctype html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width,initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    body { margin: 0; padding: 0; background: #f4f5f7; color: #1f2933;
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; }
    .container { max-width: 600px; margin: 0 auto; background: #ffffff;
      border-radius: 12px; overflow: hidden; box-shadow: 0 4px 16px rgba(0,0,0,0.08); }
    .header { padding: 24px 32px; background: #0f4c81; }
    .brand { font-weight: 700; letter-spacing: 0.5px; font-size: 20px; color: #ffffff; }
    .hero { padding: 32px; }
    h1 { margin: 0 0 16px; font-size: 24px; color: #0f4c81; }
    p { margin: 0 0 16px; line-height: 1.6; color: #3e4c59; }
    .tracking { display: inline-block; padding: 12px 20px; background: #eef2f7;
      border-radius: 8px; font-family: monospace; font-size: 18px; letter-spacing: 1px; }
    .btn { display: inline-block; margin-top: 16px; padding: 14px 28px; background: #0f4c81;
      color: #ffffff !important; text-decoration: none; border-radius: 8px; font-weight: 600; }
    .footer { padding: 20px 32px; color: #7b8794; font-size: 13px; text-align: center;
      border-top: 1px solid #e4e7eb; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header"><div class="brand">{{.AppName}}</div></div>
    <div class="hero">
      <h1>{{.Title}}</h1>
      <p>{{.Intro}}</p>
      {{if .TrackingNumber}}
        <p>Votre numéro de suivi :</p>
        <div class="tracking">{{.TrackingNumber}}</div>
        {{if .TrackingURL}}<br><a class="btn" href="{{.TrackingURL}}">Suivre ma demande</a>{{end}}
      {{end}}
    </div>
    <div class="footer">© {{.Year}} {{.AppName}}. Tous droits réservés.</div>
  </div>
</body>
</html>`

const paymentTextTemplate = `{{.Title}}

{{.Intro}}

{{if .TrackingNumber}}Numéro de suivi : {{.TrackingNumber}}
{{end}}{{if .TrackingURL}}Suivi : {{.TrackingURL}}
{{end}}
— {{.AppName}} (c) {{.Year}}
`

func (s *smtpMailService) SendPaymentNotification(to, subject, body, trackingNumber string) error {
	trackingURL := ""
	if trackingNumber != "" && s.cfg.AppBaseURL != "" {
		trackingURL = fmt.Sprintf("%s/suivi", strings.TrimRight(s.cfg.AppBaseURL, "/"))
	}

	data := emailData{
		Title:          subject,
		Intro:          body,
		TrackingNumber: trackingNumber,
		TrackingURL:    trackingURL,
		AppName:        s.cfg.AppName,
		Year:           time.Now().Year(),
	}

	var hb, tb bytes.Buffer
	if err := s.htmlTpl.Execute(&hb, data); err != nil {
		return err
	}
	if err := s.textTpl.Execute(&tb, data); err != nil {
		return err
	}
	return s.send(to, subject, hb.String(), tb.String())
}

// ------------------- SMTP send -------------------

func (s *smtpMailService) send(to, subject, htmlBody, textBody string) error {
	fromHeader := s.formatFromHeader()
	date := time.Now().Format(time.RFC1123Z)
	boundary := fmt.Sprintf("mixed_%d", time.Now().UnixNano())

	var msg bytes.Buffer
	write := func(format string, a ...any) { _, _ = msg.WriteString(fmt.Sprintf(format, a...)) }

	write("From: %s\r\n", fromHeader)
	write("To: %s\r\n", to)
	write("Subject: %s\r\n", subject)
	write("Date: %s\r\n", date)
	write("MIME-Version: 1.0\r\n")
	write("Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	write("\r\n")

	write("--%s\r\n", boundary)
	write("Content-Type: text/plain; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", textBody)

	write("--%s\r\n", boundary)
	write("Content-Type: text/html; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", htmlBody)

	write("--%s--\r\n", boundary)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	if s.cfg.UseSSL {
		// SMTPS (implicit TLS, usually port 465)
		tlsCfg := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}
		conn, err := tls.Dial("tcp", addr, tlsCfg)
		if err != nil {
			return err
		}
		defer conn.Close()

		c, err := smtp.NewClient(conn, s.cfg.Host)
		if err != nil {
			return err
		}
		defer c.Quit()

		return s.push(c, auth, to, msg.Bytes())
	}

	// STARTTLS path (typically port 587)
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.Dial("tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer c.Quit()

	if ok, _ := c.Extension("STARTTLS"); ok {
		tlsCfg := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}
		if err = c.StartTLS(tlsCfg); err != nil {
			return err
		}
	} else if s.cfg.RequireTLS {
		return fmt.Errorf("server does not support STARTTLS and RequireTLS=true")
	}

	return s.push(c, auth, to, msg.Bytes())
}

func (s *smtpMailService) push(c *smtp.Client, auth smtp.Auth, to string, msg []byte) error {
	if err := c.Auth(auth); err != nil {
		return err
	}
	if err := c.Mail(s.cfg.From); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}

func (s *smtpMailService) formatFromHeader() string {
	name := strings.TrimSpace(s.cfg.FromName)
	if name == "" {
		return s.cfg.From
	}
	return fmt.Sprintf("%s <%s>", mimeQuote(name), s.cfg.From)
}

// RFC 2047 encoded-word for non-ASCII display names.
func mimeQuote(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			enc := base64.StdEncoding.EncodeToString([]byte(s))
			return fmt.Sprintf("=?UTF-8?B?%s?=", enc)
		}
	}
	return s
}
