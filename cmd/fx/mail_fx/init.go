package mail_fx

import (
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"
	"go.uber.org/fx"
	"regpay/internal/services"
)

var Module = fx.Provide(provideMailService)

func provideMailService() services.IMailService {
	port := 587
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil && p > 0 {
		port = p
	}

	cfg := services.SMTPConfig{
		Host:       envOr("SMTP_HOST", "smtp.gmail.com"),
		Port:       port,
		Username:   os.Getenv("SMTP_USERNAME"),
		Password:   os.Getenv("SMTP_PASSWORD"),
		From:       envOr("SMTP_FROM", os.Getenv("SMTP_USERNAME")),
		FromName:   envOr("SMTP_FROM_NAME", "RegPay"),
		UseSSL:     port == 465,
		RequireTLS: true,

		AppName:    envOr("APP_NAME", "RegPay"),
		AppBaseURL: os.Getenv("APP_BASE_URL"),
	}

	mailService, err := services.NewSMTPMailService(cfg)
	if err != nil {
		log.WithError(err).Error("Failed to initialize SMTP mail service")
	}

	return mailService
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
