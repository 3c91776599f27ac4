package services

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"regpay/internal/metrics"
	"regpay/internal/models/db_models"
)

type NotificationKind string

const (
	NotificationApproved NotificationKind = "payment_approved"
	NotificationFailed   NotificationKind = "payment_failed"
)

// NotifierInterface is fire-and-forget. Implementations must never block
// the reconciliation core and must swallow their own failures.
type NotifierInterface interface {
	Notify(kind NotificationKind, payment *db_models.Payment)
}

type mailNotifier struct {
	mail IMailService
}

func NewMailNotifier(mail IMailService) NotifierInterface {
	return &mailNotifier{mail: mail}
}

func (n *mailNotifier) Notify(kind NotificationKind, payment *db_models.Payment) {
	if payment == nil || payment.CustomerEmail == "" {
		log.WithField("kind", kind).Debug("Notification skipped, no recipient on payment snapshot")
		return
	}

	// Copy what we need before leaving the caller's goroutine.
	to := payment.CustomerEmail
	name := payment.CustomerName
	tracking := payment.TrackingNumber
	amount := payment.AmountMinor
	currency := payment.Currency
	transactionID := payment.TransactionID

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.WithField("panic", r).Error("Notifier panicked")
			}
		}()

		var subject, body string
		switch kind {
		case NotificationApproved:
			subject = "Paiement confirmé"
			body = fmt.Sprintf("Bonjour %s, votre paiement de %d %s a bien été reçu. Votre dossier est en cours de traitement.", name, amount, currency)
		case NotificationFailed:
			subject = "Paiement échoué"
			body = fmt.Sprintf("Bonjour %s, votre paiement de %d %s n'a pas abouti. Vous pouvez réessayer depuis votre espace.", name, amount, currency)
		default:
			return
		}

		if err := n.mail.SendPaymentNotification(to, subject, body, tracking); err != nil {
			metrics.NotificationsSent.WithLabelValues(string(kind), "error").Inc()
			log.WithFields(log.Fields{
				"kind":           kind,
				"transaction_id": transactionID,
			}).WithError(err).Warn("Notification send failed")
			return
		}
		metrics.NotificationsSent.WithLabelValues(string(kind), "sent").Inc()
	}()
}
