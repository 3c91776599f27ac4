package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"regpay/internal/metrics"
	"regpay/internal/models/db_models"
	"regpay/internal/models/request_models"
	"regpay/internal/models/response_models"
	"regpay/internal/providers"
	"regpay/internal/repositories"
	"regpay/pkg/utils"
)

type EventSource string

const (
	SourceWebhook EventSource = "webhook"
	SourceVerify  EventSource = "verify"
)

// Ledger marker entries for sent notifications. The "has an approved
// notification ever gone out" question is answered by scanning for these,
// so duplicate webhook deliveries cannot double-email the customer.
const (
	ledgerNotifiedApproved = "notification_approved_sent"
	ledgerNotifiedFailed   = "notification_failed_sent"
)

type ReconciliationServiceInterface interface {
	// ApplyEvent advances the payment state machine for one canonical
	// provider event, exactly once per semantic event. Both webhook
	// pushes and client verify pulls funnel through here.
	ApplyEvent(ctx context.Context, event *providers.PaymentEvent, source EventSource, createdBy *uuid.UUID) (*response_models.ReconcileResponse, error)

	// VerifyPayment is the client-initiated pull path: it resolves the
	// transaction against the provider's sync API when credentials are
	// configured, then feeds the result through ApplyEvent.
	VerifyPayment(ctx context.Context, req request_models.VerifyPaymentRequest, createdBy *uuid.UUID) (*response_models.ReconcileResponse, error)

	// RecordMalformed leaves an orphan ledger trace for a payload that
	// could not be parsed at all. The caller still answers 400.
	RecordMalformed(ctx context.Context, provider string, source EventSource, raw []byte)
}

type reconciliationService struct {
	payments  repositories.PaymentRepositoryInterface
	requests  repositories.RequestRepositoryInterface
	ledger    repositories.LedgerRepositoryInterface
	notifier  NotifierInterface
	registry  *providers.Registry
	verifiers map[string]providers.Verifier
}

func NewReconciliationService(
	payments repositories.PaymentRepositoryInterface,
	requests repositories.RequestRepositoryInterface,
	ledger repositories.LedgerRepositoryInterface,
	notifier NotifierInterface,
	registry *providers.Registry,
	verifiers map[string]providers.Verifier,
) ReconciliationServiceInterface {
	return &reconciliationService{
		payments:  payments,
		requests:  requests,
		ledger:    ledger,
		notifier:  notifier,
		registry:  registry,
		verifiers: verifiers,
	}
}

func (s *reconciliationService) ApplyEvent(ctx context.Context, event *providers.PaymentEvent,
	source EventSource, createdBy *uuid.UUID) (*response_models.ReconcileResponse, error) {

	metrics.EventsReceived.WithLabelValues(event.Provider, string(source)).Inc()

	payment, err := s.payments.FindByTransactionID(ctx, event.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	created := false
	if payment == nil {
		if event.RequestID == nil || event.AmountMinor <= 0 {
			// Orphan: nothing to attach to and not enough context to
			// create a record. Ledger it and answer success, because a
			// retryable error is useless to a provider that cannot add
			// the missing context on its own.
			s.appendLedger(ctx, nil, s.eventType(source, event, "orphan"), event)
			metrics.EventOutcomes.WithLabelValues(event.Provider, "orphan").Inc()
			log.WithFields(log.Fields{
				"provider":       event.Provider,
				"transaction_id": event.TransactionID,
				"source":         source,
			}).Warn("Orphan payment event recorded")
			return &response_models.ReconcileResponse{
				Success:       true,
				TransactionID: event.TransactionID,
				PaymentStatus: string(event.Status),
				Warning:       "transaction not matched to any request",
			}, nil
		}

		payment, err = s.createFromEvent(ctx, event, createdBy)
		if err != nil {
			return nil, err
		}
		created = true
	}

	target := event.Status

	// Same status again: idempotent no-op, audit trail only. The one
	// side effect still allowed is catching up a missed approved
	// notification, deduplicated through the ledger marker.
	if payment.Status == target {
		s.appendLedger(ctx, &payment.ID, s.eventType(source, event, "duplicate"), event)
		metrics.EventOutcomes.WithLabelValues(event.Provider, "duplicate").Inc()
		if target == db_models.PaymentStatusApproved {
			s.maybeNotify(ctx, payment, NotificationApproved)
		}
		return s.response(payment, ""), nil
	}

	// A bare pending event never downgrades a terminal record. Both
	// sources derive from the same provider truth, so terminal beats
	// pending regardless of arrival order.
	if target == db_models.PaymentStatusPending && payment.Status.Terminal() {
		s.appendLedger(ctx, &payment.ID, s.eventType(source, event, "stale"), event)
		metrics.EventOutcomes.WithLabelValues(event.Provider, "stale").Inc()
		return s.response(payment, ""), nil
	}

	corrective := payment.Status.Terminal() && target.Terminal()

	applied, err := s.payments.UpdateStatus(ctx, payment.ID, payment.Status, target)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if !applied {
		// A concurrent event for the same transaction won the write.
		// Re-read and report whatever converged state it produced.
		current, rerr := s.payments.FindByTransactionID(ctx, event.TransactionID)
		if rerr != nil || current == nil {
			return nil, fmt.Errorf("%w: lost race and re-read failed: %v", utils.ErrDatabaseError, rerr)
		}
		s.appendLedger(ctx, &current.ID, s.eventType(source, event, "duplicate"), event)
		metrics.EventOutcomes.WithLabelValues(event.Provider, "duplicate").Inc()
		return s.response(current, ""), nil
	}
	payment.Status = target

	suffix := ""
	outcome := "applied"
	switch {
	case created:
		suffix = "new"
	case corrective:
		suffix = "corrected"
		outcome = "corrected"
		log.WithFields(log.Fields{
			"transaction_id": event.TransactionID,
			"to":             target,
		}).Warn("Corrective transition on terminal payment")
	}
	s.appendLedger(ctx, &payment.ID, s.eventType(source, event, suffix), event)
	metrics.EventOutcomes.WithLabelValues(event.Provider, outcome).Inc()

	// Mirror onto the owning request, best effort: the payment write is
	// already committed and a missing request must not undo it.
	requestStatus := ""
	if requestID, requestType := s.owningRequest(payment, event); requestID != nil {
		requestOutcome := db_models.RequestPaymentFailed
		if target == db_models.PaymentStatusApproved {
			requestOutcome = db_models.RequestPaymentPaid
		}
		if err := s.requests.SetPaymentOutcome(ctx, requestType, *requestID, payment.ID, requestOutcome); err != nil {
			log.WithFields(log.Fields{
				"transaction_id": event.TransactionID,
				"request_id":     requestID,
				"request_type":   requestType,
			}).WithError(err).Error("Request update failed after payment write")
		} else {
			requestStatus = string(requestOutcome)
		}
	}

	if target == db_models.PaymentStatusApproved {
		s.maybeNotify(ctx, payment, NotificationApproved)
	} else if target == db_models.PaymentStatusFailed {
		s.maybeNotify(ctx, payment, NotificationFailed)
	}

	return s.response(payment, requestStatus), nil
}

func (s *reconciliationService) VerifyPayment(ctx context.Context, req request_models.VerifyPaymentRequest,
	createdBy *uuid.UUID) (*response_models.ReconcileResponse, error) {

	providerName := strings.ToLower(strings.TrimSpace(req.Provider))
	if providerName == "" {
		providerName = "kkiapay"
	}
	if _, err := s.registry.Get(providerName); err != nil {
		return nil, err
	}

	// Pull the authoritative status when the provider exposes a sync API
	// and credentials are configured; otherwise the documented policy is
	// to treat the transaction as successful and let later webhooks
	// converge the record.
	status := db_models.PaymentStatusApproved
	providerStatus := "ASSUMED_SUCCESS"
	if verifier := s.verifiers[providerName]; verifier != nil {
		if verified, fromAPI := verifier.VerifyTransaction(req.TransactionID); fromAPI {
			status = verified
			providerStatus = strings.ToUpper(string(verified))
		}
	}

	event := &providers.PaymentEvent{
		Provider:       providerName,
		TransactionID:  req.TransactionID,
		ProviderStatus: providerStatus,
		Status:         status,
		AmountMinor:    req.AmountMinor,
		Currency:       "XOF",
		CustomerEmail:  req.CustomerEmail,
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
	}
	if raw, err := json.Marshal(req); err == nil {
		event.Raw = raw
	}

	if req.RequestID != "" {
		if id, err := uuid.Parse(req.RequestID); err == nil {
			event.RequestID = &id
			event.RequestType = db_models.RequestTypeCompany
			if strings.EqualFold(req.RequestType, string(db_models.RequestTypeService)) {
				event.RequestType = db_models.RequestTypeService
			}
		}
	}

	return s.ApplyEvent(ctx, event, SourceVerify, createdBy)
}

func (s *reconciliationService) RecordMalformed(ctx context.Context, provider string, source EventSource, raw []byte) {
	entry := &db_models.LedgerEntry{
		EventType: fmt.Sprintf("%s_%s_malformed", source, provider),
	}
	if data, err := json.Marshal(map[string]any{"raw": string(raw)}); err == nil {
		entry.EventData = datatypes.JSON(data)
	}
	if err := s.ledger.Append(ctx, entry); err != nil {
		log.WithError(err).Error("Ledger append failed for malformed payload")
	}
	metrics.EventOutcomes.WithLabelValues(provider, "malformed").Inc()
}

// createFromEvent handles webhooks racing ahead of the client's own
// payment-record creation. The unique index on transaction_id collapses
// a concurrent double-create into one row; the loser re-reads.
func (s *reconciliationService) createFromEvent(ctx context.Context, event *providers.PaymentEvent,
	createdBy *uuid.UUID) (*db_models.Payment, error) {

	payment := &db_models.Payment{
		TransactionID: event.TransactionID,
		Provider:      event.Provider,
		RequestID:     event.RequestID,
		RequestType:   event.RequestType,
		AmountMinor:   event.AmountMinor,
		Currency:      event.Currency,
		Status:        db_models.PaymentStatusPending,
		CustomerEmail: event.CustomerEmail,
		CustomerName:  event.CustomerName,
		CustomerPhone: event.CustomerPhone,
		CreatedBy:     createdBy,
	}
	if len(event.Raw) > 0 {
		payment.Metadata = datatypes.JSON(event.Raw)
	}

	if err := s.payments.Create(ctx, payment); err != nil {
		existing, ferr := s.payments.FindByTransactionID(ctx, event.TransactionID)
		if ferr == nil && existing != nil {
			return existing, nil
		}
		return nil, fmt.Errorf("%w: create payment: %v", utils.ErrDatabaseError, err)
	}
	return payment, nil
}

func (s *reconciliationService) owningRequest(payment *db_models.Payment, event *providers.PaymentEvent) (*uuid.UUID, db_models.RequestType) {
	if payment.RequestID != nil {
		return payment.RequestID, payment.RequestType
	}
	if event.RequestID != nil {
		return event.RequestID, event.RequestType
	}
	return nil, ""
}

// maybeNotify schedules a notification unless the ledger already records
// one of this kind for the payment. Best effort on both the scan and the
// send: notification problems never surface to the provider.
func (s *reconciliationService) maybeNotify(ctx context.Context, payment *db_models.Payment, kind NotificationKind) {
	marker := ledgerNotifiedFailed
	if kind == NotificationApproved {
		marker = ledgerNotifiedApproved
	}

	seen, err := s.ledger.HasEntry(ctx, payment.ID, marker)
	if err != nil {
		log.WithError(err).Warn("Notification dedup scan failed, skipping notification")
		return
	}
	if seen {
		return
	}

	s.notifier.Notify(kind, payment)
	s.appendLedger(ctx, &payment.ID, marker, nil)
}

// appendLedger records one audit entry. Failures are logged and dropped:
// the ledger must never block a payment write that already happened.
func (s *reconciliationService) appendLedger(ctx context.Context, paymentID *uuid.UUID, eventType string, event *providers.PaymentEvent) {
	entry := &db_models.LedgerEntry{
		PaymentID: paymentID,
		EventType: eventType,
	}
	if event != nil {
		data := map[string]any{
			"transaction_id":  event.TransactionID,
			"provider":        event.Provider,
			"provider_status": event.ProviderStatus,
			"mapped_status":   event.Status,
		}
		if len(event.Raw) > 0 {
			data["raw"] = json.RawMessage(event.Raw)
		}
		if b, err := json.Marshal(data); err == nil {
			entry.EventData = datatypes.JSON(b)
		}
	}

	if err := s.ledger.Append(ctx, entry); err != nil {
		log.WithFields(log.Fields{
			"event_type": eventType,
		}).WithError(err).Error("Ledger append failed")
	}
}

// eventType builds the ledger tag, e.g. "webhook_kkiapay_approved",
// "verify_failed_new", "webhook_kkiapay_approved_orphan".
func (s *reconciliationService) eventType(source EventSource, event *providers.PaymentEvent, suffix string) string {
	var tag string
	if source == SourceVerify {
		tag = fmt.Sprintf("verify_%s", event.Status)
	} else {
		tag = fmt.Sprintf("webhook_%s_%s", event.Provider, event.Status)
	}
	if suffix != "" {
		tag += "_" + suffix
	}
	return tag
}

func (s *reconciliationService) response(payment *db_models.Payment, requestStatus string) *response_models.ReconcileResponse {
	return &response_models.ReconcileResponse{
		Success:       true,
		TransactionID: payment.TransactionID,
		PaymentStatus: string(payment.Status),
		RequestStatus: requestStatus,
	}
}
