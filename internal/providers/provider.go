package providers

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"regpay/internal/models/db_models"
	"regpay/pkg/utils"
)

// PaymentEvent is the canonical shape every provider payload is reduced
// to before it reaches the reconciliation core. It is ephemeral; the raw
// payload is kept on the ledger entry, not here as persistent state.
type PaymentEvent struct {
	Provider       string
	TransactionID  string
	ProviderStatus string                // raw provider status string
	Status         db_models.PaymentStatus // mapped via the provider's table
	AmountMinor    int64
	Currency       string
	RequestID      *uuid.UUID
	RequestType    db_models.RequestType
	CustomerEmail  string
	CustomerName   string
	CustomerPhone  string
	Raw            json.RawMessage
}

// Adapter normalizes one provider's webhook payloads and maps its status
// vocabulary onto the internal one.
type Adapter interface {
	Name() string
	ParseWebhook(body []byte) (*PaymentEvent, error)
	MapStatus(providerStatus string) db_models.PaymentStatus
}

// Verifier is the synchronous status API, for providers that expose one.
// Providers without a usable sync API return ok=false and the caller
// falls back to the documented assume-success policy.
type Verifier interface {
	VerifyTransaction(transactionID string) (status db_models.PaymentStatus, ok bool)
}

// StatusTable maps a provider's status strings to internal statuses.
// Lookups are case-insensitive. Unknown statuses fall through to Default,
// which is "approved" unless PAYMENT_UNKNOWN_STATUS overrides it — a
// policy inherited from the original integration, kept loud on purpose.
type StatusTable struct {
	Provider string
	Mapping  map[string]db_models.PaymentStatus
	Default  db_models.PaymentStatus
}

func (t StatusTable) Map(providerStatus string) db_models.PaymentStatus {
	if s, found := t.Mapping[strings.ToUpper(strings.TrimSpace(providerStatus))]; found {
		return s
	}
	log.WithFields(log.Fields{
		"provider":        t.Provider,
		"provider_status": providerStatus,
		"defaulted_to":    t.Default,
	}).Warn("Unrecognized provider status, applying configured default")
	return t.Default
}

// UnknownStatusDefault reads the configured fallback for unrecognized
// provider statuses. Anything other than pending/approved/failed keeps
// the inherited default.
func UnknownStatusDefault() db_models.PaymentStatus {
	switch db_models.PaymentStatus(strings.ToLower(os.Getenv("PAYMENT_UNKNOWN_STATUS"))) {
	case db_models.PaymentStatusPending:
		return db_models.PaymentStatusPending
	case db_models.PaymentStatusFailed:
		return db_models.PaymentStatusFailed
	default:
		return db_models.PaymentStatusApproved
	}
}

// Registry resolves the adapter for the provider named in the webhook URL.
type Registry struct {
	adapters map[string]Adapter
}

func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[string]Adapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.Name()] = a
	}
	return r
}

func (r *Registry) Get(name string) (Adapter, error) {
	a, found := r.adapters[strings.ToLower(name)]
	if a == nil || !found {
		return nil, fmt.Errorf("%w: unknown provider %q", utils.ErrMalformedPayload, name)
	}
	return a, nil
}
