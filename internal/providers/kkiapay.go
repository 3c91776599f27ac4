package providers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"regpay/internal/models/db_models"
	"regpay/pkg/utils"
)

// KkiapayConfig holds the widget-based mobile-money processor settings.
// PrivateKey enables the synchronous verify API; without it, client
// verify calls assume success (documented policy of the integration,
// not a bug to silently fix).
type KkiapayConfig struct {
	PrivateKey    string
	WebhookSecret string // enables HMAC verification when set
	BaseURL       string
}

type kkiapayAdapter struct {
	cfg     KkiapayConfig
	table   StatusTable
	client  *resty.Client
	breaker *gobreaker.CircuitBreaker
}

func NewKkiapayAdapter(cfg KkiapayConfig) Adapter {
	return newKkiapay(cfg)
}

// NewKkiapayVerifier exposes the same adapter through its sync-API face.
func NewKkiapayVerifier(cfg KkiapayConfig) Verifier {
	return newKkiapay(cfg)
}

func newKkiapay(cfg KkiapayConfig) *kkiapayAdapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.kkiapay.me"
	}
	return &kkiapayAdapter{
		cfg: cfg,
		table: StatusTable{
			Provider: "kkiapay",
			Mapping: map[string]db_models.PaymentStatus{
				"SUCCESS":             db_models.PaymentStatusApproved,
				"TRANSACTION_SUCCESS": db_models.PaymentStatusApproved,
				"FAILED":              db_models.PaymentStatusFailed,
				"DECLINED":            db_models.PaymentStatusFailed,
				"REVERTED":            db_models.PaymentStatusFailed,
				"PENDING":             db_models.PaymentStatusPending,
				"PROCESSING":          db_models.PaymentStatusPending,
			},
			Default: UnknownStatusDefault(),
		},
		client: resty.New().
			SetBaseURL(cfg.BaseURL).
			SetTimeout(10 * time.Second).
			SetHeader("Accept", "application/json"),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "kkiapay-verify",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.Requests >= 3 && counts.TotalFailures*10 >= counts.Requests*6
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				log.WithFields(log.Fields{
					"circuit": name,
					"from":    from.String(),
					"to":      to.String(),
				}).Info("Circuit breaker state changed")
			},
		}),
	}
}

func (k *kkiapayAdapter) Name() string { return "kkiapay" }

func (k *kkiapayAdapter) MapStatus(providerStatus string) db_models.PaymentStatus {
	return k.table.Map(providerStatus)
}

func (k *kkiapayAdapter) ParseWebhook(body []byte) (*PaymentEvent, error) {
	m, err := decodePayload(body)
	if err != nil {
		return nil, err
	}

	txnID := stringField(m, "transactionId", "transaction_id", "id")
	if txnID == "" {
		return nil, fmt.Errorf("%w: missing transaction identifier", utils.ErrMalformedPayload)
	}

	providerStatus := stringField(m, "status", "state")
	requestID, requestType := requestRef(m)

	return &PaymentEvent{
		Provider:       k.Name(),
		TransactionID:  txnID,
		ProviderStatus: providerStatus,
		Status:         k.MapStatus(providerStatus),
		AmountMinor:    amountField(m, "amount"),
		Currency:       "XOF",
		RequestID:      requestID,
		RequestType:    requestType,
		CustomerEmail:  stringField(m, "email", "client_email"),
		CustomerName:   stringField(m, "name", "client_name"),
		CustomerPhone:  stringField(m, "phone", "client_phone"),
		Raw:            json.RawMessage(body),
	}, nil
}

type kkiapayStatusResponse struct {
	Status string `json:"status"`
	State  string `json:"state"`
}

// VerifyTransaction calls the provider's synchronous status API. The
// fallbacks are deliberate: no private key, network failure or an open
// breaker all degrade to assume-success, because the provider remains
// the authoritative source and its webhook will converge the record.
func (k *kkiapayAdapter) VerifyTransaction(transactionID string) (db_models.PaymentStatus, bool) {
	if strings.TrimSpace(k.cfg.PrivateKey) == "" {
		return db_models.PaymentStatusApproved, false
	}

	result, err := k.breaker.Execute(func() (interface{}, error) {
		var parsed kkiapayStatusResponse
		resp, err := k.client.R().
			SetHeader("x-private-key", k.cfg.PrivateKey).
			SetBody(map[string]string{"transactionId": transactionID}).
			SetResult(&parsed).
			Post("/api/v1/transactions/status")
		if err != nil {
			return nil, err
		}
		if resp.StatusCode() != http.StatusOK {
			return nil, fmt.Errorf("kkiapay status api: http %d", resp.StatusCode())
		}
		return &parsed, nil
	})
	if err != nil {
		log.WithFields(log.Fields{
			"provider":       "kkiapay",
			"transaction_id": transactionID,
		}).WithError(err).Warn("Sync verify unavailable, assuming success")
		return db_models.PaymentStatusApproved, false
	}

	parsed := result.(*kkiapayStatusResponse)
	providerStatus := parsed.Status
	if providerStatus == "" {
		providerStatus = parsed.State
	}
	return k.MapStatus(providerStatus), true
}
