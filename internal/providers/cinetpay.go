package providers

import (
	"encoding/json"
	"fmt"

	"regpay/internal/models/db_models"
	"regpay/pkg/utils"
)

// CinetpayConfig holds the redirect-based processor settings. The
// integration has no usable synchronous status API, so verify calls for
// this provider rely on the assume-success fallback.
type CinetpayConfig struct {
	SiteID        string
	WebhookSecret string
}

type cinetpayAdapter struct {
	cfg   CinetpayConfig
	table StatusTable
}

func NewCinetpayAdapter(cfg CinetpayConfig) Adapter {
	return &cinetpayAdapter{
		cfg: cfg,
		table: StatusTable{
			Provider: "cinetpay",
			Mapping: map[string]db_models.PaymentStatus{
				"ACCEPTED":             db_models.PaymentStatusApproved,
				"SUCCES":               db_models.PaymentStatusApproved,
				"SUCCESS":              db_models.PaymentStatusApproved,
				"REFUSED":              db_models.PaymentStatusFailed,
				"CANCELED":             db_models.PaymentStatusFailed,
				"EXPIRED":              db_models.PaymentStatusFailed,
				"WAITING_FOR_CUSTOMER": db_models.PaymentStatusPending,
				"PENDING":              db_models.PaymentStatusPending,
			},
			Default: UnknownStatusDefault(),
		},
	}
}

func (p *cinetpayAdapter) Name() string { return "cinetpay" }

func (p *cinetpayAdapter) MapStatus(providerStatus string) db_models.PaymentStatus {
	return p.table.Map(providerStatus)
}

// ParseWebhook tolerates both the documented cpm_* field names and the
// plain names seen on newer notifications, with or without envelope.
func (p *cinetpayAdapter) ParseWebhook(body []byte) (*PaymentEvent, error) {
	m, err := decodePayload(body)
	if err != nil {
		return nil, err
	}

	txnID := stringField(m, "cpm_trans_id", "transactionId", "transaction_id", "id")
	if txnID == "" {
		return nil, fmt.Errorf("%w: missing transaction identifier", utils.ErrMalformedPayload)
	}

	providerStatus := stringField(m, "cpm_result", "status", "state")
	requestID, requestType := requestRef(m)

	return &PaymentEvent{
		Provider:       p.Name(),
		TransactionID:  txnID,
		ProviderStatus: providerStatus,
		Status:         p.MapStatus(providerStatus),
		AmountMinor:    amountField(m, "cpm_amount", "amount"),
		Currency:       "XOF",
		RequestID:      requestID,
		RequestType:    requestType,
		CustomerEmail:  stringField(m, "cpm_email", "email"),
		CustomerName:   stringField(m, "cpm_name", "name"),
		CustomerPhone:  stringField(m, "cpm_phone_num", "phone"),
		Raw:            json.RawMessage(body),
	}, nil
}
