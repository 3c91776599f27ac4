package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"regpay/internal/models/db_models"
	"regpay/pkg/utils"
)

func TestCinetpayParseWebhookLegacyFields(t *testing.T) {
	adapter := NewCinetpayAdapter(CinetpayConfig{})

	body := `{"cpm_trans_id":"CP-001","cpm_result":"ACCEPTED","cpm_amount":"199000",` +
		`"cpm_phone_num":"+2250709677925","cpm_email":"client@example.ci"}`

	event, err := adapter.ParseWebhook([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, "cinetpay", event.Provider)
	assert.Equal(t, "CP-001", event.TransactionID)
	assert.Equal(t, db_models.PaymentStatusApproved, event.Status)
	assert.Equal(t, int64(199000), event.AmountMinor)
	assert.Equal(t, "+2250709677925", event.CustomerPhone)
}

func TestCinetpayParseWebhookEnvelopes(t *testing.T) {
	adapter := NewCinetpayAdapter(CinetpayConfig{})

	for name, body := range map[string]string{
		"data envelope": `{"data":{"transactionId":"CP-002","status":"REFUSED"}}`,
		"bare payload":  `{"transactionId":"CP-002","state":"REFUSED"}`,
	} {
		t.Run(name, func(t *testing.T) {
			event, err := adapter.ParseWebhook([]byte(body))
			require.NoError(t, err)
			assert.Equal(t, "CP-002", event.TransactionID)
			assert.Equal(t, db_models.PaymentStatusFailed, event.Status)
		})
	}
}

func TestCinetpayParseWebhookMalformed(t *testing.T) {
	adapter := NewCinetpayAdapter(CinetpayConfig{})

	_, err := adapter.ParseWebhook([]byte(`not json at all`))
	assert.ErrorIs(t, err, utils.ErrMalformedPayload)

	_, err = adapter.ParseWebhook([]byte(`{"cpm_result":"ACCEPTED"}`))
	assert.ErrorIs(t, err, utils.ErrMalformedPayload)
}

func TestCinetpayStatusTable(t *testing.T) {
	adapter := NewCinetpayAdapter(CinetpayConfig{})

	tests := map[string]db_models.PaymentStatus{
		"ACCEPTED":             db_models.PaymentStatusApproved,
		"SUCCES":               db_models.PaymentStatusApproved,
		"SUCCESS":              db_models.PaymentStatusApproved,
		"REFUSED":              db_models.PaymentStatusFailed,
		"CANCELED":             db_models.PaymentStatusFailed,
		"EXPIRED":              db_models.PaymentStatusFailed,
		"WAITING_FOR_CUSTOMER": db_models.PaymentStatusPending,
		"PENDING":              db_models.PaymentStatusPending,

		// Unknown statuses default to approved, same policy as kkiapay.
		"UNSEEN_STATE": db_models.PaymentStatusApproved,
	}
	for providerStatus, want := range tests {
		assert.Equal(t, want, adapter.MapStatus(providerStatus), "status %q", providerStatus)
	}
}

func TestRegistryResolvesProviders(t *testing.T) {
	registry := NewRegistry(
		NewKkiapayAdapter(KkiapayConfig{}),
		NewCinetpayAdapter(CinetpayConfig{}),
	)

	adapter, err := registry.Get("KKIAPAY")
	require.NoError(t, err)
	assert.Equal(t, "kkiapay", adapter.Name())

	_, err = registry.Get("stripe")
	assert.ErrorIs(t, err, utils.ErrMalformedPayload)
}
