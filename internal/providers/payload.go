package providers

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"regpay/internal/models/db_models"
	"regpay/pkg/utils"
)

// Providers are loosely specified: the same gateway has been observed
// sending the payload bare, wrapped in {"data": {...}} or {"v1": {...}},
// with the transaction id under transactionId, transaction_id or id, and
// the status under status or state. The helpers in this file absorb that
// variance so the adapters stay declarative.

var envelopeKeys = []string{"v1", "data", "transaction"}

func decodePayload(body []byte) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrMalformedPayload, err)
	}
	return unwrapEnvelope(m), nil
}

// unwrapEnvelope peels nested provider envelopes. One level at a time,
// only when the inner value is itself an object.
func unwrapEnvelope(m map[string]any) map[string]any {
	for depth := 0; depth < 3; depth++ {
		unwrapped := false
		for _, key := range envelopeKeys {
			if inner, found := m[key].(map[string]any); found {
				m = inner
				unwrapped = true
				break
			}
		}
		if !unwrapped {
			break
		}
	}
	return m
}

func stringField(m map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := m[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			if v == math.Trunc(v) {
				return strconv.FormatInt(int64(v), 10)
			}
		}
	}
	return ""
}

func amountField(m map[string]any, keys ...string) int64 {
	for _, key := range keys {
		switch v := m[key].(type) {
		case float64:
			return int64(v)
		case string:
			if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
				return n
			}
		}
	}
	return 0
}

func requestRef(m map[string]any) (*uuid.UUID, db_models.RequestType) {
	raw := stringField(m, "requestId", "request_id", "partnerId", "partner_id")
	if raw == "" {
		return nil, ""
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, ""
	}
	switch strings.ToLower(stringField(m, "requestType", "request_type")) {
	case string(db_models.RequestTypeService):
		return &id, db_models.RequestTypeService
	default:
		return &id, db_models.RequestTypeCompany
	}
}
