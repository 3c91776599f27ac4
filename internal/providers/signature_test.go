package providers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"regpay/pkg/utils"
)

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestHMACVerifierAcceptsValidSignature(t *testing.T) {
	body := []byte(`{"transactionId":"TXN1","status":"SUCCESS"}`)
	verifier := NewHMACVerifier("kkiapay", "topsecret")

	assert.NoError(t, verifier.Verify(body, signBody("topsecret", body)))
	assert.NoError(t, verifier.Verify(body, "sha256="+signBody("topsecret", body)))
}

func TestHMACVerifierRejectsTampering(t *testing.T) {
	body := []byte(`{"transactionId":"TXN1","status":"SUCCESS"}`)
	verifier := NewHMACVerifier("kkiapay", "topsecret")

	err := verifier.Verify([]byte(`{"transactionId":"TXN1","status":"FAILED"}`), signBody("topsecret", body))
	assert.ErrorIs(t, err, utils.ErrMalformedPayload)

	err = verifier.Verify(body, signBody("wrongsecret", body))
	assert.ErrorIs(t, err, utils.ErrMalformedPayload)

	err = verifier.Verify(body, "")
	assert.ErrorIs(t, err, utils.ErrMalformedPayload)
}

func TestVerifierForFallsBackToNoop(t *testing.T) {
	verifier := VerifierFor("cinetpay", "")
	assert.NoError(t, verifier.Verify([]byte("anything"), "any-signature"))

	verifier = VerifierFor("cinetpay", "secret")
	assert.Error(t, verifier.Verify([]byte("anything"), "bad"))
}
