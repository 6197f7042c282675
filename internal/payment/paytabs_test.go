package payment_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bazaar/internal/payment"
)

const testKey = "SK-test-123"

func sign(msg string) string {
	mac := hmac.New(sha256.New, []byte(testKey))
	mac.Write([]byte(msg))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCallbackSignatureSortsAndEncodes(t *testing.T) {
	fields := map[string]string{
		"tran_ref":    "TST2201",
		"cart_id":     "order 1", // space must be encoded
		"resp_status": "A",
	}
	// Fields sorted by name, url-encoded, joined as a query string.
	want := sign("cart_id=order+1&resp_status=A&tran_ref=TST2201")
	assert.Equal(t, want, payment.CallbackSignature(fields, testKey))
}

func TestCallbackSignatureSkipsEmptyAndSignature(t *testing.T) {
	fields := map[string]string{
		"tran_ref":     "TST2201",
		"resp_message": "",         // empty values are dropped
		"signature":    "whatever", // never part of its own input
	}
	want := sign("tran_ref=TST2201")
	assert.Equal(t, want, payment.CallbackSignature(fields, testKey))
}

func TestVerifyCallback(t *testing.T) {
	fields := map[string]string{"tran_ref": "TST2201", "resp_status": "A"}
	good := payment.CallbackSignature(fields, testKey)

	assert.True(t, payment.VerifyCallback(fields, good, testKey))
	assert.False(t, payment.VerifyCallback(fields, "", testKey), "blank signature")
	assert.False(t, payment.VerifyCallback(fields, good, "other-key"), "wrong key")

	tampered := map[string]string{"tran_ref": "TST2201", "resp_status": "D"}
	assert.False(t, payment.VerifyCallback(tampered, good, testKey), "tampered fields")
}

func TestClientVerifyCallbackUsesOwnKey(t *testing.T) {
	c := payment.NewClient("12345", testKey, "https://secure.paytabs.sa")
	require.True(t, c.Enabled())

	fields := map[string]string{"tran_ref": "TST2201", "resp_status": "A"}
	sig := payment.CallbackSignature(fields, testKey)
	assert.True(t, c.VerifyCallback(fields, sig))

	disabled := payment.NewClient("", "", "https://secure.paytabs.sa")
	assert.False(t, disabled.Enabled())
}
