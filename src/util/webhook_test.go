package util

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedHeader(secret string, ts time.Time, body []byte) string {
	timestamp := fmt.Sprintf("%d", ts.Unix())
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp + "."))
	mac.Write(body)
	return fmt.Sprintf("t=%s,v1=%s", timestamp, hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifyWebhookSignature(t *testing.T) {
	body := []byte(`{"event":"refresh:finished"}`)
	header := signedHeader("secret", time.Now(), body)

	require.NoError(t, VerifyWebhookSignature("secret", header, body))
}

func TestVerifyWebhookSignatureUppercaseHex(t *testing.T) {
	body := []byte(`{}`)
	header := strings.ToUpper(signedHeader("secret", time.Now(), body))
	// The t= and v1= keys are lowercase in the real header; only the hex
	// digest is case-insensitive.
	header = strings.Replace(header, "T=", "t=", 1)
	header = strings.Replace(header, "V1=", "v1=", 1)

	assert.NoError(t, VerifyWebhookSignature("secret", header, body))
}

func TestVerifyWebhookSignatureWrongSecret(t *testing.T) {
	body := []byte(`{}`)
	header := signedHeader("other-secret", time.Now(), body)

	err := VerifyWebhookSignature("secret", header, body)
	assert.EqualError(t, err, "signature mismatch")
}

func TestVerifyWebhookSignatureTamperedBody(t *testing.T) {
	header := signedHeader("secret", time.Now(), []byte(`{"a":1}`))

	err := VerifyWebhookSignature("secret", header, []byte(`{"a":2}`))
	assert.EqualError(t, err, "signature mismatch")
}

func TestVerifyWebhookSignatureStaleTimestamp(t *testing.T) {
	body := []byte(`{}`)
	header := signedHeader("secret", time.Now().Add(-10*time.Minute), body)

	err := VerifyWebhookSignature("secret", header, body)
	assert.EqualError(t, err, "signature timestamp outside tolerance")
}

func TestVerifyWebhookSignatureFutureTimestamp(t *testing.T) {
	body := []byte(`{}`)
	header := signedHeader("secret", time.Now().Add(10*time.Minute), body)

	err := VerifyWebhookSignature("secret", header, body)
	assert.EqualError(t, err, "signature timestamp outside tolerance")
}

func TestVerifyWebhookSignatureMalformedHeaders(t *testing.T) {
	body := []byte(`{}`)

	assert.Error(t, VerifyWebhookSignature("secret", "", body))
	assert.Error(t, VerifyWebhookSignature("secret", "garbage", body))
	assert.Error(t, VerifyWebhookSignature("secret", "t=123", body))
	assert.Error(t, VerifyWebhookSignature("secret", "v1=abc", body))
	assert.Error(t, VerifyWebhookSignature("secret", "t=notanumber,v1=abc", body))
}
