package util

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Webhook signatures follow the Tink scheme: the X-Tink-Signature header
// carries "t=<unix seconds>,v1=<hex hmac>" and the HMAC-SHA256 is computed
// over "<t>.<raw body>" with the webhook secret.
// https://docs.tink.com/resources/transactions/webhooks

var webhookMaxAge = 5 * time.Minute

func VerifyWebhookSignature(secret string, header string, body []byte) error {
	if header == "" {
		return errors.New("missing X-Tink-Signature header")
	}

	var timestamp, signature string
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case "t":
			timestamp = value
		case "v1":
			signature = value
		}
	}
	if timestamp == "" || signature == "" {
		return errors.New("malformed signature header")
	}

	seconds, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid signature timestamp: %w", err)
	}
	if age := time.Since(time.Unix(seconds, 0)); age > webhookMaxAge || age < -webhookMaxAge {
		return errors.New("signature timestamp outside tolerance")
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	want := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(want), []byte(strings.ToLower(signature))) {
		return errors.New("signature mismatch")
	}
	return nil
}
