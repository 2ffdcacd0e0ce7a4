//go:build !integration

package payment

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"testing"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestValidSignature(t *testing.T) {
	secret := "sk_test_abc123"
	body := []byte(`{"event":"charge.success","data":{"reference":"pro-acct123-1700000000000"}}`)

	t.Run("matching signature", func(t *testing.T) {
		if !ValidSignature(secret, body, sign(secret, body)) {
			t.Error("expected a valid signature to pass")
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		if ValidSignature(secret, body, sign("sk_other", body)) {
			t.Error("expected a signature under another key to fail")
		}
	})

	t.Run("tampered body", func(t *testing.T) {
		sig := sign(secret, body)
		tampered := []byte(`{"event":"charge.success","data":{"reference":"pro-intruder-1"}}`)
		if ValidSignature(secret, tampered, sig) {
			t.Error("expected a tampered body to fail")
		}
	})

	t.Run("empty signature", func(t *testing.T) {
		if ValidSignature(secret, body, "") {
			t.Error("expected an empty signature to fail")
		}
	})
}
