package payment

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
)

// SignatureHeader is the request header Paystack signs webhook deliveries
// with.
const SignatureHeader = "x-paystack-signature"

// ValidSignature reports whether signature is the hex HMAC-SHA512 of the raw
// request body under the account secret key. Comparison is constant time.
func ValidSignature(secretKey string, body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha512.New, []byte(secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
