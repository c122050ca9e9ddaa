// Package signature implements the shared-secret HMAC scheme protecting
// inbound webhook callbacks. The sender computes HMAC-SHA256 over the
// raw request body and sends it hex-encoded in X-Webhook-Signature.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Header carries the hex-encoded body signature on inbound callbacks.
const Header = "X-Webhook-Signature"

// Sign computes the hex HMAC-SHA256 of body under secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a provided hex signature against the body in constant
// time. An undecodable signature never verifies.
func Verify(secret string, body []byte, provided string) bool {
	decoded, err := hex.DecodeString(provided)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(decoded, mac.Sum(nil))
}
