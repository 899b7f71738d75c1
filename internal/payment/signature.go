package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifySignature checks that a claimed payment-completion signature was
// produced by the gateway's shared secret over "orderRef|paymentRef".
// The comparison is constant-time and the check fails closed: a missing
// secret, an empty reference or a malformed signature all yield false.
func VerifySignature(orderRef, paymentRef, claimedSignature, sharedSecret string) bool {
	if sharedSecret == "" || orderRef == "" || paymentRef == "" || claimedSignature == "" {
		return false
	}

	claimed, err := hex.DecodeString(claimedSignature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(sharedSecret))
	mac.Write([]byte(orderRef + "|" + paymentRef))
	expected := mac.Sum(nil)

	return hmac.Equal(expected, claimed)
}

// Sign produces the signature the gateway is expected to send for a
// completed payment. Exposed for tests and for local gateway stubs.
func Sign(orderRef, paymentRef, sharedSecret string) string {
	mac := hmac.New(sha256.New, []byte(sharedSecret))
	mac.Write([]byte(orderRef + "|" + paymentRef))
	return hex.EncodeToString(mac.Sum(nil))
}
