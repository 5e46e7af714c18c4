package security

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

// NewSessionToken returns a 256-bit random token in URL-safe base64.
// The raw value only ever lives in the cookie; the store keeps a hash.
func NewSessionToken() (string, error) {
	buf := make([]byte, 32)

	_, err := rand.Read(buf)

	if err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashToken computes the keyed hash under which a session token is stored,
// so a leaked sessions table cannot be replayed as cookies.
func HashToken(secret []byte, raw string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(raw))

	return hex.EncodeToString(mac.Sum(nil))
}
