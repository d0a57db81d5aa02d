package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// GenerateWebhookSecret returns an opaque 64-character hex token suitable
// for embedding in webhook URLs.
func GenerateWebhookSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the platform entropy source is broken;
		// there is no safe fallback for a secret.
		panic(err)
	}
	return hex.EncodeToString(buf)
}

// PayloadDigest returns the hex SHA-256 of an inbound webhook payload, kept
// on the delivery audit record instead of the raw body.
func PayloadDigest(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
