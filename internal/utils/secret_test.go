package utils

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateWebhookSecret(t *testing.T) {
	first := GenerateWebhookSecret()
	second := GenerateWebhookSecret()

	assert.Len(t, first, 64)
	_, err := hex.DecodeString(first)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestPayloadDigest(t *testing.T) {
	digest := PayloadDigest([]byte(`{"ref":"refs/heads/main"}`))

	assert.Len(t, digest, 64)
	assert.Equal(t, digest, PayloadDigest([]byte(`{"ref":"refs/heads/main"}`)))
	assert.NotEqual(t, digest, PayloadDigest([]byte(`{}`)))
}
