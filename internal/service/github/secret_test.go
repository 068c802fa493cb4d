package github

import (
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/nacl/box"
)

func TestSealSecret_OpensWithPrivateKey(t *testing.T) {
	pub, priv, err := box.GenerateKey(rand.Reader)
	require.NoError(t, err)

	sealed, err := SealSecret(base64.StdEncoding.EncodeToString(pub[:]), "hunter2")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(sealed)
	require.NoError(t, err)
	opened, ok := box.OpenAnonymous(nil, raw, pub, priv)
	require.True(t, ok)
	assert.Equal(t, "hunter2", string(opened))
}

func TestSealSecret_RejectsBadKey(t *testing.T) {
	_, err := SealSecret("not base64!", "x")
	assert.Error(t, err)

	_, err = SealSecret(base64.StdEncoding.EncodeToString([]byte("short")), "x")
	assert.ErrorContains(t, err, "32 bytes")
}
