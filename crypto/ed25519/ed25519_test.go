package ed25519_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stateless-solutions/stateless-go/crypto/ed25519"
)

func TestSignAndValidateEd25519(t *testing.T) {
	privKey := ed25519.GenPrivKey()
	pubKey := privKey.PubKey()

	msg := []byte("attested response content")
	sig, err := privKey.Sign(msg)
	require.NoError(t, err)

	// Test the signature
	assert.True(t, pubKey.VerifySignature(msg, sig))

	// Mutate the signature, just one bit.
	sig[7] ^= byte(0x01)

	assert.False(t, pubKey.VerifySignature(msg, sig))
}

func TestGenPrivKeyFromSecretDeterministic(t *testing.T) {
	a := ed25519.GenPrivKeyFromSecret([]byte("some secret"))
	b := ed25519.GenPrivKeyFromSecret([]byte("some secret"))
	require.True(t, a.Equals(b))
	require.True(t, a.PubKey().Equals(b.PubKey()))

	c := ed25519.GenPrivKeyFromSecret([]byte("other secret"))
	require.False(t, a.Equals(c))
}

func TestPubKeyFromBytes(t *testing.T) {
	priv := ed25519.GenPrivKey()
	raw := priv.PubKey().Bytes()

	pk, err := ed25519.PubKeyFromBytes(raw)
	require.NoError(t, err)
	require.True(t, pk.Equals(priv.PubKey()))

	_, err = ed25519.PubKeyFromBytes(raw[:16])
	require.Error(t, err)
}

func TestVerifySignatureMalformedInput(t *testing.T) {
	privKey := ed25519.GenPrivKey()
	pubKey := privKey.PubKey()

	msg := []byte("msg")
	sig, err := privKey.Sign(msg)
	require.NoError(t, err)

	// Truncated signature must be rejected, not panic.
	assert.False(t, pubKey.VerifySignature(msg, sig[:32]))

	// Truncated public key must be rejected as well.
	short := ed25519.PubKey(pubKey.Bytes()[:16])
	assert.False(t, short.VerifySignature(msg, sig))
}
