package identity_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stateless-solutions/stateless-go/crypto/ed25519"
	"github.com/stateless-solutions/stateless-go/identity"
)

func TestSSHKeyDecoder(t *testing.T) {
	priv := ed25519.GenPrivKey()
	keyText := authorizedKeyText(t, priv.PubKey())

	dec := identity.SSHKeyDecoder{}

	t.Run("valid ed25519 key", func(t *testing.T) {
		key, err := dec.Decode(keyText)
		require.NoError(t, err)
		assert.Equal(t, ed25519.KeyType, key.Type())
		assert.True(t, priv.PubKey().Equals(key))
	})

	t.Run("comment after key is tolerated", func(t *testing.T) {
		withComment := append([]byte(nil), keyText[:len(keyText)-1]...)
		withComment = append(withComment, []byte(" operator@example\n")...)
		key, err := dec.Decode(withComment)
		require.NoError(t, err)
		assert.True(t, priv.PubKey().Equals(key))
	})

	t.Run("garbage material", func(t *testing.T) {
		_, err := dec.Decode([]byte("ssh-ed25519 notbase64!!"))
		var formatErr identity.ErrInvalidKeyFormat
		require.True(t, errors.As(err, &formatErr))
	})

	t.Run("empty material", func(t *testing.T) {
		_, err := dec.Decode(nil)
		var formatErr identity.ErrInvalidKeyFormat
		require.True(t, errors.As(err, &formatErr))
	})
}
