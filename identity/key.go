package identity

import (
	stded25519 "crypto/ed25519"

	"golang.org/x/crypto/ssh"

	"github.com/stateless-solutions/stateless-go/crypto"
	"github.com/stateless-solutions/stateless-go/crypto/ed25519"
)

// KeyDecoder converts fetched key material into a verification key. The wire
// encoding of keys is isolated behind this interface so it can change
// without touching resolution or verification logic.
type KeyDecoder interface {
	Decode(material []byte) (crypto.PubKey, error)
}

// SSHKeyDecoder reads keys in the OpenSSH authorized_keys text format, e.g.
//
//	ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAI... operator@host
//
// Only ed25519 keys are accepted; any other key type is reported as
// ErrUnsupportedKeyType.
type SSHKeyDecoder struct{}

var _ KeyDecoder = SSHKeyDecoder{}

func (SSHKeyDecoder) Decode(material []byte) (crypto.PubKey, error) {
	parsed, _, _, _, err := ssh.ParseAuthorizedKey(material)
	if err != nil {
		return nil, ErrInvalidKeyFormat{Reason: err}
	}
	if parsed.Type() != ssh.KeyAlgoED25519 {
		return nil, ErrUnsupportedKeyType{KeyType: parsed.Type()}
	}

	ck, ok := parsed.(ssh.CryptoPublicKey)
	if !ok {
		return nil, ErrUnsupportedKeyType{KeyType: parsed.Type()}
	}
	raw, ok := ck.CryptoPublicKey().(stded25519.PublicKey)
	if !ok {
		return nil, ErrUnsupportedKeyType{KeyType: parsed.Type()}
	}

	key, err := ed25519.PubKeyFromBytes(raw)
	if err != nil {
		return nil, ErrInvalidKeyFormat{Reason: err}
	}
	return key, nil
}
