package crypto

// PubKey is the interface implemented by verification key types. Attestation
// verification only ever consumes public keys; private keys exist for tests
// and tooling that need to produce signatures.
type PubKey interface {
	Bytes() []byte
	VerifySignature(msg []byte, sig []byte) bool
	Equals(PubKey) bool
	Type() string
}

// PrivKey is the interface implemented by signing key types.
type PrivKey interface {
	Bytes() []byte
	Sign(msg []byte) ([]byte, error)
	PubKey() PubKey
	Equals(PrivKey) bool
	Type() string
}

// Fingerprint returns the first 6 bytes of a key for log-friendly display.
func Fingerprint(slice []byte) []byte {
	fingerprint := make([]byte, 6)
	copy(fingerprint, slice)
	return fingerprint
}
