package identity

import "fmt"

// ErrResolutionFailed means the key lookup for an identity did not complete
// successfully. Verification treats this as local to the one attestation
// bound to the identity.
type ErrResolutionFailed struct {
	Identity string
	Reason   error
}

func (e ErrResolutionFailed) Error() string {
	return fmt.Sprintf("resolving key for %s: %v", e.Identity, e.Reason)
}

func (e ErrResolutionFailed) Unwrap() error { return e.Reason }

// ErrInvalidKeyFormat means fetched key material did not parse as a
// recognized public-key encoding.
type ErrInvalidKeyFormat struct {
	Reason error
}

func (e ErrInvalidKeyFormat) Error() string {
	return fmt.Sprintf("invalid key material: %v", e.Reason)
}

func (e ErrInvalidKeyFormat) Unwrap() error { return e.Reason }

// ErrUnsupportedKeyType means key material parsed into a key that is not
// ed25519. Unlike resolution failures, this aborts the verification pass
// that triggered the lookup.
type ErrUnsupportedKeyType struct {
	KeyType string
}

func (e ErrUnsupportedKeyType) Error() string {
	return fmt.Sprintf("unsupported key type %q, only ed25519 keys are accepted", e.KeyType)
}
