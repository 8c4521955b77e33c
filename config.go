package stateless

import "errors"

// Config holds the verification parameters for a Client. It is read once by
// New; changing a Config afterwards has no effect on clients already built
// from it.
type Config struct {
	// RPCURL is the endpoint serving attested responses.
	RPCURL string

	// Identities is the allow-list of trusted attester identities, each a
	// URL owning a signing key. Order matters: an attestation without an
	// explicit identity binds to the entry at its own position in the
	// response's attestation list.
	Identities []string

	// MinimumAttestations is the number of valid attestations a response
	// needs before it is trusted.
	MinimumAttestations int

	// ProverURL enables stateless proof verification for state-reading
	// calls when set. When empty, only attestation verification runs.
	ProverURL string

	// DeduplicateIdentities caps each identity's contribution to the
	// attestation threshold at one. Off by default: every valid attestation
	// counts, even repeated ones from the same identity.
	DeduplicateIdentities bool
}

// DefaultConfig returns a Config with the default attestation threshold.
// RPCURL and Identities must still be filled in.
func DefaultConfig() Config {
	return Config{
		MinimumAttestations: 1,
	}
}

// ValidateBasic performs basic validation (checking param bounds, etc.) and
// returns an error if any check fails.
func (cfg Config) ValidateBasic() error {
	if cfg.RPCURL == "" {
		return errors.New("rpc url is required")
	}
	if len(cfg.Identities) == 0 {
		return errors.New("at least one trusted identity is required")
	}
	if cfg.MinimumAttestations < 1 {
		return errors.New("minimum attestations must be at least 1")
	}
	return nil
}
