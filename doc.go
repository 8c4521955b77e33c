/*
Package stateless lets a caller trust responses from an untrusted JSON-RPC
endpoint.

Every response must arrive with attestations: signed claims, from identities
the caller chose to trust, that the response content hashes to a specific
digest. The client hashes the content it actually received, checks the
attestation signatures against keys resolved from each identity's well-known
path, and releases the result only when a configured threshold of
attestations is valid. RPC-level errors are held to the same standard: an
unattested error object is never surfaced.

With a prover endpoint configured, state-reading calls additionally pass
through stateless proof verification first: the state the call depends on is
re-derived from Merkle proofs against a trusted block header, and the call
is aborted when the proofs do not hold (see the stateproof package).

Example usage:

	cfg := stateless.DefaultConfig()
	cfg.RPCURL = "https://rpc.example.com"
	cfg.Identities = []string{
		"https://attester-a.example.com",
		"https://attester-b.example.com",
	}
	cfg.MinimumAttestations = 2

	c, err := stateless.New(cfg)
	if err != nil {
		// handle error
	}

	var chainID string
	if err := c.Call(ctx, "eth_chainId", nil, &chainID); err != nil {
		// the response did not carry enough valid attestations, or the
		// endpoint could not be reached
	}
*/
package stateless
