package attest

import (
	"encoding/hex"
	"fmt"

	"github.com/stateless-solutions/stateless-go/crypto"
)

// Sign produces a single-mode attestation over one content digest. It is the
// producing side of the protocol, used by attesting endpoints and tests.
func Sign(identity, digest string, key crypto.PrivKey) (Attestation, error) {
	sig, err := signDigest(key, digest)
	if err != nil {
		return Attestation{}, err
	}
	return Attestation{
		Identity:        identity,
		SignatureFormat: SignatureFormatSSH,
		HashAlgo:        HashAlgoSHA256,
		Claim:           SingleClaim{Msg: digest, Signature: sig},
	}, nil
}

// SignBatch produces a batch-mode attestation with one signature per digest.
func SignBatch(identity string, digests []string, key crypto.PrivKey) (Attestation, error) {
	sigs := make([]string, len(digests))
	for i, digest := range digests {
		sig, err := signDigest(key, digest)
		if err != nil {
			return Attestation{}, err
		}
		sigs[i] = sig
	}
	return Attestation{
		Identity:        identity,
		SignatureFormat: SignatureFormatSSH,
		HashAlgo:        HashAlgoSHA256,
		Claim:           BatchClaim{Msgs: append([]string(nil), digests...), Signatures: sigs},
	}, nil
}

func signDigest(key crypto.PrivKey, digest string) (string, error) {
	raw, err := hex.DecodeString(digest)
	if err != nil {
		return "", fmt.Errorf("decoding digest: %w", err)
	}
	sig, err := key.Sign(raw)
	if err != nil {
		return "", fmt.Errorf("signing digest: %w", err)
	}
	return hex.EncodeToString(sig), nil
}
