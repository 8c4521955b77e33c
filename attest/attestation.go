package attest

import (
	"encoding/json"
)

const (
	// SignatureFormatSSH labels signatures whose verification keys travel in
	// the SSH public-key text encoding.
	SignatureFormatSSH = "ssh-ed25519"

	// HashAlgoSHA256 labels the digest algorithm used for content digests.
	HashAlgoSHA256 = "sha256"
)

// Claim is the signed payload of an attestation. Concrete types are
// SingleClaim and BatchClaim; the variant is chosen when the attestation is
// decoded, never by field probing afterwards.
type Claim interface {
	isClaim()
}

// SingleClaim attests one digest with one signature.
type SingleClaim struct {
	Msg       string
	Signature string
}

func (SingleClaim) isClaim() {}

// BatchClaim attests a list of digests with one signature per digest. Msgs
// and Signatures are parallel: entry i of Signatures signs entry i of Msgs.
type BatchClaim struct {
	Msgs       []string
	Signatures []string
}

func (BatchClaim) isClaim() {}

// Attestation is a signed claim by an identity that response content hashes
// to specific digests. Identity may be empty, in which case verification
// binds it positionally against the configured allow-list.
type Attestation struct {
	Identity        string
	SignatureFormat string
	HashAlgo        string
	Claim           Claim
}

type attestationJSON struct {
	Identity        string   `json:"identity,omitempty"`
	SignatureFormat string   `json:"signatureFormat,omitempty"`
	HashAlgo        string   `json:"hashAlgo,omitempty"`
	Msg             *string  `json:"msg,omitempty"`
	Signature       *string  `json:"signature,omitempty"`
	Msgs            []string `json:"msgs,omitempty"`
	Signatures      []string `json:"signatures,omitempty"`
}

// UnmarshalJSON decodes an attestation leniently: a malformed element
// becomes an Attestation with a nil Claim, which verification rejects later,
// rather than failing to decode the whole response envelope.
func (a *Attestation) UnmarshalJSON(data []byte) error {
	var wire attestationJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		*a = Attestation{}
		return nil
	}

	a.Identity = wire.Identity
	a.SignatureFormat = wire.SignatureFormat
	a.HashAlgo = wire.HashAlgo

	switch {
	case wire.Msgs != nil || wire.Signatures != nil:
		a.Claim = BatchClaim{Msgs: wire.Msgs, Signatures: wire.Signatures}
	case wire.Msg != nil && wire.Signature != nil:
		a.Claim = SingleClaim{Msg: *wire.Msg, Signature: *wire.Signature}
	default:
		a.Claim = nil
	}
	return nil
}

// MarshalJSON emits the wire shape matching the claim variant.
func (a Attestation) MarshalJSON() ([]byte, error) {
	wire := attestationJSON{
		Identity:        a.Identity,
		SignatureFormat: a.SignatureFormat,
		HashAlgo:        a.HashAlgo,
	}
	switch c := a.Claim.(type) {
	case SingleClaim:
		msg, sig := c.Msg, c.Signature
		wire.Msg, wire.Signature = &msg, &sig
	case BatchClaim:
		wire.Msgs, wire.Signatures = c.Msgs, c.Signatures
	}
	return json.Marshal(wire)
}
