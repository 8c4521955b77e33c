package attest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stateless-solutions/stateless-go/crypto"
	"github.com/stateless-solutions/stateless-go/identity"
	"github.com/stateless-solutions/stateless-go/libs/bytes"
	"github.com/stateless-solutions/stateless-go/libs/log"
)

// Verifier decides whether response content carries enough valid
// identity-bound attestations to be trusted. A Verifier is immutable after
// construction and safe for concurrent use; every Verify call is
// independently re-derivable from its inputs.
type Verifier struct {
	resolver   identity.Resolver
	identities []string
	threshold  int
	dedupe     bool
	logger     log.Logger
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l log.Logger) Option {
	return func(v *Verifier) { v.logger = l }
}

// WithIdentityDeduplication caps each identity's contribution to the
// threshold at one, so repeated attestations from a single identity cannot
// satisfy a higher threshold on their own. Off by default: every valid
// attestation counts, even from the same identity.
func WithIdentityDeduplication() Option {
	return func(v *Verifier) { v.dedupe = true }
}

// NewVerifier returns a Verifier that accepts attestations from the given
// identities and requires at least threshold of them to be valid. The order
// of identities matters: an attestation without an explicit identity binds
// to the entry at its own position in the attestation list.
func NewVerifier(resolver identity.Resolver, identities []string, threshold int, opts ...Option) (*Verifier, error) {
	if resolver == nil {
		return nil, errors.New("nil resolver")
	}
	if threshold < 1 {
		return nil, fmt.Errorf("threshold must be positive (got %d)", threshold)
	}
	v := &Verifier{
		resolver:   resolver,
		identities: append([]string(nil), identities...),
		threshold:  threshold,
		logger:     log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// attResult is the outcome for one attestation, reported by its worker.
type attResult struct {
	index    int
	identity string
	valid    bool
	err      error // set only for failures that abort the whole pass
}

// Verify checks the attestations over content and returns nil when at least
// the configured threshold of them is valid. Content is the response result
// or error object exactly as received. Invalid attestations are excluded
// from the count but never abort the pass, with one exception: an identity
// whose resolved key has an unsupported type aborts verification outright,
// regardless of how many other attestations are valid.
func (v *Verifier) Verify(ctx context.Context, content []byte, attestations []Attestation) error {
	digests, err := Digests(content)
	if err != nil {
		return fmt.Errorf("computing content digests: %w", err)
	}

	// Attestations are independent, so they are checked concurrently. The
	// channel is buffered to the attestation count and fully drained, which
	// keeps the outcome deterministic and leaks no goroutines.
	results := make(chan attResult, len(attestations))
	for i, att := range attestations {
		go func(i int, att Attestation) {
			results <- v.check(ctx, digests, i, att)
		}(i, att)
	}

	var (
		valid    int
		counted  = make(map[string]bool)
		abort    error
		abortIdx = -1
	)
	for range attestations {
		res := <-results
		switch {
		case res.err != nil:
			if abortIdx == -1 || res.index < abortIdx {
				abortIdx, abort = res.index, res.err
			}
		case res.valid:
			if v.dedupe && counted[res.identity] {
				v.logger.Debug("ignoring duplicate attestation", "identity", res.identity)
				continue
			}
			counted[res.identity] = true
			valid++
		}
	}
	if abort != nil {
		return abort
	}
	if valid < v.threshold {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrNotEnoughAttestations{Valid: valid, Required: v.threshold}
	}
	return nil
}

// check evaluates a single attestation: bind its identity, resolve the key,
// and test the claim against the content digests.
func (v *Verifier) check(ctx context.Context, digests []string, pos int, att Attestation) attResult {
	id := att.Identity
	if id == "" && pos < len(v.identities) {
		// Positional fallback: an attestation without an explicit identity
		// inherits the allow-list entry at its position. This is an ordering
		// contract with the endpoint; reordered attestations will not bind.
		id = v.identities[pos]
	}
	res := attResult{index: pos, identity: id}

	if !v.allowed(id) {
		v.logger.Debug("attestation identity not allowed", "index", pos, "identity", id)
		return res
	}

	key, err := v.resolver.Resolve(ctx, id)
	if err != nil {
		var unsupported identity.ErrUnsupportedKeyType
		if errors.As(err, &unsupported) {
			res.err = fmt.Errorf("identity %s: %w", id, err)
			return res
		}
		v.logger.Info("skipping attestation, key resolution failed",
			"index", pos, "identity", id, "err", err)
		return res
	}

	res.valid = claimValid(att.Claim, digests, key)
	if res.valid {
		v.logger.Debug("attestation valid",
			"index", pos,
			"identity", id,
			"key", fmt.Sprintf("%X", crypto.Fingerprint(key.Bytes())))
	} else {
		v.logger.Debug("attestation invalid", "index", pos, "identity", id)
	}
	return res
}

func (v *Verifier) allowed(id string) bool {
	if id == "" {
		return false
	}
	for _, known := range v.identities {
		if known == id {
			return true
		}
	}
	return false
}

// claimValid applies the mode-specific validity rule. A batch claim must
// name every content digest (extra entries are tolerated) and have all of
// its signature pairs verify; one bad pair invalidates the whole claim. A
// single claim must name one of the content digests and verify.
func claimValid(claim Claim, digests []string, key crypto.PubKey) bool {
	switch c := claim.(type) {
	case BatchClaim:
		if len(c.Msgs) != len(c.Signatures) {
			return false
		}
		if !containsAll(c.Msgs, digests) {
			return false
		}
		for i, msg := range c.Msgs {
			if !verifyDigest(key, msg, c.Signatures[i]) {
				return false
			}
		}
		return true
	case SingleClaim:
		return contains(digests, c.Msg) && verifyDigest(key, c.Msg, c.Signature)
	default:
		return false
	}
}

// verifyDigest checks an ed25519 signature over the raw bytes of a hex
// digest. Malformed hex is a verification failure, never an error.
func verifyDigest(key crypto.PubKey, digestHex, signatureHex string) bool {
	msg, ok := decodeHex(digestHex)
	if !ok {
		return false
	}
	sig, ok := decodeHex(signatureHex)
	if !ok {
		return false
	}
	return key.VerifySignature(msg, sig)
}

func decodeHex(s string) ([]byte, bool) {
	var bz bytes.HexBytes
	if err := bz.UnmarshalText([]byte(s)); err != nil {
		return nil, false
	}
	return bz, true
}

// normalizeDigest lowercases a hex digest and drops any 0x prefix, so set
// membership compares values rather than spellings.
func normalizeDigest(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "0x"))
}

func contains(set []string, digest string) bool {
	digest = normalizeDigest(digest)
	for _, d := range set {
		if d == digest {
			return true
		}
	}
	return false
}

// containsAll reports whether every required digest appears in msgs.
func containsAll(msgs []string, required []string) bool {
	have := make(map[string]bool, len(msgs))
	for _, m := range msgs {
		have[normalizeDigest(m)] = true
	}
	for _, d := range required {
		if !have[d] {
			return false
		}
	}
	return true
}
