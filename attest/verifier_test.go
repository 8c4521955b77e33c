package attest_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/fortytw2/leaktest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/stateless-solutions/stateless-go/attest"
	"github.com/stateless-solutions/stateless-go/crypto"
	"github.com/stateless-solutions/stateless-go/crypto/ed25519"
	"github.com/stateless-solutions/stateless-go/identity"
	"github.com/stateless-solutions/stateless-go/libs/log"
)

var testContent = json.RawMessage(`{"value":"0x2a"}`)

// fixture wires a deterministic key per identity into a static resolver.
type fixture struct {
	identities []string
	keys       map[string]ed25519.PrivKey
	resolver   identity.Resolver
}

func newFixture(ids ...string) *fixture {
	keys := make(map[string]ed25519.PrivKey, len(ids))
	pubs := make(map[string]crypto.PubKey, len(ids))
	for _, id := range ids {
		priv := ed25519.GenPrivKeyFromSecret([]byte(id))
		keys[id] = priv
		pubs[id] = priv.PubKey()
	}
	return &fixture{identities: ids, keys: keys, resolver: identity.NewStaticResolver(pubs)}
}

func (f *fixture) verifier(t *testing.T, threshold int, opts ...attest.Option) *attest.Verifier {
	t.Helper()
	opts = append(opts, attest.WithLogger(log.NewTestingLogger(t)))
	v, err := attest.NewVerifier(f.resolver, f.identities, threshold, opts...)
	require.NoError(t, err)
	return v
}

// signed returns a valid single-mode attestation by id over content.
func (f *fixture) signed(t *testing.T, id string, content []byte) attest.Attestation {
	t.Helper()
	digests, err := attest.Digests(content)
	require.NoError(t, err)
	att, err := attest.Sign(id, digests[0], f.keys[id])
	require.NoError(t, err)
	return att
}

// badSigned signs the right digest with a key the identity does not own.
func (f *fixture) badSigned(t *testing.T, id string, content []byte) attest.Attestation {
	t.Helper()
	digests, err := attest.Digests(content)
	require.NoError(t, err)
	att, err := attest.Sign(id, digests[0], ed25519.GenPrivKeyFromSecret([]byte("not "+id)))
	require.NoError(t, err)
	return att
}

func TestVerifyThreshold(t *testing.T) {
	defer leaktest.Check(t)()

	f := newFixture("https://a.example", "https://b.example", "https://c.example")
	v := f.verifier(t, 2)

	atts := []attest.Attestation{
		f.signed(t, "https://a.example", testContent),
		f.signed(t, "https://b.example", testContent),
		f.badSigned(t, "https://c.example", testContent),
	}
	require.NoError(t, v.Verify(context.Background(), testContent, atts))

	// dropping one valid attestation brings the count below the threshold
	err := v.Verify(context.Background(), testContent, atts[1:])
	var thresholdErr attest.ErrNotEnoughAttestations
	require.True(t, errors.As(err, &thresholdErr))
	assert.Equal(t, 1, thresholdErr.Valid)
	assert.Equal(t, 2, thresholdErr.Required)
}

func TestVerifyNoAttestations(t *testing.T) {
	f := newFixture("https://a.example")
	v := f.verifier(t, 1)

	err := v.Verify(context.Background(), testContent, nil)
	var thresholdErr attest.ErrNotEnoughAttestations
	require.True(t, errors.As(err, &thresholdErr))
	assert.Zero(t, thresholdErr.Valid)
}

func TestVerifyUnknownIdentityNeverCounts(t *testing.T) {
	outsider := ed25519.GenPrivKeyFromSecret([]byte("outsider"))
	inside := ed25519.GenPrivKeyFromSecret([]byte("inside"))

	// The resolver knows the outsider's key; the allow-list does not.
	resolver := identity.NewStaticResolver(map[string]crypto.PubKey{
		"https://a.example":        inside.PubKey(),
		"https://outsider.example": outsider.PubKey(),
	})
	v, err := attest.NewVerifier(resolver, []string{"https://a.example"}, 1)
	require.NoError(t, err)

	digests, err := attest.Digests(testContent)
	require.NoError(t, err)
	att, err := attest.Sign("https://outsider.example", digests[0], outsider)
	require.NoError(t, err)

	err = v.Verify(context.Background(), testContent, []attest.Attestation{att})
	var thresholdErr attest.ErrNotEnoughAttestations
	require.True(t, errors.As(err, &thresholdErr))
	assert.Zero(t, thresholdErr.Valid)
}

func TestVerifyTamperedDigestRejected(t *testing.T) {
	f := newFixture("https://a.example")
	v := f.verifier(t, 1)

	// structurally valid signature, but over the digest of different content
	att := f.signed(t, "https://a.example", []byte(`{"value":"0xdead"}`))

	err := v.Verify(context.Background(), testContent, []attest.Attestation{att})
	var thresholdErr attest.ErrNotEnoughAttestations
	require.True(t, errors.As(err, &thresholdErr))
}

func TestVerifyBatch(t *testing.T) {
	const id = "https://a.example"
	content := []byte(`[{"n":1},{"n":2}]`)

	f := newFixture(id)
	v := f.verifier(t, 1)

	digests, err := attest.Digests(content)
	require.NoError(t, err)
	require.Len(t, digests, 2)

	t.Run("all digests covered", func(t *testing.T) {
		att, err := attest.SignBatch(id, digests, f.keys[id])
		require.NoError(t, err)
		require.NoError(t, v.Verify(context.Background(), content, []attest.Attestation{att}))
	})

	t.Run("superset of digests is tolerated", func(t *testing.T) {
		extra, err := attest.Digests([]byte(`"unrelated"`))
		require.NoError(t, err)
		att, err := attest.SignBatch(id, append(append([]string(nil), digests...), extra...), f.keys[id])
		require.NoError(t, err)
		require.NoError(t, v.Verify(context.Background(), content, []attest.Attestation{att}))
	})

	t.Run("missing digest invalidates", func(t *testing.T) {
		att, err := attest.SignBatch(id, digests[:1], f.keys[id])
		require.NoError(t, err)
		require.Error(t, v.Verify(context.Background(), content, []attest.Attestation{att}))
	})

	t.Run("one bad signature invalidates the whole batch", func(t *testing.T) {
		att, err := attest.SignBatch(id, digests, f.keys[id])
		require.NoError(t, err)

		forged, err := attest.Sign(id, digests[1], ed25519.GenPrivKeyFromSecret([]byte("mallory")))
		require.NoError(t, err)

		batch := att.Claim.(attest.BatchClaim)
		batch.Signatures[1] = forged.Claim.(attest.SingleClaim).Signature
		att.Claim = batch

		require.Error(t, v.Verify(context.Background(), content, []attest.Attestation{att}))
	})

	t.Run("length mismatch invalidates", func(t *testing.T) {
		att, err := attest.SignBatch(id, digests, f.keys[id])
		require.NoError(t, err)

		batch := att.Claim.(attest.BatchClaim)
		batch.Signatures = batch.Signatures[:1]
		att.Claim = batch

		require.Error(t, v.Verify(context.Background(), content, []attest.Attestation{att}))
	})
}

func TestVerifyPositionalIdentityBinding(t *testing.T) {
	f := newFixture("https://a.example", "https://b.example")
	v := f.verifier(t, 2)

	attA := f.signed(t, "https://a.example", testContent)
	attB := f.signed(t, "https://b.example", testContent)
	attA.Identity = ""
	attB.Identity = ""

	// anonymous attestations bind to the allow-list entry at their position
	require.NoError(t, v.Verify(context.Background(), testContent, []attest.Attestation{attA, attB}))

	// reordering breaks the binding: each signature now checks against the
	// other identity's key
	err := v.Verify(context.Background(), testContent, []attest.Attestation{attB, attA})
	var thresholdErr attest.ErrNotEnoughAttestations
	require.True(t, errors.As(err, &thresholdErr))
	assert.Zero(t, thresholdErr.Valid)
}

func TestVerifyPositionalFallbackBeyondAllowList(t *testing.T) {
	f := newFixture("https://a.example")
	v := f.verifier(t, 1)

	anon := f.signed(t, "https://a.example", testContent)
	anon.Identity = ""

	// position 1 has no allow-list entry to inherit, so the attestation
	// stays unbound and cannot count
	err := v.Verify(context.Background(), testContent, []attest.Attestation{{}, anon})
	var thresholdErr attest.ErrNotEnoughAttestations
	require.True(t, errors.As(err, &thresholdErr))
	assert.Zero(t, thresholdErr.Valid)
}

func TestVerifyUnsupportedKeyTypeAborts(t *testing.T) {
	f := newFixture("https://a.example", "https://rsa.example")
	base := f.resolver
	resolver := identity.ResolverFunc(func(ctx context.Context, id string) (crypto.PubKey, error) {
		if id == "https://rsa.example" {
			return nil, identity.ErrUnsupportedKeyType{KeyType: "ssh-rsa"}
		}
		return base.Resolve(ctx, id)
	})
	v, err := attest.NewVerifier(resolver, f.identities, 1, attest.WithLogger(log.NewTestingLogger(t)))
	require.NoError(t, err)

	atts := []attest.Attestation{
		// valid on its own, meets the threshold
		f.signed(t, "https://a.example", testContent),
		f.signed(t, "https://rsa.example", testContent),
	}
	err = v.Verify(context.Background(), testContent, atts)
	var typeErr identity.ErrUnsupportedKeyType
	require.True(t, errors.As(err, &typeErr))
	assert.Equal(t, "ssh-rsa", typeErr.KeyType)
}

func TestVerifyResolutionFailureSkipsOne(t *testing.T) {
	f := newFixture("https://a.example", "https://down.example")
	base := f.resolver
	resolver := identity.ResolverFunc(func(ctx context.Context, id string) (crypto.PubKey, error) {
		if id == "https://down.example" {
			return nil, identity.ErrResolutionFailed{Identity: id, Reason: errors.New("connection refused")}
		}
		return base.Resolve(ctx, id)
	})
	v, err := attest.NewVerifier(resolver, f.identities, 1, attest.WithLogger(log.NewTestingLogger(t)))
	require.NoError(t, err)

	atts := []attest.Attestation{
		f.signed(t, "https://down.example", testContent),
		f.signed(t, "https://a.example", testContent),
	}
	require.NoError(t, v.Verify(context.Background(), testContent, atts))
}

func TestVerifyIdentityDeduplication(t *testing.T) {
	f := newFixture("https://a.example")
	att := f.signed(t, "https://a.example", testContent)
	dup := []attest.Attestation{att, att}

	// by default two valid attestations from one identity meet a threshold
	// of two
	require.NoError(t, f.verifier(t, 2).Verify(context.Background(), testContent, dup))

	// with deduplication each identity contributes at most one
	err := f.verifier(t, 2, attest.WithIdentityDeduplication()).
		Verify(context.Background(), testContent, dup)
	var thresholdErr attest.ErrNotEnoughAttestations
	require.True(t, errors.As(err, &thresholdErr))
	assert.Equal(t, 1, thresholdErr.Valid)
}

func TestNewVerifierValidation(t *testing.T) {
	f := newFixture("https://a.example")

	_, err := attest.NewVerifier(nil, f.identities, 1)
	assert.Error(t, err)

	_, err = attest.NewVerifier(f.resolver, f.identities, 0)
	assert.Error(t, err)
}

func TestVerifyThresholdProperty(t *testing.T) {
	digests, err := attest.Digests(testContent)
	require.NoError(t, err)

	rapid.Check(t, func(rt *rapid.T) {
		numValid := rapid.IntRange(0, 4).Draw(rt, "valid").(int)
		numBad := rapid.IntRange(0, 4).Draw(rt, "bad").(int)
		threshold := rapid.IntRange(1, 4).Draw(rt, "threshold").(int)

		ids := make([]string, numValid+numBad)
		privs := make(map[string]ed25519.PrivKey, len(ids))
		pubs := make(map[string]crypto.PubKey, len(ids))
		for i := range ids {
			id := fmt.Sprintf("https://id%d.example", i)
			priv := ed25519.GenPrivKeyFromSecret([]byte(id))
			ids[i], privs[id], pubs[id] = id, priv, priv.PubKey()
		}

		v, err := attest.NewVerifier(identity.NewStaticResolver(pubs), ids, threshold)
		require.NoError(rt, err)

		atts := make([]attest.Attestation, len(ids))
		for i, id := range ids {
			signKey := privs[id]
			if i >= numValid {
				signKey = ed25519.GenPrivKeyFromSecret([]byte("imposter"))
			}
			att, err := attest.Sign(id, digests[0], signKey)
			require.NoError(rt, err)
			atts[i] = att
		}

		err = v.Verify(context.Background(), testContent, atts)
		if numValid >= threshold {
			require.NoError(rt, err)
		} else {
			var thresholdErr attest.ErrNotEnoughAttestations
			require.True(rt, errors.As(err, &thresholdErr))
			require.Equal(rt, numValid, thresholdErr.Valid)
		}
	})
}
