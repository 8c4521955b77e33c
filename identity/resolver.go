// Package identity maps logical attester identities to their verification
// keys. An identity is a URL acting as a namespace for exactly one signing
// key, published at a fixed well-known path.
package identity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/stateless-solutions/stateless-go/crypto"
)

// WellKnownPath is the location under an identity URL where the identity's
// verification key is published.
const WellKnownPath = "/.well-known/stateless-key"

// Resolver maps an identity to its verification public key.
type Resolver interface {
	// Resolve returns the key bound to the given identity. It returns
	// ErrResolutionFailed when the key cannot be fetched, ErrInvalidKeyFormat
	// when the fetched material does not parse, and ErrUnsupportedKeyType
	// when the material parses into a key of the wrong type.
	Resolve(ctx context.Context, identity string) (crypto.PubKey, error)
}

// ResolverFunc adapts a plain function to the Resolver interface.
type ResolverFunc func(ctx context.Context, identity string) (crypto.PubKey, error)

func (f ResolverFunc) Resolve(ctx context.Context, identity string) (crypto.PubKey, error) {
	return f(ctx, identity)
}

// HTTPResolver fetches key material from the identity's well-known path
// over HTTP. It performs no caching: every Resolve call fetches fresh
// material, so key rotation at the identity takes effect immediately.
type HTTPResolver struct {
	client  *http.Client
	decoder KeyDecoder
}

var _ Resolver = (*HTTPResolver)(nil)

// NewHTTPResolver returns a resolver that reads keys in the SSH public-key
// text encoding. A nil client falls back to http.DefaultClient; timeouts and
// cancellation are whatever the supplied client enforces.
func NewHTTPResolver(client *http.Client) *HTTPResolver {
	return NewHTTPResolverWithDecoder(client, SSHKeyDecoder{})
}

// NewHTTPResolverWithDecoder returns a resolver using a caller-supplied key
// decoder.
func NewHTTPResolverWithDecoder(client *http.Client, decoder KeyDecoder) *HTTPResolver {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPResolver{client: client, decoder: decoder}
}

func (r *HTTPResolver) Resolve(ctx context.Context, identity string) (crypto.PubKey, error) {
	url := strings.TrimRight(identity, "/") + WellKnownPath

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, ErrResolutionFailed{Identity: identity, Reason: err}
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, ErrResolutionFailed{Identity: identity, Reason: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrResolutionFailed{
			Identity: identity,
			Reason:   fmt.Errorf("unexpected status %s", resp.Status),
		}
	}
	material, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ErrResolutionFailed{Identity: identity, Reason: err}
	}

	return r.decoder.Decode(material)
}

// StaticResolver serves keys from a fixed in-memory map keyed by identity.
// It backs tests and deployments that distribute keys out of band.
type StaticResolver struct {
	keys map[string]crypto.PubKey
}

var _ Resolver = (*StaticResolver)(nil)

// NewStaticResolver copies the given identity-to-key map into a resolver.
func NewStaticResolver(keys map[string]crypto.PubKey) *StaticResolver {
	copied := make(map[string]crypto.PubKey, len(keys))
	for id, key := range keys {
		copied[id] = key
	}
	return &StaticResolver{keys: copied}
}

func (r *StaticResolver) Resolve(_ context.Context, identity string) (crypto.PubKey, error) {
	key, ok := r.keys[identity]
	if !ok {
		return nil, ErrResolutionFailed{Identity: identity, Reason: errors.New("no key registered")}
	}
	return key, nil
}
