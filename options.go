package stateless

import (
	"net/http"

	"github.com/stateless-solutions/stateless-go/identity"
	"github.com/stateless-solutions/stateless-go/libs/log"
)

// Option sets an optional parameter on the Client.
type Option func(*Client)

// WithLogger sets the logger for the client and every verifier it builds.
// Defaults to a no-op logger.
func WithLogger(l log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics sets the metrics collector. Defaults to no-op metrics.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithHTTPClient sets the *http.Client used for endpoint and prover calls
// and for key lookups. Timeouts belong on this client; the verification
// engine defines no timeout or retry policy of its own.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) { c.httpClient = client }
}

// WithResolver overrides the identity resolver. Defaults to resolving keys
// over HTTP from each identity's well-known path.
func WithResolver(r identity.Resolver) Option {
	return func(c *Client) { c.resolver = r }
}
