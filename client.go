package stateless

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/stateless-solutions/stateless-go/attest"
	"github.com/stateless-solutions/stateless-go/identity"
	"github.com/stateless-solutions/stateless-go/libs/log"
	"github.com/stateless-solutions/stateless-go/rpc"
	"github.com/stateless-solutions/stateless-go/stateproof"
)

// stateReadingMethods are the JSON-RPC methods whose results derive from
// contract state and can therefore be grounded in a state proof before the
// serving endpoint is even contacted.
var stateReadingMethods = map[string]bool{
	"eth_call": true,
}

// Client is a verifying JSON-RPC client. Every response from the configured
// endpoint must clear the attestation threshold before its result, or its
// error, is released to the caller. When a prover is configured,
// state-reading calls are additionally grounded in Merkle proofs first.
//
// A Client is immutable after New and safe for concurrent use.
type Client struct {
	cfg     Config
	logger  log.Logger
	metrics *Metrics

	httpClient *http.Client
	resolver   identity.Resolver

	endpoint *rpc.Client
	verifier *attest.Verifier
	prover   *stateproof.Verifier
}

var _ rpc.Caller = (*Client)(nil)

// New returns a verifying client for the endpoint and identities named in
// cfg.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	c := &Client{
		cfg:     cfg,
		logger:  log.NewNopLogger(),
		metrics: NopMetrics(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.resolver == nil {
		c.resolver = identity.NewHTTPResolver(c.httpClient)
	}

	endpoint, err := rpc.NewWithHTTPClient(cfg.RPCURL, c.httpClient)
	if err != nil {
		return nil, fmt.Errorf("building endpoint client: %w", err)
	}
	c.endpoint = endpoint

	verifierOpts := []attest.Option{attest.WithLogger(c.logger)}
	if cfg.DeduplicateIdentities {
		verifierOpts = append(verifierOpts, attest.WithIdentityDeduplication())
	}
	verifier, err := attest.NewVerifier(c.resolver, cfg.Identities, cfg.MinimumAttestations, verifierOpts...)
	if err != nil {
		return nil, fmt.Errorf("building attestation verifier: %w", err)
	}
	c.verifier = verifier

	if cfg.ProverURL != "" {
		proverClient, err := rpc.NewWithHTTPClient(cfg.ProverURL, c.httpClient)
		if err != nil {
			return nil, fmt.Errorf("building prover client: %w", err)
		}
		prover, err := stateproof.NewVerifier(proverClient, stateproof.WithLogger(c.logger))
		if err != nil {
			return nil, fmt.Errorf("building stateless proof verifier: %w", err)
		}
		c.prover = prover
	}

	return c, nil
}

// Remote returns the normalized endpoint address the client posts to.
func (c *Client) Remote() string {
	return c.endpoint.Remote()
}

// Request sends method with params to the configured endpoint and returns
// the raw result once it is verified. A JSON-RPC error response is returned
// as *rpc.Error, and only after its content cleared the attestation
// threshold too: an unattested error is no more trustworthy than an
// unattested result.
func (c *Client) Request(ctx context.Context, method string, params []interface{}) (json.RawMessage, error) {
	defer func(begin time.Time) {
		c.metrics.RequestDurationSeconds.Observe(time.Since(begin).Seconds())
	}(time.Now())

	if c.prover != nil && stateReadingMethods[method] {
		if err := c.prover.VerifyCall(ctx, params); err != nil {
			c.metrics.ProofFailures.Add(1)
			return nil, fmt.Errorf("stateless proof verification: %w", err)
		}
		c.metrics.ProofVerifications.Add(1)
	}

	resp, err := c.endpoint.Send(ctx, method, params)
	if err != nil {
		return nil, err
	}
	content, err := resp.Content()
	if err != nil {
		return nil, err
	}

	if err := c.verifier.Verify(ctx, content, resp.Attestations); err != nil {
		c.metrics.RejectedResponses.Add(1)
		c.logger.Error("rejecting unverified response", "method", method, "err", err)
		return nil, err
	}
	c.metrics.VerifiedResponses.Add(1)
	c.logger.Debug("response verified",
		"method", method,
		"attestations", len(resp.Attestations))

	if resp.Error != nil {
		return nil, resp.Error
	}
	return resp.Result, nil
}

// Call implements rpc.Caller on top of Request, decoding the verified
// result into result. Pass a nil result to discard the result value.
func (c *Client) Call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	raw, err := c.Request(ctx, method, params)
	if err != nil {
		return err
	}
	if result == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return fmt.Errorf("error unmarshaling verified result: %w", err)
	}
	return nil
}
