// Package rpc implements the JSON-RPC 2.0 envelope and a minimal HTTP POST
// client for it, extended with the attestations array that attesting
// endpoints attach to their responses.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// Caller executes a JSON-RPC method and decodes its result into result.
// Implementations decide where the response comes from and which checks it
// passed on the way.
type Caller interface {
	Call(ctx context.Context, method string, params []interface{}, result interface{}) error
}

// Client is a JSON-RPC 2.0 client over HTTP POST. Request IDs are assigned
// per call for correlation only; they carry no security meaning.
type Client struct {
	address string
	client  *http.Client

	mtx       sync.Mutex
	nextReqID int
}

var _ Caller = (*Client)(nil)

// New returns a Client posting to the given address. An address without a
// scheme defaults to http.
func New(remote string) (*Client, error) {
	return NewWithHTTPClient(remote, &http.Client{})
}

// NewWithHTTPClient returns a Client using a caller-supplied *http.Client,
// which controls timeouts and cancellation for every request sent. An error
// is returned on an invalid remote address or nil client.
func NewWithHTTPClient(remote string, client *http.Client) (*Client, error) {
	if client == nil {
		return nil, errors.New("nil client")
	}
	address, err := normalizeAddress(remote)
	if err != nil {
		return nil, err
	}
	return &Client{address: address, client: client}, nil
}

// normalizeAddress fills in a default scheme so bare host:port endpoints
// work, and rejects schemes the client cannot post to.
func normalizeAddress(remote string) (string, error) {
	if remote == "" {
		return "", errors.New("empty address")
	}
	if !strings.Contains(remote, "://") {
		return "http://" + remote, nil
	}
	if strings.HasPrefix(remote, "http://") || strings.HasPrefix(remote, "https://") {
		return remote, nil
	}
	return "", fmt.Errorf("invalid address scheme in %q", remote)
}

// Remote returns the normalized address the client posts to.
func (c *Client) Remote() string {
	return c.address
}

// Send posts one request and returns the decoded response envelope without
// judging its contents: the result, error object, and attestations come back
// exactly as the endpoint produced them. Callers that need verified results
// go through a verifying client instead of using Send directly.
func (c *Client) Send(ctx context.Context, method string, params []interface{}) (*Response, error) {
	id := c.nextID()
	request, err := NewRequest(id, method, params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode params: %w", err)
	}
	requestBytes, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, c.address, bytes.NewReader(requestBytes))
	if err != nil {
		return nil, fmt.Errorf("request setup failed: %w", err)
	}
	httpRequest.Header.Set("Content-Type", "application/json")

	httpResponse, err := c.client.Do(httpRequest)
	if err != nil {
		return nil, &TransportError{URL: c.address, Err: err}
	}
	defer httpResponse.Body.Close()

	responseBytes, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return nil, &TransportError{URL: c.address, Err: fmt.Errorf("failed to read response body: %w", err)}
	}
	if httpResponse.StatusCode/100 != 2 {
		return nil, &TransportError{URL: c.address, StatusCode: httpResponse.StatusCode}
	}

	return unmarshalResponseBytes(responseBytes, id)
}

// Call sends a request and unmarshals a successful result into result. A
// JSON-RPC error response is returned as *Error. Pass a nil result to
// discard the result value.
func (c *Client) Call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	response, err := c.Send(ctx, method, params)
	if err != nil {
		return err
	}
	if response.Error != nil {
		return response.Error
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(response.Result, result); err != nil {
		return fmt.Errorf("error unmarshaling result: %w", err)
	}
	return nil
}

func (c *Client) nextID() IntID {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	id := c.nextReqID
	c.nextReqID++
	return IntID(id)
}

func unmarshalResponseBytes(responseBytes []byte, expectedID jsonrpcid) (*Response, error) {
	response := &Response{}
	if err := json.Unmarshal(responseBytes, response); err != nil {
		return nil, fmt.Errorf("error unmarshaling response: %w", err)
	}
	if err := response.ValidateBasic(); err != nil {
		return nil, err
	}
	// Error responses are passed through without an ID check; by the
	// JSON-RPC 2.0 spec the ID may be null when the server could not parse
	// the request.
	if response.Error == nil {
		if err := validateResponseID(response, expectedID); err != nil {
			return nil, err
		}
	}
	return response, nil
}

func validateResponseID(response *Response, expectedID jsonrpcid) error {
	if response.ID == nil {
		return errors.New("missing ID in response")
	}
	if response.ID != expectedID {
		return fmt.Errorf("response ID (%v) does not match request ID (%v)", response.ID, expectedID)
	}
	return nil
}
