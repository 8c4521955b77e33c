// Package proxy exposes a verifying client as a plain JSON-RPC endpoint.
// Consumers keep speaking ordinary JSON-RPC over HTTP POST; every response
// that comes back has already cleared attestation verification, so wallets
// and tooling that know nothing about attestations still benefit from them.
package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/stateless-solutions/stateless-go/libs/log"
	"github.com/stateless-solutions/stateless-go/rpc"
)

// Requester executes one JSON-RPC call and returns its verified raw result.
// *stateless.Client implements it.
type Requester interface {
	Request(ctx context.Context, method string, params []interface{}) (json.RawMessage, error)
}

// NewHandler returns an http.Handler that decodes JSON-RPC requests,
// forwards each through requester, and writes the verified responses.
// Batches are forwarded request by request; notifications are dropped, since
// there is no response to verify or correlate.
func NewHandler(requester Requester, logger log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "JSON-RPC requests must be POSTed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeResponses(w, logger, rpc.InvalidRequestErrorResponse(nil, fmt.Errorf("reading request body: %w", err)))
			return
		}
		requests, err := parseRequests(body)
		if err != nil {
			writeResponses(w, logger, rpc.ParseErrorResponse(fmt.Errorf("decoding request: %w", err)))
			return
		}

		responses := make([]rpc.Response, 0, len(requests))
		for _, req := range requests {
			if req.ID == nil {
				logger.Debug("ignoring notification", "method", req.Method)
				continue
			}
			responses = append(responses, serveRequest(r.Context(), requester, req))
		}
		if len(responses) == 0 {
			return
		}
		writeResponses(w, logger, responses...)
	})
}

// serveRequest forwards one request and maps the outcome back onto the
// JSON-RPC envelope. An *rpc.Error from the requester is the endpoint's own
// attested error object and passes through untouched; anything else is a
// verification or transport failure reported as a server error.
func serveRequest(ctx context.Context, requester Requester, req rpc.Request) rpc.Response {
	if req.Method == "" {
		return rpc.InvalidRequestErrorResponse(req.ID, errors.New("empty method"))
	}
	var params []interface{}
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return rpc.InvalidParamsErrorResponse(req.ID, fmt.Errorf("positional parameters required: %w", err))
		}
	}

	result, err := requester.Request(ctx, req.Method, params)
	if err != nil {
		var rpcErr *rpc.Error
		if errors.As(err, &rpcErr) {
			return rpc.Response{JSONRPC: "2.0", ID: req.ID, Error: rpcErr}
		}
		return rpc.ServerErrorResponse(req.ID, err)
	}
	return rpc.NewSuccessResponse(req.ID, result)
}

// parseRequests parses a JSON-RPC request or request batch from data.
func parseRequests(data []byte) ([]rpc.Request, error) {
	var reqs []rpc.Request
	var err error

	isArray := bytes.HasPrefix(bytes.TrimSpace(data), []byte("["))
	if isArray {
		err = json.Unmarshal(data, &reqs)
	} else {
		reqs = append(reqs, rpc.Request{})
		err = json.Unmarshal(data, &reqs[0])
	}
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

// writeResponses writes one response as a single object and several as an
// array, matching how the requests arrived.
func writeResponses(w http.ResponseWriter, logger log.Logger, responses ...rpc.Response) {
	var body []byte
	var err error
	if len(responses) == 1 {
		body, err = json.Marshal(responses[0])
	} else {
		body, err = json.Marshal(responses)
	}
	if err != nil {
		logger.Error("failed to marshal response", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		logger.Error("failed to write response", "err", err)
	}
}
