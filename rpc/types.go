package rpc

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/stateless-solutions/stateless-go/attest"
)

// a wrapper to emulate a sum type: jsonrpcid = string | int
type jsonrpcid interface {
	isJSONRPCID()
}

// StringID a wrapper for JSON-RPC string IDs.
type StringID string

func (StringID) isJSONRPCID()      {}
func (id StringID) String() string { return string(id) }

// IntID a wrapper for JSON-RPC integer IDs.
type IntID int

func (IntID) isJSONRPCID()      {}
func (id IntID) String() string { return fmt.Sprintf("%d", id) }

func idFromInterface(idInterface interface{}) (jsonrpcid, error) {
	switch id := idInterface.(type) {
	case string:
		return StringID(id), nil
	case float64:
		// json.Unmarshal uses float64 for all numbers, but the JSON-RPC
		// 2.0 spec says the id SHOULD NOT contain decimals - so we
		// truncate the decimals here.
		return IntID(int(id)), nil
	default:
		typ := reflect.TypeOf(id)
		return nil, fmt.Errorf("json-rpc ID (%v) is of unknown type (%v)", id, typ)
	}
}

//----------------------------------------
// REQUEST

// Request is a JSON-RPC 2.0 request envelope. Params are positional.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      jsonrpcid       `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// UnmarshalJSON custom JSON unmarshaling due to jsonrpcid being string or int.
func (req *Request) UnmarshalJSON(data []byte) error {
	unsafeReq := struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      interface{}     `json:"id,omitempty"`
		Method  string          `json:"method"`
		Params  json.RawMessage `json:"params"`
	}{}

	if err := json.Unmarshal(data, &unsafeReq); err != nil {
		return err
	}

	req.JSONRPC = unsafeReq.JSONRPC
	req.Method = unsafeReq.Method
	req.Params = unsafeReq.Params
	if unsafeReq.ID == nil { // notification
		return nil
	}

	id, err := idFromInterface(unsafeReq.ID)
	if err != nil {
		return err
	}
	req.ID = id

	return nil
}

// NewRequest constructs a Request from an ordered parameter list.
func NewRequest(id jsonrpcid, method string, params []interface{}) (Request, error) {
	if params == nil {
		params = []interface{}{}
	}
	payload, err := json.Marshal(params)
	if err != nil {
		return Request{}, err
	}
	return Request{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
		Params:  payload,
	}, nil
}

func (req Request) String() string {
	return fmt.Sprintf("Request{%s %s/%X}", req.ID, req.Method, req.Params)
}

//----------------------------------------
// RESPONSE

// Error is the JSON-RPC error object returned by an endpoint. It is only
// surfaced to callers after the enclosing response passed attestation
// verification.
type Error struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (err *Error) Error() string {
	const baseFormat = "RPC error %v - %s"
	if len(err.Data) > 0 {
		return fmt.Sprintf(baseFormat+": %s", err.Code, err.Message, err.Data)
	}
	return fmt.Sprintf(baseFormat, err.Code, err.Message)
}

// Response is a JSON-RPC 2.0 response envelope, extended with the
// attestations attached by the remote endpoint. Exactly one of Result and
// Error is set on a valid response.
type Response struct {
	JSONRPC      string               `json:"jsonrpc"`
	ID           jsonrpcid            `json:"id,omitempty"`
	Result       json.RawMessage      `json:"result,omitempty"`
	Error        *Error               `json:"error,omitempty"`
	Attestations []attest.Attestation `json:"attestations,omitempty"`
}

// UnmarshalJSON custom JSON unmarshaling due to jsonrpcid being string or int.
func (resp *Response) UnmarshalJSON(data []byte) error {
	unsafeResp := &struct {
		JSONRPC      string               `json:"jsonrpc"`
		ID           interface{}          `json:"id,omitempty"`
		Result       json.RawMessage      `json:"result,omitempty"`
		Error        *Error               `json:"error,omitempty"`
		Attestations []attest.Attestation `json:"attestations,omitempty"`
	}{}
	if err := json.Unmarshal(data, &unsafeResp); err != nil {
		return err
	}

	resp.JSONRPC = unsafeResp.JSONRPC
	resp.Error = unsafeResp.Error
	resp.Result = unsafeResp.Result
	resp.Attestations = unsafeResp.Attestations
	if unsafeResp.ID == nil {
		return nil
	}
	id, err := idFromInterface(unsafeResp.ID)
	if err != nil {
		return err
	}
	resp.ID = id
	return nil
}

// Content returns the attested portion of the response: the result when the
// call succeeded, otherwise the canonical encoding of the error object.
func (resp *Response) Content() (json.RawMessage, error) {
	if resp.Error != nil {
		return json.Marshal(resp.Error)
	}
	return resp.Result, nil
}

// ValidateBasic checks that exactly one of result and error is present.
func (resp *Response) ValidateBasic() error {
	hasResult := len(resp.Result) > 0
	hasError := resp.Error != nil
	switch {
	case hasResult && hasError:
		return fmt.Errorf("malformed response: both result and error are set")
	case !hasResult && !hasError:
		return fmt.Errorf("malformed response: neither result nor error is set")
	}
	return nil
}

func NewSuccessResponse(id jsonrpcid, res interface{}) Response {
	result, err := json.Marshal(res)
	if err != nil {
		return InternalErrorResponse(id, fmt.Errorf("error marshaling response: %w", err))
	}
	return Response{JSONRPC: "2.0", ID: id, Result: result}
}

func NewErrorResponse(id jsonrpcid, code int, msg string, data string) Response {
	var raw json.RawMessage
	if data != "" {
		raw, _ = json.Marshal(data)
	}
	return Response{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &Error{Code: code, Message: msg, Data: raw},
	}
}

func (resp Response) String() string {
	if resp.Error == nil {
		return fmt.Sprintf("Response{%s %X}", resp.ID, resp.Result)
	}
	return fmt.Sprintf("Response{%s %v}", resp.ID, resp.Error)
}

// From the JSON-RPC 2.0 spec:
//	If there was an error in detecting the id in the Request object (e.g. Parse
//	error/Invalid Request), it MUST be Null.
func ParseErrorResponse(err error) Response {
	return NewErrorResponse(nil, -32700, "Parse error", err.Error())
}

func InvalidRequestErrorResponse(id jsonrpcid, err error) Response {
	return NewErrorResponse(id, -32600, "Invalid Request", err.Error())
}

func InvalidParamsErrorResponse(id jsonrpcid, err error) Response {
	return NewErrorResponse(id, -32602, "Invalid params", err.Error())
}

func InternalErrorResponse(id jsonrpcid, err error) Response {
	return NewErrorResponse(id, -32603, "Internal error", err.Error())
}

func ServerErrorResponse(id jsonrpcid, err error) Response {
	return NewErrorResponse(id, -32000, "Server error", err.Error())
}
