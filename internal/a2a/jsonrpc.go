package a2a

import "encoding/json"

// MethodInvoke is the single JSON-RPC method agents expose.
const MethodInvoke = "agent/invoke"

// JSON-RPC 2.0 error codes used by agent servers.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInternalError  = -32603
)

// Request is a JSON-RPC 2.0 request envelope.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      int64           `json:"id"`
}

// InvokeParams are the parameters of an agent/invoke call.
type InvokeParams struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// Response is a JSON-RPC 2.0 response envelope.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
	ID      int64           `json:"id"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// InvokeResult is the result payload of an agent/invoke call. Response holds
// the agent's answer, typically a JSON document with the analysis fields.
type InvokeResult struct {
	Response string `json:"response"`
}
