package remote

// Status indicates whether a tool invocation produced a usable output.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// ErrorKind classifies tool invocation failures so the orchestration layer
// can decide whether to retry, re-prompt or surface the failure.
type ErrorKind string

const (
	ErrorNone             ErrorKind = ""
	ErrorInvalidArguments ErrorKind = "invalid_arguments"
	ErrorUnknownTool      ErrorKind = "unknown_tool"
	ErrorClient           ErrorKind = "client_error"
	ErrorServer           ErrorKind = "server_error"
	ErrorTimeout          ErrorKind = "timeout"
	ErrorNetwork          ErrorKind = "network_error"
	ErrorCredential       ErrorKind = "credential_error"
	ErrorCancelled        ErrorKind = "cancelled"
	ErrorInternal         ErrorKind = "internal"
)

// Result is the uniform success/error envelope returned by every tool
// invocation. It is produced fresh per call and never mutated afterwards.
type Result struct {
	Status       Status                 `json:"status"`
	Output       map[string]interface{} `json:"output,omitempty"`
	ErrorKind    ErrorKind              `json:"error_kind,omitempty"`
	ErrorMessage string                 `json:"error_message,omitempty"`

	// StatusCode carries the remote HTTP status for diagnostics when known.
	StatusCode int `json:"status_code,omitempty"`
	// Location carries the polling URL supplied by asynchronous endpoints
	// that respond 202 Accepted.
	Location string `json:"location,omitempty"`
	// Attempts records how many HTTP attempts were made, including retries.
	Attempts int `json:"attempts,omitempty"`
}

// Success builds a successful result. A nil output becomes an empty map so
// callers can always range over it.
func Success(output map[string]interface{}) Result {
	if output == nil {
		output = map[string]interface{}{}
	}
	return Result{Status: StatusSuccess, Output: output}
}

// Failure builds an error result with a classified kind.
func Failure(kind ErrorKind, message string) Result {
	return Result{Status: StatusError, ErrorKind: kind, ErrorMessage: message}
}

// OK reports whether the invocation succeeded.
func (r Result) OK() bool {
	return r.Status == StatusSuccess
}

// AsMap renders the result as a plain map for handing to the agent runtime.
func (r Result) AsMap() map[string]interface{} {
	m := map[string]interface{}{
		"status": string(r.Status),
	}
	if r.OK() {
		m["output"] = r.Output
		return m
	}
	m["error_kind"] = string(r.ErrorKind)
	m["error_message"] = r.ErrorMessage
	if r.StatusCode != 0 {
		m["status_code"] = r.StatusCode
	}
	return m
}
