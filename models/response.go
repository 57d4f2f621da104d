package models

// Error codes returned by the voting endpoints.
const (
	ErrMissingParams    = "missing_params"
	ErrRateLimit        = "rate_limit"
	ErrInvalidOrExpired = "invalid_or_expired"
	ErrForbidden        = "forbidden"
	ErrServerError      = "server_error"
)

// VoteResponse is the JSON envelope shared by every voting endpoint. All
// fields are omitted when unset so each outcome keeps its exact wire shape,
// e.g. {"ok":true} or {"error":"rate_limit"}.
type VoteResponse struct {
	OK           bool   `json:"ok,omitempty"`
	AlreadyVoted bool   `json:"alreadyVoted,omitempty"`
	Error        string `json:"error,omitempty"`
	Message      string `json:"message,omitempty"`
}
