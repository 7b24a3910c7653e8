package types

// SuccessEnvelope is the uniform wrapper for successful responses.
type SuccessEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// ErrorEnvelope is the uniform wrapper for failed responses. The error
// string is the only detail ever exposed to clients.
type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
