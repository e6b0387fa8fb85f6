// Package types holds the JSON envelopes every storefront endpoint responds
// with: payloads under "data", failures under "error".
package types

// SuccessEnvelope wraps a happy-path payload (catalog page, cart, checkout).
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the client-facing error body: a stable machine code plus a
// message safe to surface in the storefront UI.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
