package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AazainKhan/luminate-ai-sub001/internal/domain"
)

// ErrorCode is the machine-readable code of an error response.
type ErrorCode string

const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeInvalidQuery     ErrorCode = "invalid_query"
	CodeStoreUnavailable ErrorCode = "store_unavailable"
	CodeUnauthorized     ErrorCode = "unauthorized"
	CodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error payload.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Retry   string    `json:"retry,omitempty"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrStoreUnavailable,
		domain.ErrExternalProvider,
		domain.ErrEmbeddingProvider,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// storeUnavailableHandler adds the retry suggestion the 503 carries.
func storeUnavailableHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		return false
	}
	w.Header().Set("Retry-After", "5")
	writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{
		Code:    CodeStoreUnavailable,
		Message: msg,
		Retry:   "the content store is temporarily unreachable, retry in a few seconds",
	})
	return true
}
