package chi

import (
	"github.com/townstage/searchcore/internal/domain/search/filters"
	"github.com/townstage/searchcore/internal/domain/search/result"
)

// SearchRequest is the POST /search body.
type SearchRequest struct {
	Query   string          `json:"query"`
	Filters filters.Filters `json:"filters"`
	Limit   int             `json:"limit,omitempty"`
	Debug   bool            `json:"debug,omitempty"`
}

// SearchResponse is the POST /search reply. The telemetry fields are
// populated only when the caller requested debug mode.
type SearchResponse struct {
	Results        []result.Result  `json:"results"`
	AppliedFilters *filters.Filters `json:"appliedFilters,omitempty"`
	QueryTimeMs    *int64           `json:"queryTimeMs,omitempty"`
	EmbeddingsUsed *bool            `json:"embeddingsUsed,omitempty"`
}

// Error codes returned in the error envelope.
const (
	codeBadRequest    = "bad_request"
	codeUnauthorized  = "unauthorized"
	codeRateLimited   = "rate_limited"
	codeInternalError = "internal_error"
)

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
