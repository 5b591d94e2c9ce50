package llm

import (
	"errors"
	"fmt"

	"github.com/nulzo/shem-api/internal/httpclient"
)

// FromHTTPError classifies an httpclient error for provider p.
func FromHTTPError(p ProviderName, err error) *Error {
	var decodeErr *httpclient.DecodeError
	if errors.As(err, &decodeErr) {
		return NewError(MalformedResponse, p, "undecodable response body", err)
	}

	var upstream *httpclient.UpstreamError
	if errors.As(err, &upstream) {
		return NewError(TransportFailure, p, fmt.Sprintf("upstream returned status %d", upstream.StatusCode), err)
	}

	return NewError(TransportFailure, p, "request failed", err)
}
