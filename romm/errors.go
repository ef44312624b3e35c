package romm

import (
	"errors"
	"fmt"
)

// ErrNoFavoritesCollection is returned when a favorites-filtered fetch is
// requested but the user account has no Favourites collection on the server.
var ErrNoFavoritesCollection = errors.New("no favourites collection on server")

// ErrorKind classifies API failures so callers can branch on the kind of
// failure without inspecting HTTP status codes.
type ErrorKind int

const (
	KindTransport ErrorKind = iota
	KindNotFound
	KindAuthRequired
	KindRateLimited
	KindServer
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAuthRequired:
		return "auth_required"
	case KindRateLimited:
		return "rate_limited"
	case KindServer:
		return "server"
	default:
		return "transport"
	}
}

// APIError provides detailed error information for RomM API operations
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	URL        string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("romm %s [%d] %s: %v", e.Kind, e.StatusCode, e.URL, e.Err)
	}
	return fmt.Sprintf("romm %s %s: %v", e.Kind, e.URL, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// KindOf extracts the error kind from an error chain.
// Errors that are not APIErrors are treated as transport failures.
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindTransport
}

func newAPIError(kind ErrorKind, status int, url string, err error) *APIError {
	return &APIError{
		Kind:       kind,
		StatusCode: status,
		URL:        url,
		Err:        err,
	}
}
