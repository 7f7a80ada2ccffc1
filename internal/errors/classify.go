// internal/errors/classify.go
package errors

import "errors"

// Kind groups errors by how a generation run reacts to them.
type Kind int

const (
	KindNone Kind = iota
	KindNoChanges
	KindTransport
	KindAuth
	KindAPI
	KindParse
	KindHostUnavailable
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNoChanges:
		return "no_changes"
	case KindTransport:
		return "transport"
	case KindAuth:
		return "auth"
	case KindAPI:
		return "api"
	case KindParse:
		return "parse"
	case KindHostUnavailable:
		return "host_unavailable"
	default:
		return "unknown"
	}
}

// Classify maps err onto a Kind. Auth is checked before API since a 401
// is both.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}

	var (
		apiErr   *APIError
		parseErr *ParseError
	)

	switch {
	case errors.Is(err, ErrCanceled):
		return KindTransport
	case errors.Is(err, ErrAPIKeyInvalid):
		return KindAuth
	case errors.As(err, &apiErr), errors.Is(err, ErrNetwork):
		return KindAPI
	case errors.As(err, &parseErr):
		return KindParse
	case errors.Is(err, ErrGitNoChanges):
		return KindNoChanges
	case errors.Is(err, ErrHostUnavailable):
		return KindHostUnavailable
	default:
		return KindUnknown
	}
}
