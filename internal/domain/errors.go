package domain

import "fmt"

// Error kinds surfaced to GraphQL clients as a stable machine-readable code.
const (
	KindUnauthenticated   = "UNAUTHENTICATED"
	KindNotFound          = "NOT_FOUND"
	KindDuplicateEntry    = "DUPLICATE_ENTRY"
	KindRemoteUnavailable = "REMOTE_UNAVAILABLE"
	KindQueryTooLarge     = "QUERY_TOO_LARGE"
	KindValidation        = "VALIDATION_ERROR"
)

// Error is a kind-tagged error. Two Errors match under errors.Is when their
// kinds are equal, so sentinel values below can classify wrapped errors.
type Error struct {
	Kind    string
	Message string
}

func (e Error) Error() string {
	if e.Message == "" {
		return e.Kind
	}
	return e.Message
}

// Is enables errors.Is matching by kind.
func (e Error) Is(target error) bool {
	if t, ok := target.(Error); ok {
		return t.Kind == e.Kind
	}
	if t, ok := target.(*Error); ok {
		return t.Kind == e.Kind
	}
	return false
}

// Extensions satisfies the GraphQL executor's extended-error interface; the
// kind rides along in the response's error list as extensions.code.
func (e Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.Kind}
}

// Sentinel errors for classification with errors.Is.
var (
	ErrUnauthenticated   = Error{Kind: KindUnauthenticated, Message: "authentication required"}
	ErrNotFound          = Error{Kind: KindNotFound, Message: "not found"}
	ErrDuplicateEntry    = Error{Kind: KindDuplicateEntry, Message: "entry already exists"}
	ErrRemoteUnavailable = Error{Kind: KindRemoteUnavailable, Message: "remote API unavailable"}
	ErrQueryTooLarge     = Error{Kind: KindQueryTooLarge, Message: "query too large"}
	ErrValidation        = Error{Kind: KindValidation, Message: "validation failed"}
)

// NotFoundf builds a NOT_FOUND error with a formatted message.
func NotFoundf(format string, args ...any) Error {
	return Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// RemoteUnavailablef builds a REMOTE_UNAVAILABLE error with a formatted message.
func RemoteUnavailablef(format string, args ...any) Error {
	return Error{Kind: KindRemoteUnavailable, Message: fmt.Sprintf(format, args...)}
}

// Validationf builds a VALIDATION_ERROR with a formatted message.
func Validationf(format string, args ...any) Error {
	return Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}
