package foldery

import (
	"errors"
	"net/http"
	"strings"
)

// Kind classifies a failure so transports can map it to a response without
// inspecting messages.
type Kind int

const (
	KindUnclassified Kind = iota
	KindNameRequired
	KindAlreadyExists
	KindNotFound
	KindPermissionDenied
	KindInvalidIdentifier
	KindInvalidPayload
	KindMissingIdentity
	KindStorageUnavailable
)

// StatusCode returns the HTTP status associated with the kind.
func (k Kind) StatusCode() int {
	switch k {
	case KindNameRequired, KindInvalidIdentifier, KindInvalidPayload, KindMissingIdentity:
		return http.StatusBadRequest
	case KindAlreadyExists:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindPermissionDenied:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Code returns the machine readable error code rendered in response bodies.
func (k Kind) Code() string {
	switch k {
	case KindNameRequired:
		return "name_required"
	case KindAlreadyExists:
		return "already_exists"
	case KindNotFound:
		return "not_found"
	case KindPermissionDenied:
		return "permission_denied"
	case KindInvalidIdentifier:
		return "invalid_identifier"
	case KindInvalidPayload:
		return "invalid_payload"
	case KindMissingIdentity:
		return "missing_identity"
	case KindStorageUnavailable:
		return "storage_unavailable"
	default:
		return "internal_error"
	}
}

// Message returns the generic message used when a classified error carries
// none of its own.
func (k Kind) Message() string {
	switch k {
	case KindNameRequired:
		return "Folder name is required."
	case KindAlreadyExists:
		return "Resource already exists."
	case KindNotFound:
		return "Resource not found."
	case KindPermissionDenied:
		return "You do not have permission to access or modify this folder."
	case KindInvalidIdentifier:
		return "Invalid identifier."
	case KindInvalidPayload:
		return "Invalid request payload."
	case KindMissingIdentity:
		return "User ID is missing."
	case KindStorageUnavailable:
		return "Storage backend is unavailable."
	default:
		return "Internal server error"
	}
}

func (k Kind) String() string {
	return k.Code()
}

// Error is the classified error returned by folder operations.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	switch {
	case e.Message != "":
		b.WriteString(e.Message)
	default:
		b.WriteString(e.Kind.Code())
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports a match against any *Error of the same kind, which lets the
// sentinels below be used with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	// ErrNameRequired is returned when a folder is created without a name
	ErrNameRequired = &Error{Kind: KindNameRequired}
	// ErrAlreadyExists is returned when a folder or its bucket already exists
	ErrAlreadyExists = &Error{Kind: KindAlreadyExists}
	// ErrNotFound is returned when a folder is not found
	ErrNotFound = &Error{Kind: KindNotFound}
	// ErrPermissionDenied is returned when the caller does not own the folder
	ErrPermissionDenied = &Error{Kind: KindPermissionDenied}
	// ErrInvalidIdentifier is returned when a bucket name cannot be derived
	ErrInvalidIdentifier = &Error{Kind: KindInvalidIdentifier}
	// ErrInvalidPayload is returned when a request body cannot be decoded
	ErrInvalidPayload = &Error{Kind: KindInvalidPayload}
	// ErrMissingIdentity is returned when the caller identity is absent
	ErrMissingIdentity = &Error{Kind: KindMissingIdentity}
	// ErrStorageUnavailable is returned when the bucket backend cannot be probed
	ErrStorageUnavailable = &Error{Kind: KindStorageUnavailable}
)

// E builds a classified error.
func E(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Wrap builds a classified error around a cause.
func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the outermost *Error in err's chain, or
// KindUnclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnclassified
}

// MessageOf returns a human readable message for err. Classified errors use
// their own message or, lacking one, the generic message of their kind.
// Unclassified errors return err.Error().
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.Message()
}

// Trace returns the messages of err's unwrap chain, outermost first.
func Trace(err error) []string {
	if err == nil {
		return nil
	}
	trace := []string{err.Error()}
	switch x := err.(type) {
	case interface{ Unwrap() []error }:
		for _, e := range x.Unwrap() {
			trace = append(trace, Trace(e)...)
		}
	case interface{ Unwrap() error }:
		trace = append(trace, Trace(x.Unwrap())...)
	}
	return trace
}
