// Package cuperrors defines the error taxonomy shared by the platform
// adapters and the action dispatcher. Every failure that crosses a package
// boundary in this module is one of the kinds below, never a bare
// fmt.Errorf, so callers can branch on Kind instead of string-matching
// messages.
package cuperrors

import (
	"errors"
	"fmt"
)

// Kind identifies one error taxonomy entry (§7).
type Kind string

const (
	// KindPlatformUnsupported: the detected platform has no adapter.
	KindPlatformUnsupported Kind = "platform-unsupported"
	// KindPlatformPermission: the OS denied access (e.g. macOS Accessibility).
	KindPlatformPermission Kind = "platform-permission"
	// KindPlatformUnavailable: a required native helper is missing.
	KindPlatformUnavailable Kind = "platform-unavailable"
	// KindPlatformTimeout: a subprocess or CDP call exceeded its deadline.
	KindPlatformTimeout Kind = "platform-timeout"
	// KindPlatformFailure: the native call returned an unrecognized failure.
	KindPlatformFailure Kind = "platform-failure"
	// KindUnknownAction: the dispatcher was asked to run an unrecognized action.
	KindUnknownAction Kind = "unknown-action"
	// KindUnknownElement: an element_id does not resolve in the ref map.
	KindUnknownElement Kind = "unknown-element"
	// KindInvalidParams: required action parameters are missing or malformed.
	KindInvalidParams Kind = "invalid-params"
	// KindStaleSnapshot: the element ID resolves, but its native reference
	// is no longer valid.
	KindStaleSnapshot Kind = "stale-snapshot"
)

// Error is the typed error every adapter and dispatcher failure is wrapped
// in. It carries the taxonomy Kind plus optional native error text (for
// platform-failure) so callers can branch on Kind with errors.As while still
// printing a useful message.
type Error struct {
	Kind    Kind
	Message string
	Native  string // raw native error text, populated for platform-failure
	Err     error  // wrapped cause, if any
}

func (e *Error) Error() string {
	if e.Native != "" {
		return fmt.Sprintf("%s: %s (native: %s)", e.Kind, e.Message, e.Native)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports equality by Kind so callers can do errors.Is(err, cuperrors.New(KindStaleSnapshot, ""))
// or, more idiomatically, use Of(err) == KindX.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Kind == e.Kind
	}
	return false
}

// New constructs an *Error of the given kind with a human-readable message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf is New with fmt.Sprintf-style formatting.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs an *Error of the given kind wrapping a lower-level cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Native constructs a platform-failure error carrying the native error text
// verbatim (e.g. AppleScript stderr, a PowerShell ERROR: line).
func Native(message, nativeText string) *Error {
	return &Error{Kind: KindPlatformFailure, Message: message, Native: nativeText}
}

// Of extracts the Kind of err if it is (or wraps) a *Error, and ok=false
// otherwise.
func Of(err error) (kind Kind, ok bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := Of(err)
	return ok && k == kind
}

// IsRetryable reports whether an error's kind is one a caller might
// reasonably retry (timeouts and transient native failures). The core never
// retries itself (§7): this is for callers who choose to.
func IsRetryable(err error) bool {
	k, ok := Of(err)
	if !ok {
		return false
	}
	switch k {
	case KindPlatformTimeout, KindPlatformFailure:
		return true
	default:
		return false
	}
}

// IsFatal reports whether an error's kind indicates the session or adapter
// cannot proceed at all (as opposed to a single failed operation).
func IsFatal(err error) bool {
	k, ok := Of(err)
	if !ok {
		return false
	}
	switch k {
	case KindPlatformUnsupported, KindPlatformPermission, KindPlatformUnavailable:
		return true
	default:
		return false
	}
}

// Result is the uniform result record returned by the action dispatcher
// (§7): actions return this rather than raising, and the dispatcher itself
// converts any panic/exception surfaced from a handler into Success=false.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Fail builds a failure Result from an error, using the error's message
// verbatim as required by the "human-readable error" rule in §7.
func Fail(err error) Result {
	return Result{Success: false, Error: err.Error()}
}

// Ok builds a success Result with a short imperative message.
func Ok(message string) Result {
	return Result{Success: true, Message: message}
}
