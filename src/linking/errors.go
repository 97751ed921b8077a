package linking

import (
	"errors"
	"fmt"
)

// Kind is the stable, machine-readable class of a linking failure.
type Kind string

const (
	KindUnauthorized        Kind = "unauthorized"
	KindInvalidRequest      Kind = "invalid_request"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	KindUpstreamRejected    Kind = "upstream_rejected"
	KindNoLinkedAccounts    Kind = "no_linked_accounts"
	KindInternal            Kind = "internal"
)

// Error carries a Kind plus a message that is safe to show to the caller.
// Err holds the underlying cause for logs only.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

var (
	ErrUnauthorized     = &Error{Kind: KindUnauthorized, Message: "Unauthorized"}
	ErrNoLinkedAccounts = &Error{Kind: KindNoLinkedAccounts, Message: "No connected accounts found"}
)

// KindOf reports the Kind of err, or KindInternal for anything unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the caller-safe message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal server error"
}

func InvalidRequest(message string) error {
	return &Error{Kind: KindInvalidRequest, Message: message}
}

func UpstreamUnavailable(message string, err error) error {
	return &Error{Kind: KindUpstreamUnavailable, Message: message, Err: err}
}

func UpstreamRejected(message string, err error) error {
	return &Error{Kind: KindUpstreamRejected, Message: message, Err: err}
}

func internal(message string, err error) error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// upstream keeps an aggregator error that is already classified and treats
// everything else as the aggregator being unavailable. A request the adapter
// refused to send is the caller's fault and keeps its own message.
func upstream(message string, err error) error {
	switch KindOf(err) {
	case KindInvalidRequest:
		return err
	case KindUpstreamRejected:
		return &Error{Kind: KindUpstreamRejected, Message: message, Err: err}
	default:
		return &Error{Kind: KindUpstreamUnavailable, Message: message, Err: err}
	}
}
