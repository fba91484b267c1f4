// Package domain contains business logic types and errors.
// Domain errors represent business-level failures. A StatusError is the one
// place where business logic declares the HTTP status it wants; everything
// else is mapped by the HTTP adapter's error translator.
package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates one or more request constraints were violated.
	ErrValidation = errors.New("validation failed")
)

// StatusError is a business failure that explicitly carries the HTTP status
// to return. Message is user-facing and may be empty, in which case the
// translator falls back to the generic localized message.
type StatusError struct {
	Status  int
	Message string
	Err     error
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return http.StatusText(e.Status)
}

// Unwrap returns the wrapped cause for errors.Is() support.
func (e *StatusError) Unwrap() error {
	return e.Err
}

// NewStatusError creates a declared-status failure.
func NewStatusError(status int, message string) error {
	return &StatusError{Status: status, Message: message}
}

// WrapStatusError creates a declared-status failure that keeps its cause.
func WrapStatusError(status int, message string, cause error) error {
	return &StatusError{Status: status, Message: message, Err: cause}
}

// NewNotFoundError creates a 404 failure carrying an already localized message.
func NewNotFoundError(message string) error {
	return &StatusError{Status: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// NodeKind classifies a segment of a validation field path.
type NodeKind int

const (
	// NodeProperty is a struct field.
	NodeProperty NodeKind = iota

	// NodeParameter is the named argument of an operation.
	NodeParameter

	// NodeMethod is the operation that received the argument.
	NodeMethod

	// NodeConstructor is the constructor that received the argument.
	NodeConstructor
)

// PathNode is one segment of a validation field path.
type PathNode struct {
	Name  string
	Kind  NodeKind
	Index *int
}

// Framing reports whether the node describes invocation framing rather than
// a user-facing field.
func (n PathNode) Framing() bool {
	return n.Kind == NodeMethod || n.Kind == NodeConstructor
}

// ValidationFailure is a single unmet field constraint.
type ValidationFailure struct {
	Path            []PathNode
	MessageTemplate string
}

// MessageKey returns the message template with one pair of surrounding
// braces removed.
func (f ValidationFailure) MessageKey() string {
	t := f.MessageTemplate
	if strings.HasPrefix(t, "{") && strings.HasSuffix(t, "}") && len(t) >= 2 {
		return t[1 : len(t)-1]
	}

	return t
}

// FieldPath renders the user-facing part of the path: framing nodes are
// dropped, indexed nodes get a [n] suffix and the rest are joined with dots.
func (f ValidationFailure) FieldPath() string {
	var b strings.Builder

	for _, node := range f.Path {
		if node.Framing() {
			continue
		}

		if b.Len() > 0 {
			b.WriteByte('.')
		}

		b.WriteString(node.Name)

		if node.Index != nil {
			fmt.Fprintf(&b, "[%d]", *node.Index)
		}
	}

	return b.String()
}

// ValidationFailures is the set of violations found on one request,
// in field declaration order.
type ValidationFailures []ValidationFailure

// Error implements the error interface.
func (v ValidationFailures) Error() string {
	parts := make([]string, 0, len(v))
	for _, f := range v {
		parts = append(parts, f.FieldPath()+": "+f.MessageKey())
	}

	return "validation failed: " + strings.Join(parts, ", ")
}

// Unwrap returns the sentinel error for errors.Is() support.
func (v ValidationFailures) Unwrap() error {
	return ErrValidation
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
