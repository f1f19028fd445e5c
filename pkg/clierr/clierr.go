// Package clierr defines the error type carried from command handlers to
// the process exit. Every failure maps to a stable exit code so scripts
// and agents can branch on the result.
package clierr

import (
	"errors"
	"fmt"
	"strings"
)

// Exit codes reported by the linctl binary.
const (
	CodeOK          = 0
	CodeGeneral     = 1
	CodeNotFound    = 2
	CodeAuth        = 3
	CodeRateLimited = 4
)

// Error is a command failure with a process exit code. Details may carry
// the decoded GraphQL errors array or an HTTP status object.
type Error struct {
	Code       int
	Message    string
	Details    any
	RetryAfter int // seconds, 0 when the server sent no Retry-After
}

// New creates an Error with the given exit code and message.
func New(code int, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithDetails attaches structured details to the error.
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

// WithRetryAfter records the server-suggested retry delay in seconds.
func (e *Error) WithRetryAfter(seconds int) *Error {
	e.RetryAfter = seconds
	return e
}

func (e *Error) Error() string {
	msgs := detailMessages(e.Details)
	if len(msgs) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(msgs, "; ")
}

// detailMessages extracts human-readable messages from a decoded GraphQL
// errors array, an object with a "message" field, or an object with a
// nested "errors" array.
func detailMessages(details any) []string {
	switch d := details.(type) {
	case []any:
		var msgs []string
		for _, item := range d {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if msg, ok := obj["message"].(string); ok {
				msgs = append(msgs, msg)
			}
		}
		return msgs
	case map[string]any:
		if msg, ok := d["message"].(string); ok {
			return []string{msg}
		}
		if nested, ok := d["errors"].([]any); ok {
			return detailMessages(nested)
		}
	}
	return nil
}

// ExitCode returns the exit code for err: the Code of a wrapped *Error,
// CodeOK for nil, CodeGeneral otherwise.
func ExitCode(err error) int {
	if err == nil {
		return CodeOK
	}
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Code
	}
	return CodeGeneral
}

// Retryable reports whether err is worth retrying: rate limits, timeouts,
// and transient upstream failures.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	var cerr *Error
	if errors.As(err, &cerr) {
		if cerr.Code == CodeRateLimited {
			return true
		}
		if cerr.Code == CodeAuth || cerr.Code == CodeNotFound {
			return false
		}
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"rate limit", "429", "timeout", "connection",
		"temporarily unavailable", "502", "503", "504",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// RetryAfter returns the server-suggested retry delay in seconds, or 0.
func RetryAfter(err error) int {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.RetryAfter
	}
	return 0
}
