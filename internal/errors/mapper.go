package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Chat-facing reply templates. Only the transport template carries underlying
// error text; everything else is logged server-side and kept out of the chat.
const (
	userMsgConfiguration = "API key or model not configured."
	userMsgTransport     = "An error occurred while contacting the AI: %s"
	userMsgGeneric       = "An unexpected error occurred. Please try again."
)

// Configuration wraps a message as a configuration error.
func Configuration(message string) error {
	return fmt.Errorf("%s: %w", message, ErrConfiguration)
}

// Transport wraps a message as a transport error.
func Transport(message string) error {
	return fmt.Errorf("%s: %w", message, ErrTransport)
}

// ResponseShape wraps a message as a response shape error.
func ResponseShape(message string) error {
	return fmt.Errorf("%s: %w", message, ErrResponseShape)
}

// Internal wraps a message as an internal error.
func Internal(message string) error {
	return fmt.Errorf("%s: %w", message, ErrInternal)
}

// Wrap adds context without changing the category.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsCategory checks if an error belongs to a specific category.
func IsCategory(err error, category error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, category)
}

// Category names the taxonomy bucket for logging.
func Category(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return "ErrConfiguration"
	case errors.Is(err, ErrTransport):
		return "ErrTransport"
	case errors.Is(err, ErrResponseShape):
		return "ErrResponseShape"
	case errors.Is(err, ErrInternal):
		return "ErrInternal"
	default:
		return "Unknown"
	}
}

// UserMessage converts an invocation error into the reply shown in chat.
// Shape errors and anything unanticipated collapse into the generic template;
// the underlying detail stays in the server log.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return userMsgConfiguration
	case errors.Is(err, ErrTransport):
		return fmt.Sprintf(userMsgTransport, transportDetail(err))
	default:
		return userMsgGeneric
	}
}

// transportDetail strips the category suffix so the user sees the underlying
// error text, not the taxonomy wrapper.
func transportDetail(err error) string {
	return strings.TrimSuffix(err.Error(), ": "+ErrTransport.Error())
}
