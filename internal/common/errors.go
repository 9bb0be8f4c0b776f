package common

import (
	"errors"
	"fmt"

	"github.com/nostalgic/widgets/pkg/i18n"
)

// Configuration errors
var (
	ErrMissingID       = errors.New("widget id is required")
	ErrUnknownWidget   = errors.New("unknown widget kind")
	ErrUnknownInstance = errors.New("unknown widget instance")
)

// Workflow errors
var (
	ErrNotConfirmed   = errors.New("deletion not confirmed")
	ErrEntryNotFound  = errors.New("entry not found in current snapshot")
	ErrAlreadyPending = errors.New("a submission is already in flight")
)

// Category classifies a widget failure
type Category string

const (
	CategoryConfiguration Category = "configuration"
	CategoryTransport     Category = "transport"
	CategoryLogical       Category = "logical"
	CategoryPermission    Category = "permission"
	CategoryUnknown       Category = "unknown"
)

// TransportError wraps a network failure or an unreadable response
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// LogicalError is a {success:false} answer from the remote API.
// Message is the English sentence the server sent.
type LogicalError struct {
	Op      string
	Message string
}

func (e *LogicalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// PermissionError is raised client-side before any mutating call is made
type PermissionError struct {
	Action  string
	EntryID string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("no %s permission for entry %s", e.Action, e.EntryID)
}

// Classify returns the category of err
func Classify(err error) Category {
	var (
		transport  *TransportError
		logical    *LogicalError
		permission *PermissionError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingID), errors.Is(err, ErrUnknownWidget):
		return CategoryConfiguration
	case errors.As(err, &permission):
		return CategoryPermission
	case errors.As(err, &logical):
		return CategoryLogical
	case errors.As(err, &transport):
		return CategoryTransport
	default:
		return CategoryUnknown
	}
}

// Localize turns err into the message shown to the visitor
func Localize(bundle *i18n.Bundle, locale i18n.Locale, err error) string {
	var (
		logical    *LogicalError
		permission *PermissionError
	)
	switch Classify(err) {
	case "":
		return ""
	case CategoryConfiguration:
		return bundle.T(locale, "error.missing_id")
	case CategoryTransport:
		return bundle.T(locale, "error.network")
	case CategoryLogical:
		errors.As(err, &logical)
		return bundle.TranslateServerError(locale, logical.Message)
	case CategoryPermission:
		errors.As(err, &permission)
		if permission.Action == "delete" {
			return bundle.T(locale, "bbs.no_delete_permission")
		}
		return bundle.T(locale, "bbs.no_edit_permission")
	}
	if errors.Is(err, ErrUnknownInstance) {
		return bundle.T(locale, "error.expired")
	}
	if errors.Is(err, ErrNotConfirmed) {
		return bundle.T(locale, "bbs.delete_not_confirmed")
	}
	return bundle.T(locale, "error.unknown")
}
