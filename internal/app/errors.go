package app

import (
	"fmt"
	"net/http"
)

// DomainError is a user-visible failure with an HTTP status and a stable
// machine-readable code. Anything else leaving the service layer renders as a
// generic 500.
type DomainError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func domainError(status int, code, message string, details any) *DomainError {
	return &DomainError{
		Status:  status,
		Code:    code,
		Message: message,
		Details: details,
	}
}

// notFound also masks cross-organization access: a menu owned by another
// organization reads as missing, never as forbidden.
func notFound(message string) *DomainError {
	return domainError(http.StatusNotFound, "NOT_FOUND", message, nil)
}

// writeFailed marks a reconciliation persistence failure; callers skip cache
// invalidation when they see it.
func writeFailed(message, menuID string) *DomainError {
	return domainError(http.StatusInternalServerError, "SYNC_WRITE_FAILED", message, map[string]any{"menuId": menuID})
}
