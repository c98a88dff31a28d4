package scx

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/scx-dev/scx-go/internal/provider"
)

// Error is the single failure shape surfaced by all three model families.
// Retryable is a hint for callers; the adapter itself never retries.
type Error struct {
	Provider  string
	Code      string
	Status    int
	Message   string
	Retryable bool
	Cause     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Status != 0 && e.Message != "":
		return fmt.Sprintf("%s: status %d: %s", e.Provider, e.Status, e.Message)
	case e.Provider != "" && e.Message != "":
		return fmt.Sprintf("%s: %s", e.Provider, e.Message)
	case e.Message != "":
		return e.Message
	case e.Provider != "":
		return fmt.Sprintf("%s: error", e.Provider)
	}
	return "error"
}

func (e *Error) Unwrap() error { return e.Cause }

func IsRateLimited(err error) bool {
	var e *Error
	return errors.As(err, &e) && (e.Status == http.StatusTooManyRequests || e.Code == "rate_limited")
}

func IsAuth(err error) bool {
	var e *Error
	return errors.As(err, &e) && (e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden || e.Code == "unauthorized")
}

func IsTimeout(err error) bool {
	var e *Error
	if errors.As(err, &e) && e.Code == "timeout" {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func IsCanceled(err error) bool {
	var e *Error
	if errors.As(err, &e) && e.Code == "canceled" {
		return true
	}
	return errors.Is(err, context.Canceled)
}

func mapProviderError(err error) error {
	if err == nil {
		return nil
	}
	var pe *provider.Error
	if errors.As(err, &pe) {
		return &Error{
			Provider:  pe.Provider,
			Code:      pe.Code,
			Status:    pe.Status,
			Message:   pe.Message,
			Retryable: pe.Retryable,
			Cause:     pe.Cause,
		}
	}
	return err
}

// mapChatError normalizes failures from the chat delegate into *Error so
// callers see one error shape across all three model families.
func mapChatError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &Error{
			Provider:  ProviderName,
			Code:      stringifyCode(apiErr.Code, apiErr.Type),
			Status:    apiErr.HTTPStatusCode,
			Message:   apiErr.Message,
			Retryable: retryableStatus(apiErr.HTTPStatusCode),
			Cause:     err,
		}
	}

	code := "network_error"
	retryable := true
	switch {
	case errors.Is(err, context.Canceled):
		code, retryable = "canceled", false
	case errors.Is(err, context.DeadlineExceeded):
		code = "timeout"
	}
	return &Error{Provider: ProviderName, Code: code, Message: err.Error(), Retryable: retryable, Cause: err}
}

func retryableStatus(status int) bool {
	return status == http.StatusRequestTimeout ||
		status == http.StatusTooManyRequests ||
		(status >= 500 && status <= 599)
}

func stringifyCode(code any, fallback string) string {
	if v, ok := code.(string); ok && v != "" {
		return v
	}
	if fallback != "" {
		return fallback
	}
	return "unknown"
}
