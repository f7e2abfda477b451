package client

import (
	"errors"
	"fmt"
)

// Common errors returned by the client.
var (
	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled during retry.
	ErrContextCancelled = errors.New("context cancelled")
)

// ErrorClass represents a classification of request errors.
type ErrorClass string

const (
	// ErrorClassNetwork represents transient network errors (connect failure, timeout).
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassMalformed represents invalid JSON or an unexpected response shape.
	ErrorClassMalformed ErrorClass = "malformed"

	// ErrorClassLogic represents a response handler contract violation: a payload
	// whose container shape conflicts with the shape established by the first page.
	ErrorClassLogic ErrorClass = "logic"
)

// CrawlError represents a crawl request error with additional context.
type CrawlError struct {
	StatusCode int
	Class      ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *CrawlError) Error() string {
	if e.Err != nil {
		if e.StatusCode > 0 {
			return fmt.Sprintf("wiki %s error (status %d): %s: %v",
				e.Class, e.StatusCode, e.Message, e.Err)
		}
		return fmt.Sprintf("wiki %s error: %s: %v", e.Class, e.Message, e.Err)
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("wiki %s error (status %d): %s",
			e.Class, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("wiki %s error: %s", e.Class, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *CrawlError) Unwrap() error {
	return e.Err
}

// Classify returns the error class of err, defaulting to network for
// untyped errors. Returns "" for nil.
func Classify(err error) ErrorClass {
	if err == nil {
		return ""
	}
	var ce *CrawlError
	if errors.As(err, &ce) {
		return ce.Class
	}
	return ErrorClassNetwork
}

// ShouldRetry determines if an error should be retried based on its classification.
func ShouldRetry(class ErrorClass) bool {
	switch class {
	case ErrorClassNetwork:
		// Transient network errors should be retried
		return true
	case ErrorClassServer:
		// 5xx server errors should be retried
		return true
	case ErrorClassMalformed:
		// Malformed bodies are replayed with the same continuation token in
		// case the response was truncated in flight
		return true
	case ErrorClassClient:
		// 4xx errors should NOT be retried
		return false
	case ErrorClassLogic:
		// Handler contract violations are fatal for the run
		return false
	default:
		return false
	}
}
