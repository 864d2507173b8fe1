package model

import (
	"errors"
	"fmt"
)

// NetworkError wraps a transport failure reaching the provider.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// LlmError means the provider answered but its content could not be
// understood after every recovery strategy.
type LlmError struct {
	Reason string
}

func (e *LlmError) Error() string {
	return fmt.Sprintf("model response not usable: %s", e.Reason)
}

// ParseFailure means the response was structurally invalid with no
// recoverable JSON at all.
type ParseFailure struct {
	Detail string
}

func (e *ParseFailure) Error() string {
	return fmt.Sprintf("unable to parse response: %s", e.Detail)
}

// NoFlowersFound means a well-formed categorization contained no category
// from the flower synonym set.
type NoFlowersFound struct {
	Categories []string
}

func (e *NoFlowersFound) Error() string {
	return fmt.Sprintf("no flower category in menu (found %v)", e.Categories)
}

// UserMessage reduces any pipeline error to a single presentable string.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return "Could not reach the analysis service. Check your connection and try again."
	}
	var llmErr *LlmError
	if errors.As(err, &llmErr) {
		return "The menu could not be read. Try a clearer photo."
	}
	var parseErr *ParseFailure
	if errors.As(err, &parseErr) {
		return "The menu could not be read. Try a clearer photo."
	}
	var noFlowers *NoFlowersFound
	if errors.As(err, &noFlowers) {
		return "No flower products were found on this menu."
	}
	return err.Error()
}
