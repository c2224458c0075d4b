package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoCredential means the user has not configured an extraction API key.
// It aborts a run before anything is fetched.
var ErrNoCredential = errors.New("no Gemini API key configured, set one with `placedigest apikey set`")

// ErrRunInProgress means another run for the same user is still active.
var ErrRunInProgress = errors.New("a scan is already running for this user")

// FetchError wraps a mailbox provider failure. It aborts the whole run; no
// records are written.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to reach mailbox: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ExtractionErrorKind classifies a failed extraction attempt.
type ExtractionErrorKind int

const (
	// ExtractInvalidCredential: missing, empty, or backend-rejected API key.
	ExtractInvalidCredential ExtractionErrorKind = iota
	// ExtractEmptyResponse: the backend returned nothing usable.
	ExtractEmptyResponse
	// ExtractMalformedResponse: the backend's output was not valid JSON.
	ExtractMalformedResponse
	// ExtractQuotaExceeded: the backend's quota or rate limit was hit.
	ExtractQuotaExceeded
	// ExtractBackendFailure: any other backend error.
	ExtractBackendFailure
)

// ExtractionError is a per-message extraction failure. The pipeline never
// propagates it; it is recorded as a failure SummaryRecord instead.
type ExtractionError struct {
	Kind ExtractionErrorKind
	Err  error
}

func (e *ExtractionError) Error() string {
	switch e.Kind {
	case ExtractInvalidCredential:
		return "Invalid Gemini API key. Please check your API key in settings."
	case ExtractEmptyResponse:
		return "Empty response from Gemini API"
	case ExtractMalformedResponse:
		return fmt.Sprintf("could not parse Gemini response: %v", e.Err)
	case ExtractQuotaExceeded:
		return "Gemini API quota exceeded. Please try again later."
	default:
		if e.Err != nil {
			return e.Err.Error()
		}
		return "Gemini API call failed"
	}
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// ClassifyBackendError maps a raw backend error onto the extraction error
// taxonomy by inspecting its message text: "API_KEY" means the key was
// rejected, "quota"/"rate limit" means throttling, anything else is a
// generic backend failure with the cause preserved.
func ClassifyBackendError(err error) *ExtractionError {
	msg := err.Error()
	if strings.Contains(msg, "API_KEY") {
		return &ExtractionError{Kind: ExtractInvalidCredential, Err: err}
	}
	if strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit") {
		return &ExtractionError{Kind: ExtractQuotaExceeded, Err: err}
	}
	return &ExtractionError{Kind: ExtractBackendFailure, Err: err}
}
