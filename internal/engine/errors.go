package engine

import (
	"errors"
	"fmt"
	"net/http"
)

// Terminal errors surface to the caller; the rest are logged and degraded locally.
var (
	ErrInvalidChannelURL     = errors.New("invalid YouTube channel URL")
	ErrInvalidVideoURL       = errors.New("invalid YouTube video URL")
	ErrPageFetch             = errors.New("channel page fetch failed")
	ErrMalformedUpstream     = errors.New("malformed upstream data")
	ErrTranscriptUnavailable = errors.New("transcript unavailable")
	ErrVideoFailed           = errors.New("video processing failed")
)

// PageFetchError describes a failed channel page request.
// StatusCode is 0 when no HTTP response was received.
type PageFetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *PageFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *PageFetchError) Unwrap() error { return e.Err }

func (e *PageFetchError) Is(target error) bool { return target == ErrPageFetch }

// ErrorResponse is the error object returned to callers.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// DescribeError maps a pipeline error to the caller-facing error object.
func DescribeError(err error) ErrorResponse {
	switch {
	case err == nil:
		return ErrorResponse{}
	case errors.Is(err, ErrInvalidChannelURL):
		return ErrorResponse{Error: "Invalid YouTube channel URL"}
	case errors.Is(err, ErrInvalidVideoURL):
		return ErrorResponse{Error: "Invalid YouTube video URL"}
	case errors.Is(err, ErrVideoFailed):
		return ErrorResponse{Error: "Failed to process video", Details: err.Error()}
	default:
		return ErrorResponse{Error: "Failed to process channel", Details: err.Error()}
	}
}

// StatusCode maps a pipeline error to the HTTP status a front end should use.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidChannelURL), errors.Is(err, ErrInvalidVideoURL):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
