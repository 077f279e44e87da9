// Package toolutil provides helpers shared by the MCP tools and the ytscan CLI.
package toolutil

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/anatolykoptev/go_ytchannel/internal/engine"
)

// ErrorJSON renders err as the caller-facing error object.
func ErrorJSON(err error) []byte {
	data, mErr := json.Marshal(engine.DescribeError(err))
	if mErr != nil {
		return []byte(`{"error":"Failed to process channel"}`)
	}
	return data
}

// ToolError wraps err so that its message is the error object JSON.
// errors.Is/As still reach the original error.
func ToolError(err error) error {
	if err == nil {
		return nil
	}
	return &toolError{msg: string(ErrorJSON(err)), err: err}
}

type toolError struct {
	msg string
	err error
}

func (e *toolError) Error() string { return e.msg }
func (e *toolError) Unwrap() error { return e.err }

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// IsUserError reports whether err was caused by bad input rather than upstream failure.
func IsUserError(err error) bool {
	return errors.Is(err, engine.ErrInvalidChannelURL) || errors.Is(err, engine.ErrInvalidVideoURL)
}
