package toolutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_ytchannel/internal/engine"
)

func TestToolError(t *testing.T) {
	assert.NoError(t, ToolError(nil))

	err := ToolError(fmt.Errorf("%w: %q", engine.ErrInvalidChannelURL, "x"))
	assert.JSONEq(t, `{"error":"Invalid YouTube channel URL"}`, err.Error())
	assert.ErrorIs(t, err, engine.ErrInvalidChannelURL)

	fetchErr := &engine.PageFetchError{URL: "https://www.youtube.com/@x/videos", StatusCode: 404}
	err = ToolError(fetchErr)
	var resp engine.ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(err.Error()), &resp))
	assert.Equal(t, "Failed to process channel", resp.Error)
	assert.Contains(t, resp.Details, "HTTP 404")

	var pfe *engine.PageFetchError
	assert.True(t, errors.As(err, &pfe))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, map[string]any{"url": "https://www.youtube.com/watch?v=a&b=c"}))
	assert.Equal(t, "{\n  \"url\": \"https://www.youtube.com/watch?v=a&b=c\"\n}\n", buf.String())
}

func TestIsUserError(t *testing.T) {
	assert.True(t, IsUserError(engine.ErrInvalidChannelURL))
	assert.True(t, IsUserError(fmt.Errorf("wrap: %w", engine.ErrInvalidVideoURL)))
	assert.False(t, IsUserError(&engine.PageFetchError{URL: "u", StatusCode: 500}))
	assert.False(t, IsUserError(nil))
}
