package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"time"

	"github.com/anatolykoptev/go_ytchannel/internal/engine"
)

// commandWaitDelay bounds how long output pipes may outlive a killed process.
const commandWaitDelay = 2 * time.Second

// CommandStrategy runs an external program that prints a TranscriptToolResult
// on stdout. The video id is appended after Args.
type CommandStrategy struct {
	Label       string
	Interpreter string
	Args        []string
	Dir         string
}

// NewScriptStrategy runs `<interpreter> <script> <videoID>`.
func NewScriptStrategy(interpreter, script string) CommandStrategy {
	return CommandStrategy{Interpreter: interpreter, Args: []string{script}}
}

func (s CommandStrategy) Name() string {
	if s.Label != "" {
		return s.Label
	}
	return s.Interpreter
}

func (s CommandStrategy) Fetch(ctx context.Context, videoID string) (TranscriptToolResult, error) {
	if !validVideoIDRE.MatchString(videoID) {
		return TranscriptToolResult{}, fmt.Errorf("invalid video id %q", videoID)
	}

	cmd := exec.CommandContext(ctx, s.Interpreter, append(slices.Clone(s.Args), videoID)...)
	cmd.Dir = s.Dir
	cmd.WaitDelay = commandWaitDelay
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return TranscriptToolResult{}, fmt.Errorf("%s: %w", s.Name(), ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return TranscriptToolResult{}, fmt.Errorf("%s: exit %d: %s",
				s.Name(), exitErr.ExitCode(), engine.TruncateRunes(engine.CollapseSpace(stderr.String()), 300, "..."))
		}
		return TranscriptToolResult{}, fmt.Errorf("%s: %w", s.Name(), err)
	}
	return ParseToolOutput(stdout.Bytes())
}

// ParseToolOutput decodes a transcript tool's stdout. Anything other than a
// single JSON object is ErrMalformedUpstream.
func ParseToolOutput(b []byte) (TranscriptToolResult, error) {
	var out TranscriptToolResult
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		return out, fmt.Errorf("%w: transcript tool printed %q", engine.ErrMalformedUpstream, engine.TruncateRunes(string(b), 120, "..."))
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return TranscriptToolResult{}, fmt.Errorf("%w: decode transcript tool output: %v", engine.ErrMalformedUpstream, err)
	}
	return out, nil
}
