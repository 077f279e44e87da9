package sources

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_ytchannel/internal/engine"
)

type fakeStrategy struct {
	name        string
	out         TranscriptToolResult
	err         error
	delay       time.Duration
	ignoreCtx   bool
	shouldPanic bool
	calls       atomic.Int32
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Fetch(ctx context.Context, _ string) (TranscriptToolResult, error) {
	f.calls.Add(1)
	if f.shouldPanic {
		panic("tool crashed")
	}
	if f.delay > 0 {
		if f.ignoreCtx {
			time.Sleep(f.delay)
		} else {
			select {
			case <-time.After(f.delay):
			case <-ctx.Done():
				return TranscriptToolResult{}, ctx.Err()
			}
		}
	}
	return f.out, f.err
}

func found(text, lang string) TranscriptToolResult {
	return TranscriptToolResult{Success: true, Transcript: text, Length: len(text), Language: lang}
}

func strategies(fs ...*fakeStrategy) []TranscriptStrategy {
	out := make([]TranscriptStrategy, len(fs))
	for i, f := range fs {
		out[i] = f
	}
	return out
}

func TestAcquireTimeoutThenAuthoritativeNone(t *testing.T) {
	s1 := &fakeStrategy{name: "python3", delay: time.Second}
	s2 := &fakeStrategy{name: "python", out: TranscriptToolResult{Success: false, Error: "no captions"}}
	s3 := &fakeStrategy{name: "/usr/bin/python3", out: found("never", "en")}

	res := NewTranscriptAcquirer(strategies(s1, s2, s3), 50*time.Millisecond).Acquire(context.Background(), "aaaaaaaaaaa")

	assert.False(t, res.Has())
	assert.Nil(t, res.Transcript)
	assert.Equal(t, []string{"python3", "python"}, res.AttemptedStrategies)
	assert.EqualValues(t, 0, s3.calls.Load())
}

func TestAcquireTimeoutIgnoredContext(t *testing.T) {
	s1 := &fakeStrategy{name: "stuck", delay: 500 * time.Millisecond, ignoreCtx: true}
	s2 := &fakeStrategy{name: "ok", out: found("hello world", "en")}

	start := time.Now()
	res := NewTranscriptAcquirer(strategies(s1, s2), 30*time.Millisecond).Acquire(context.Background(), "aaaaaaaaaaa")

	assert.Less(t, time.Since(start), 400*time.Millisecond)
	require.True(t, res.Has())
	assert.Equal(t, "hello world", *res.Transcript)
}

func TestAcquireFirstSuccessWins(t *testing.T) {
	s1 := &fakeStrategy{name: "a", err: errors.New("exec: not found")}
	s2 := &fakeStrategy{name: "b", out: found("transcript text", "en")}
	s3 := &fakeStrategy{name: "c", out: found("other", "de")}
	m := &engine.Metrics{}

	res := NewTranscriptAcquirer(strategies(s1, s2, s3), time.Second, WithAcquirerMetrics(m)).
		Acquire(context.Background(), "aaaaaaaaaaa")

	require.True(t, res.Has())
	assert.Equal(t, "transcript text", *res.Transcript)
	assert.Equal(t, "en", res.Language)
	assert.Equal(t, []string{"a", "b"}, res.AttemptedStrategies)
	assert.EqualValues(t, 0, s3.calls.Load())

	snap := m.Snapshot()
	assert.EqualValues(t, 1, snap["transcript_lookups"])
	assert.EqualValues(t, 1, snap["transcripts_found"])
	assert.EqualValues(t, 1, snap["strategy_failures"])
}

func TestAcquireEmptyTranscriptIsNone(t *testing.T) {
	s1 := &fakeStrategy{name: "a", out: TranscriptToolResult{Success: true, Transcript: "   "}}
	s2 := &fakeStrategy{name: "b", out: found("x", "en")}

	res := NewTranscriptAcquirer(strategies(s1, s2), time.Second).Acquire(context.Background(), "aaaaaaaaaaa")

	assert.False(t, res.Has())
	assert.Equal(t, []string{"a"}, res.AttemptedStrategies)
}

func TestAcquireAllFail(t *testing.T) {
	s1 := &fakeStrategy{name: "a", err: errors.New("boom")}
	s2 := &fakeStrategy{name: "b", shouldPanic: true}
	s3 := &fakeStrategy{name: "c", err: engine.ErrMalformedUpstream}

	res := NewTranscriptAcquirer(strategies(s1, s2, s3), time.Second).Acquire(context.Background(), "aaaaaaaaaaa")

	assert.False(t, res.Has())
	assert.Equal(t, []string{"a", "b", "c"}, res.AttemptedStrategies)
	assert.Equal(t, "aaaaaaaaaaa", res.VideoID)
}

func TestAcquireNoStrategies(t *testing.T) {
	res := NewTranscriptAcquirer(nil, 0).Acquire(context.Background(), "aaaaaaaaaaa")
	assert.False(t, res.Has())
	assert.NotNil(t, res.AttemptedStrategies)
	assert.Empty(t, res.AttemptedStrategies)
}

func TestAcquireCanceledParent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s1 := &fakeStrategy{name: "a", out: found("x", "en")}

	res := NewTranscriptAcquirer(strategies(s1), time.Second).Acquire(ctx, "aaaaaaaaaaa")

	assert.False(t, res.Has())
	assert.Empty(t, res.AttemptedStrategies)
	assert.EqualValues(t, 0, s1.calls.Load())
}

func TestAcquireMaxChars(t *testing.T) {
	long := strings.Repeat("word ", 200)
	s1 := &fakeStrategy{name: "a", out: found(long, "en")}

	res := NewTranscriptAcquirer(strategies(s1), time.Second, WithMaxChars(50)).Acquire(context.Background(), "aaaaaaaaaaa")

	require.True(t, res.Has())
	assert.Less(t, len([]rune(*res.Transcript)), len(long))
	assert.True(t, strings.HasPrefix(*res.Transcript, "word word"))
}

func TestTranscriptStrategiesFromConfig(t *testing.T) {
	cfg := engine.Config{
		TranscriptInterps: []string{"python3", " ", "/usr/bin/python3"},
		TranscriptScript:  "/opt/get_transcript.py",
	}.Normalize()
	names := func(ss []TranscriptStrategy) []string {
		var out []string
		for _, s := range ss {
			out = append(out, s.Name())
		}
		return out
	}

	assert.Equal(t, []string{"python3", "/usr/bin/python3"}, names(TranscriptStrategies(cfg)))

	cfg.TranscriptWatchPage = true
	cfg.TranscriptYtDlp = true
	assert.Equal(t, []string{"python3", "/usr/bin/python3", "watch_page", "innertube_player", "yt-dlp"},
		names(TranscriptStrategies(cfg)))

	cmd, ok := TranscriptStrategies(cfg)[0].(CommandStrategy)
	require.True(t, ok)
	assert.Equal(t, []string{"/opt/get_transcript.py"}, cmd.Args)
}
