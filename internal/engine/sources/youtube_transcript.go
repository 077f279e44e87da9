package sources

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anatolykoptev/go_ytchannel/internal/engine"
)

// Transcript acquisition runs an ordered chain of strategies.
// A strategy error (raise, timeout, unparsable output) moves on to the next one;
// any returned result, including "no captions", ends the chain.

// DefaultTranscriptTimeout bounds a single strategy attempt.
const DefaultTranscriptTimeout = 10 * time.Second

// TranscriptStrategy is one way of invoking the transcript capability.
type TranscriptStrategy interface {
	Name() string
	Fetch(ctx context.Context, videoID string) (TranscriptToolResult, error)
}

// TranscriptAcquirer runs strategies in order with a per-attempt timeout.
type TranscriptAcquirer struct {
	strategies []TranscriptStrategy
	timeout    time.Duration
	maxChars   int
	metrics    *engine.Metrics
	logger     *slog.Logger
}

// AcquirerOption configures a TranscriptAcquirer.
type AcquirerOption func(*TranscriptAcquirer)

// WithMaxChars truncates transcripts to n runes; 0 keeps them whole.
func WithMaxChars(n int) AcquirerOption {
	return func(a *TranscriptAcquirer) { a.maxChars = n }
}

func WithAcquirerMetrics(m *engine.Metrics) AcquirerOption {
	return func(a *TranscriptAcquirer) { a.metrics = m }
}

func WithAcquirerLogger(l *slog.Logger) AcquirerOption {
	return func(a *TranscriptAcquirer) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewTranscriptAcquirer builds an acquirer over the given strategies.
func NewTranscriptAcquirer(strategies []TranscriptStrategy, timeout time.Duration, opts ...AcquirerOption) *TranscriptAcquirer {
	if timeout <= 0 {
		timeout = DefaultTranscriptTimeout
	}
	a := &TranscriptAcquirer{
		strategies: strategies,
		timeout:    timeout,
		logger:     slog.Default(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Strategies returns the configured chain in order.
func (a *TranscriptAcquirer) Strategies() []TranscriptStrategy {
	return a.strategies
}

// Acquire returns the transcript outcome for one video. It never fails:
// exhausted or missing strategies yield a result without a transcript.
func (a *TranscriptAcquirer) Acquire(ctx context.Context, videoID string) TranscriptResult {
	a.metrics.IncrTranscriptLookups()
	res := TranscriptResult{VideoID: videoID, AttemptedStrategies: []string{}}

	for _, s := range a.strategies {
		if ctx.Err() != nil {
			a.logger.Debug("transcript: canceled", slog.String("id", videoID), slog.Any("error", ctx.Err()))
			return res
		}
		res.AttemptedStrategies = append(res.AttemptedStrategies, s.Name())

		out, err := a.attempt(ctx, s, videoID)
		if err != nil {
			a.metrics.IncrStrategyFailures()
			a.logger.Warn("transcript: strategy failed",
				slog.String("id", videoID), slog.String("strategy", s.Name()), slog.Any("error", err))
			continue
		}

		if out.Success && strings.TrimSpace(out.Transcript) != "" {
			text := engine.TruncateRunes(out.Transcript, a.maxChars, "...")
			res.Transcript = &text
			res.Language = out.Language
			a.metrics.IncrTranscriptsFound()
			a.logger.Info("transcript: found",
				slog.String("id", videoID), slog.String("strategy", s.Name()),
				slog.String("language", out.Language), slog.Int("chars", len(out.Transcript)))
		} else {
			a.logger.Info("transcript: none",
				slog.String("id", videoID), slog.String("strategy", s.Name()), slog.String("reason", out.Error))
		}
		return res
	}

	a.logger.Warn("transcript: no strategy succeeded",
		slog.String("id", videoID), slog.Any("error", engine.ErrTranscriptUnavailable),
		slog.Int("strategies", len(a.strategies)))
	return res
}

// attempt runs one strategy under its own deadline. The wait is bounded even
// if the strategy ignores its context; a panic counts as a failure.
func (a *TranscriptAcquirer) attempt(ctx context.Context, s TranscriptStrategy, videoID string) (TranscriptToolResult, error) {
	sctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	type result struct {
		out TranscriptToolResult
		err error
	}
	ch := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- result{err: fmt.Errorf("strategy panic: %v", r)}
			}
		}()
		out, err := s.Fetch(sctx, videoID)
		ch <- result{out, err}
	}()

	select {
	case <-sctx.Done():
		return TranscriptToolResult{}, fmt.Errorf("%s: %w", s.Name(), sctx.Err())
	case r := <-ch:
		return r.out, r.err
	}
}

// TranscriptStrategies builds the configured chain: one command strategy per
// interpreter, then the optional in-process and yt-dlp strategies.
func TranscriptStrategies(cfg engine.Config) []TranscriptStrategy {
	var out []TranscriptStrategy
	for _, interp := range cfg.TranscriptInterps {
		if interp = strings.TrimSpace(interp); interp != "" {
			out = append(out, NewScriptStrategy(interp, cfg.TranscriptScript))
		}
	}
	if cfg.TranscriptWatchPage {
		out = append(out,
			NewWatchPageStrategy(cfg.HTTPClient, cfg.TranscriptLangs),
			NewPlayerStrategy(cfg.HTTPClient, cfg.TranscriptLangs),
		)
	}
	if cfg.TranscriptYtDlp {
		out = append(out, NewYtDlpStrategy(cfg.HTTPClient, cfg.TranscriptLangs))
	}
	return out
}
