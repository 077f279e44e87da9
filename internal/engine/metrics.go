package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters for one server instance.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	ChannelRequests     atomic.Int64
	ChannelErrors       atomic.Int64
	VideoRequests       atomic.Int64
	PageFetches         atomic.Int64
	PageFetchErrors     atomic.Int64
	DegradedExtractions atomic.Int64
	TranscriptLookups   atomic.Int64
	TranscriptsFound    atomic.Int64
	StrategyFailures    atomic.Int64
}

var metricKeys = []string{
	"channel_requests", "channel_errors", "video_requests",
	"page_fetches", "page_fetch_errors", "degraded_extractions",
	"transcript_lookups", "transcripts_found", "strategy_failures",
}

// Snapshot returns the current counter values.
func (m *Metrics) Snapshot() map[string]int64 {
	if m == nil {
		return map[string]int64{}
	}
	return map[string]int64{
		"channel_requests":     m.ChannelRequests.Load(),
		"channel_errors":       m.ChannelErrors.Load(),
		"video_requests":       m.VideoRequests.Load(),
		"page_fetches":         m.PageFetches.Load(),
		"page_fetch_errors":    m.PageFetchErrors.Load(),
		"degraded_extractions": m.DegradedExtractions.Load(),
		"transcript_lookups":   m.TranscriptLookups.Load(),
		"transcripts_found":    m.TranscriptsFound.Load(),
		"strategy_failures":    m.StrategyFailures.Load(),
	}
}

// Format returns metrics as a simple text format for the HTTP endpoint.
func (m *Metrics) Format() string {
	s := m.Snapshot()
	var sb strings.Builder
	for _, k := range metricKeys {
		fmt.Fprintf(&sb, "%s %d\n", k, s[k])
	}
	return sb.String()
}

// Incrementors; all are no-ops on a nil receiver.
func (m *Metrics) IncrChannelRequests() {
	if m != nil {
		m.ChannelRequests.Add(1)
	}
}

func (m *Metrics) IncrChannelErrors() {
	if m != nil {
		m.ChannelErrors.Add(1)
	}
}

func (m *Metrics) IncrVideoRequests() {
	if m != nil {
		m.VideoRequests.Add(1)
	}
}

func (m *Metrics) IncrPageFetches() {
	if m != nil {
		m.PageFetches.Add(1)
	}
}

func (m *Metrics) IncrPageFetchErrors() {
	if m != nil {
		m.PageFetchErrors.Add(1)
	}
}

func (m *Metrics) IncrDegradedExtractions() {
	if m != nil {
		m.DegradedExtractions.Add(1)
	}
}

func (m *Metrics) IncrTranscriptLookups() {
	if m != nil {
		m.TranscriptLookups.Add(1)
	}
}

func (m *Metrics) IncrTranscriptsFound() {
	if m != nil {
		m.TranscriptsFound.Add(1)
	}
}

func (m *Metrics) IncrStrategyFailures() {
	if m != nil {
		m.StrategyFailures.Add(1)
	}
}

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, threshold time.Duration, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > threshold {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
