package sources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/anatolykoptev/go_ytchannel/internal/engine"
)

// DefaultVideoDelay spaces consecutive transcript acquisitions within a run.
const DefaultVideoDelay = 100 * time.Millisecond

// slowPageFetch is the warn threshold for one channel page fetch, retries included.
const slowPageFetch = 10 * time.Second

// ChannelPageFetcher retrieves a channel's videos listing.
type ChannelPageFetcher interface {
	FetchChannelPage(ctx context.Context, channelURL string) (ChannelPage, error)
}

// Transcriber yields the transcript outcome for one video. It never fails.
type Transcriber interface {
	Acquire(ctx context.Context, videoID string) TranscriptResult
}

// Pacing bounds how often the upstream site is asked for transcripts.
type Pacing struct {
	// Delay is the pause between the end of one acquisition and the start
	// of the next. Zero disables pacing.
	Delay time.Duration
}

// pause waits Delay or until ctx is done.
func (p Pacing) pause(ctx context.Context) error {
	if p.Delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(p.Delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ProgressFunc is called after each video is processed.
type ProgressFunc func(done, total int, video ChannelVideo)

// ChannelPipeline runs resolve → fetch → extract → transcripts → aggregate.
// Runs share no state besides Metrics.
type ChannelPipeline struct {
	Fetcher     ChannelPageFetcher
	Extractor   *VideoExtractor
	Transcripts Transcriber
	MaxVideos   int
	Pacing      Pacing
	Retry       engine.RetryConfig
	Progress    ProgressFunc
	Logger      *slog.Logger
	Metrics     *engine.Metrics
}

// NewChannelPipeline wires the production components from cfg.
func NewChannelPipeline(cfg engine.Config, logger *slog.Logger, metrics *engine.Metrics) *ChannelPipeline {
	cfg = cfg.Normalize()
	if logger == nil {
		logger = slog.Default()
	}
	acq := NewTranscriptAcquirer(TranscriptStrategies(cfg), cfg.TranscriptTimeout,
		WithMaxChars(cfg.TranscriptMaxChars),
		WithAcquirerMetrics(metrics),
		WithAcquirerLogger(logger),
	)
	return &ChannelPipeline{
		Fetcher:     NewPageFetcher(cfg.HTTPClient, cfg.BrowserClient, logger),
		Extractor:   NewVideoExtractor(logger),
		Transcripts: acq,
		MaxVideos:   cfg.MaxChannelVideos,
		Pacing:      Pacing{Delay: cfg.VideoDelay},
		Retry:       engine.PageFetchRetryConfig(cfg.PageFetchRetries),
		Logger:      logger,
		Metrics:     metrics,
	}
}

func (p *ChannelPipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

// Run produces the report for one channel URL. Only an unrecognized URL,
// a failed page fetch or cancellation abort the run.
func (p *ChannelPipeline) Run(ctx context.Context, rawURL string) (*ChannelReport, error) {
	p.Metrics.IncrChannelRequests()
	start := time.Now()

	report, err := p.run(ctx, rawURL)
	if err != nil {
		p.Metrics.IncrChannelErrors()
		p.logger().Warn("youtube: channel run failed",
			slog.String("url", rawURL), slog.Any("error", err))
		return nil, err
	}

	p.logger().Info("youtube: channel run done",
		slog.String("channel", report.Channel.Name),
		slog.Int("videos", report.Stats.VideosProcessed),
		slog.Int("transcripts", report.Stats.TranscriptsExtracted),
		slog.Duration("elapsed", time.Since(start)))
	return report, nil
}

func (p *ChannelPipeline) run(ctx context.Context, rawURL string) (*ChannelReport, error) {
	logger := p.logger()

	ref, err := ResolveChannel(rawURL)
	if err != nil {
		return nil, err
	}
	channelURL := CanonicalChannelURL(ref, strings.TrimSpace(rawURL))
	logger.Info("youtube: channel resolved",
		slog.String("kind", string(ref.Kind)), slog.String("id", ref.Identifier), slog.String("url", channelURL))

	page, err := p.fetch(ctx, channelURL)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	listing := p.Extractor.Extract(page, p.MaxVideos)
	if listing.Degraded {
		p.Metrics.IncrDegradedExtractions()
	}

	videos, err := p.transcribe(ctx, listing.Videos)
	if err != nil {
		return nil, err
	}
	return aggregate(listing, channelURL, videos), nil
}

// fetch applies the retry policy around the page fetcher.
func (p *ChannelPipeline) fetch(ctx context.Context, channelURL string) (ChannelPage, error) {
	var page ChannelPage
	err := engine.TrackOperation(ctx, "youtube.channel_page", slowPageFetch, func(ctx context.Context) error {
		var err error
		page, err = engine.RetryDo(ctx, p.Retry, func() (ChannelPage, error) {
			p.Metrics.IncrPageFetches()
			pg, err := p.Fetcher.FetchChannelPage(ctx, channelURL)
			if err != nil {
				p.Metrics.IncrPageFetchErrors()
			}
			return pg, err
		})
		return err
	})
	if err == nil {
		return page, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ChannelPage{}, ctxErr
	}
	if !errors.Is(err, engine.ErrPageFetch) {
		err = &engine.PageFetchError{URL: channelURL, Err: err}
	}
	return ChannelPage{}, err
}

// transcribe acquires transcripts serially with a pause between videos.
func (p *ChannelPipeline) transcribe(ctx context.Context, records []VideoRecord) ([]ChannelVideo, error) {
	videos := make([]ChannelVideo, 0, len(records))
	for i, rec := range records {
		if i > 0 {
			if err := p.Pacing.pause(ctx); err != nil {
				return nil, fmt.Errorf("pacing: %w", err)
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		tr := p.Transcripts.Acquire(ctx, rec.VideoID)
		v := ChannelVideo{
			VideoRecord:         rec,
			URL:                 engine.WatchURL(rec.VideoID),
			HasTranscript:       tr.Has(),
			Transcript:          tr.Transcript,
			TranscriptLanguage:  tr.Language,
			AttemptedStrategies: nonNil(tr.AttemptedStrategies),
		}
		videos = append(videos, v)
		if p.Progress != nil {
			p.Progress(i+1, len(records), v)
		}
	}
	return videos, nil
}

func aggregate(listing ChannelListing, channelURL string, videos []ChannelVideo) *ChannelReport {
	found := 0
	for _, v := range videos {
		if v.HasTranscript {
			found++
		}
	}
	return &ChannelReport{
		Success: true,
		Channel: ChannelInfo{Name: listing.Name, URL: channelURL},
		Stats: ChannelStats{
			VideosFound:          len(listing.Videos),
			VideosProcessed:      len(videos),
			TranscriptsExtracted: found,
		},
		Extraction: ExtractionInfo{Strategy: listing.Strategy, Degraded: listing.Degraded},
		Videos:     videos,
	}
}

// VideoTranscript looks up the transcript of a single video URL.
func (p *ChannelPipeline) VideoTranscript(ctx context.Context, rawURL string) (*VideoReport, error) {
	p.Metrics.IncrVideoRequests()

	rawURL = strings.TrimSpace(rawURL)
	id, ok := ExtractVideoID(rawURL)
	if !ok {
		return nil, fmt.Errorf("%w: %q", engine.ErrInvalidVideoURL, rawURL)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", engine.ErrVideoFailed, err)
	}

	tr := p.Transcripts.Acquire(ctx, id)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", engine.ErrVideoFailed, err)
	}
	rep := &VideoReport{
		Success:             true,
		VideoID:             id,
		VideoURL:            rawURL,
		HasTranscript:       tr.Has(),
		Transcript:          tr.Transcript,
		Language:            tr.Language,
		AttemptedStrategies: nonNil(tr.AttemptedStrategies),
	}
	if tr.Has() {
		rep.TranscriptLength = utf8.RuneCountInString(*tr.Transcript)
	}
	return rep, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
