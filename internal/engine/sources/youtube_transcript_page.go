package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/anatolykoptev/go_ytchannel/internal/engine"
)

// ytInitialPlayerResponseMarker precedes the player response JSON in watch page HTML.
const ytInitialPlayerResponseMarker = "ytInitialPlayerResponse = "

const maxWatchPageBytes = 6 * 1024 * 1024

// WatchPageStrategy scrapes the watch page's ytInitialPlayerResponse for caption tracks.
type WatchPageStrategy struct {
	client *http.Client
	langs  []string
	// base overrides https://www.youtube.com in tests.
	base string
}

func NewWatchPageStrategy(client *http.Client, langs []string) *WatchPageStrategy {
	return &WatchPageStrategy{client: client, langs: langs, base: "https://www.youtube.com"}
}

func (*WatchPageStrategy) Name() string { return "watch_page" }

func (s *WatchPageStrategy) Fetch(ctx context.Context, videoID string) (TranscriptToolResult, error) {
	watchURL := s.base + "/watch?v=" + videoID

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, watchURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.RandomUserAgent())
		req.Header.Set("Accept-Language", engine.AcceptLanguage)
		req.Header.Set("Accept", engine.AcceptHTML)
		return s.client.Do(req)
	})
	if err != nil {
		return TranscriptToolResult{}, fmt.Errorf("watch page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return TranscriptToolResult{}, &engine.PageFetchError{URL: watchURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxWatchPageBytes))
	if err != nil {
		return TranscriptToolResult{}, fmt.Errorf("read watch page: %w", err)
	}

	blob := engine.ScanJSONAfter(body, ytInitialPlayerResponseMarker)
	if blob == nil {
		return TranscriptToolResult{}, fmt.Errorf("%w: ytInitialPlayerResponse not found", engine.ErrMalformedUpstream)
	}
	var player playerResponse
	if err := json.Unmarshal(blob, &player); err != nil {
		return TranscriptToolResult{}, fmt.Errorf("%w: decode ytInitialPlayerResponse: %v", engine.ErrMalformedUpstream, err)
	}
	return transcriptFromTracks(ctx, s.client, player, s.langs)
}

// PlayerStrategy asks the ANDROID Innertube /player endpoint for caption tracks.
// It works from IPs where the watch page is served without player data.
type PlayerStrategy struct {
	client   *http.Client
	langs    []string
	endpoint string
}

func NewPlayerStrategy(client *http.Client, langs []string) *PlayerStrategy {
	return &PlayerStrategy{client: client, langs: langs, endpoint: ytInnertubeURL}
}

func (*PlayerStrategy) Name() string { return "innertube_player" }

func (s *PlayerStrategy) Fetch(ctx context.Context, videoID string) (TranscriptToolResult, error) {
	if !validVideoIDRE.MatchString(videoID) {
		return TranscriptToolResult{}, errors.New("invalid video id")
	}
	reqBody, err := json.Marshal(innertubeReq{
		VideoID: videoID,
		Context: innertubeCtx{
			Client: innertubeClient{
				ClientName:        "ANDROID",
				ClientVersion:     ytAndroidVersion,
				AndroidSdkVersion: 30,
				Hl:                "en",
				Gl:                "US",
			},
		},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	})
	if err != nil {
		return TranscriptToolResult{}, err
	}

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+"?prettyPrint=false", bytes.NewReader(reqBody))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", ytAndroidUA)
		req.Header.Set("X-Youtube-Client-Name", "3")
		req.Header.Set("X-Youtube-Client-Version", ytAndroidVersion)
		return s.client.Do(req)
	})
	if err != nil {
		return TranscriptToolResult{}, fmt.Errorf("android innertube: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return TranscriptToolResult{}, fmt.Errorf("android innertube: HTTP %d", resp.StatusCode)
	}

	var player playerResponse
	if err := json.NewDecoder(resp.Body).Decode(&player); err != nil {
		return TranscriptToolResult{}, fmt.Errorf("%w: decode player: %v", engine.ErrMalformedUpstream, err)
	}
	return transcriptFromTracks(ctx, s.client, player, s.langs)
}
