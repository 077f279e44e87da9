package sources

import (
	"context"
	"fmt"
	"io"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/lrstanley/go-ytdlp"
	"github.com/tidwall/gjson"

	"github.com/anatolykoptev/go_ytchannel/internal/engine"
)

// YtDlpStrategy reads subtitle URLs from yt-dlp's metadata dump and fetches
// the json3 rendition. Requires a yt-dlp binary on PATH.
type YtDlpStrategy struct {
	client *http.Client
	langs  []string
}

func NewYtDlpStrategy(client *http.Client, langs []string) *YtDlpStrategy {
	return &YtDlpStrategy{client: client, langs: langs}
}

func (*YtDlpStrategy) Name() string { return "yt-dlp" }

func (s *YtDlpStrategy) Fetch(ctx context.Context, videoID string) (TranscriptToolResult, error) {
	dl := ytdlp.New().
		DumpSingleJSON().
		NoPlaylist().
		SkipDownload()

	result, err := dl.Run(ctx, engine.WatchURL(videoID))
	if err != nil {
		return TranscriptToolResult{}, fmt.Errorf("yt-dlp metadata: %w", err)
	}
	if !gjson.Valid(result.Stdout) {
		return TranscriptToolResult{}, fmt.Errorf("%w: yt-dlp printed invalid JSON", engine.ErrMalformedUpstream)
	}

	subURL, lang, ok := pickSubtitle(gjson.Parse(result.Stdout), s.langs)
	if !ok {
		return TranscriptToolResult{Success: false, Error: "no captions available"}, nil
	}
	text, err := s.fetchJSON3(ctx, subURL)
	if err != nil {
		return TranscriptToolResult{}, err
	}
	if text == "" {
		return TranscriptToolResult{}, fmt.Errorf("%w: empty json3 subtitles for %s", engine.ErrMalformedUpstream, lang)
	}
	return TranscriptToolResult{Success: true, Transcript: text, Length: len([]rune(text)), Language: lang}, nil
}

// pickSubtitle prefers uploaded subtitles over automatic captions, each in
// language preference order, then any English variant. Only json3 renditions
// count. Exact codes beat regional variants; variants are tried in sorted order.
func pickSubtitle(info gjson.Result, langs []string) (subURL, lang string, ok bool) {
	fields := []string{"subtitles", "automatic_captions"}
	for _, field := range fields {
		tracks := info.Get(field).Map()
		codes := slices.Sorted(maps.Keys(tracks))
		for _, want := range langs {
			if u := json3URL(tracks[want]); u != "" {
				return u, want, true
			}
			for _, code := range codes {
				if strings.HasPrefix(code, want+"-") {
					if u := json3URL(tracks[code]); u != "" {
						return u, code, true
					}
				}
			}
		}
	}
	for _, field := range fields {
		tracks := info.Get(field).Map()
		for _, code := range slices.Sorted(maps.Keys(tracks)) {
			if strings.HasPrefix(code, "en") {
				if u := json3URL(tracks[code]); u != "" {
					return u, code, true
				}
			}
		}
	}
	return "", "", false
}

func json3URL(formats gjson.Result) string {
	for _, f := range formats.Array() {
		if f.Get("ext").String() == "json3" {
			return f.Get("url").String()
		}
	}
	return ""
}

func (s *YtDlpStrategy) fetchJSON3(ctx context.Context, subURL string) (string, error) {
	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, subURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentChrome)
		return s.client.Do(req)
	})
	if err != nil {
		return "", fmt.Errorf("fetch subtitles: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4*maxTimedTextBytes))
	if err != nil {
		return "", err
	}
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("%w: subtitles are not JSON", engine.ErrMalformedUpstream)
	}
	return json3Text(gjson.ParseBytes(body)), nil
}

// json3Text joins the utf8 segments of every event.
func json3Text(doc gjson.Result) string {
	var sb strings.Builder
	for _, ev := range doc.Get("events").Array() {
		for _, seg := range ev.Get("segs").Array() {
			sb.WriteString(seg.Get("utf8").String())
		}
		sb.WriteByte(' ')
	}
	return engine.CollapseSpace(sb.String())
}
