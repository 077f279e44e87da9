package sources

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/anatolykoptev/go_ytchannel/internal/engine"
)

// YouTube player data: caption track types shared by the watch page and
// the ANDROID /player endpoint, plus the timedtext fetcher.

const (
	ytInnertubeURL   = "https://www.youtube.com/youtubei/v1/player"
	ytAndroidVersion = "20.10.38"
	ytAndroidUA      = "com.google.android.youtube/" + ytAndroidVersion + " (Linux; U; Android 11) gzip"

	maxTimedTextBytes = 512 * 1024
)

type innertubeReq struct {
	VideoID        string       `json:"videoId"`
	Context        innertubeCtx `json:"context"`
	RacyCheckOk    bool         `json:"racyCheckOk"`
	ContentCheckOk bool         `json:"contentCheckOk"`
}

type innertubeCtx struct {
	Client innertubeClient `json:"client"`
}

type innertubeClient struct {
	ClientName        string `json:"clientName"`
	ClientVersion     string `json:"clientVersion"`
	AndroidSdkVersion int    `json:"androidSdkVersion,omitempty"`
	Hl                string `json:"hl,omitempty"`
	Gl                string `json:"gl,omitempty"`
}

type playerResponse struct {
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" = auto-generated
}

type timedText struct {
	Lines []struct {
		Text string `xml:",chardata"`
	} `xml:"text"`
}

// playable reports whether the player response describes a watchable video.
// Missing status is treated as playable.
func (p playerResponse) playable() (bool, string) {
	if p.PlayabilityStatus == nil || p.PlayabilityStatus.Status == "" || p.PlayabilityStatus.Status == "OK" {
		return true, ""
	}
	return false, p.PlayabilityStatus.Status + ": " + p.PlayabilityStatus.Reason
}

// tracks returns the caption tracks, nil when the video has none.
func (p playerResponse) tracks() []captionTrack {
	if p.Captions == nil {
		return nil
	}
	return p.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
}

// needsPoToken reports whether a caption track URL requires a PoToken (browser-only).
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// pickBestTrack selects a usable track: manual in a preferred language, then
// auto-generated in a preferred language, then any English, then the first.
// ok is false when every track needs a PoToken.
func pickBestTrack(tracks []captionTrack, langs []string) (captionTrack, bool) {
	usable := make([]captionTrack, 0, len(tracks))
	for _, t := range tracks {
		if !needsPoToken(t.BaseURL) {
			usable = append(usable, t)
		}
	}
	if len(usable) == 0 {
		return captionTrack{}, false
	}
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t, true
			}
		}
	}
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang {
				return t, true
			}
		}
	}
	for _, t := range usable {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t, true
		}
	}
	return usable[0], true
}

// transcriptFromTracks turns a player response into a tool result. A video
// without tracks is a definitive "no transcript"; unusable tracks are an error.
func transcriptFromTracks(ctx context.Context, client *http.Client, p playerResponse, langs []string) (TranscriptToolResult, error) {
	if ok, reason := p.playable(); !ok {
		return TranscriptToolResult{}, fmt.Errorf("video not playable: %s", reason)
	}
	tracks := p.tracks()
	if len(tracks) == 0 {
		return TranscriptToolResult{Success: false, Error: "no captions available"}, nil
	}
	track, ok := pickBestTrack(tracks, langs)
	if !ok {
		return TranscriptToolResult{}, fmt.Errorf("all %d caption tracks require PoToken", len(tracks))
	}
	text, err := fetchTimedText(ctx, client, track.BaseURL)
	if err != nil {
		return TranscriptToolResult{}, err
	}
	if text == "" {
		return TranscriptToolResult{}, fmt.Errorf("%w: empty timedtext for %s", engine.ErrMalformedUpstream, track.LanguageCode)
	}
	return TranscriptToolResult{
		Success:    true,
		Transcript: text,
		Length:     len([]rune(text)),
		Language:   track.LanguageCode,
	}, nil
}

// fetchTimedText fetches and flattens a timedtext XML caption URL.
func fetchTimedText(ctx context.Context, client *http.Client, baseURL string) (string, error) {
	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentChrome)
		return client.Do(req)
	})
	if err != nil {
		return "", fmt.Errorf("fetch timedtext: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTimedTextBytes))
	if err != nil {
		return "", err
	}

	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return "", fmt.Errorf("%w: parse timedtext XML: %v", engine.ErrMalformedUpstream, err)
	}

	var sb strings.Builder
	for _, line := range tt.Lines {
		text := engine.CleanHTML(line.Text)
		if text != "" {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(text)
		}
	}
	return sb.String(), nil
}
