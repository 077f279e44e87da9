package engine

import (
	"net/http"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/env"
)

// MaxChannelVideos is the hard cap on videos returned for one channel.
const MaxChannelVideos = 20

// Config holds all engine configuration, injected from main.
type Config struct {
	MCPPort             string
	FetchTimeout        time.Duration
	PageFetchRetries    int
	MaxChannelVideos    int
	VideoDelay          time.Duration
	TranscriptTimeout   time.Duration
	TranscriptScript    string
	TranscriptInterps   []string
	TranscriptLangs     []string
	TranscriptWatchPage bool // in-process watch page scrape after the interpreters
	TranscriptYtDlp     bool // yt-dlp subtitle lookup as the last strategy
	TranscriptMaxChars  int  // 0 = unlimited
	StealthEnabled      bool
	WebshareAPIKey      string
	HTTPClient          *http.Client
	BrowserClient       *BrowserClient // nil = plain net/http page fetches
}

// LoadConfig reads configuration from the environment.
func LoadConfig() Config {
	c := Config{
		MCPPort:             env.Str("MCP_PORT", "8891"),
		FetchTimeout:        env.Duration("FETCH_TIMEOUT", 15*time.Second),
		PageFetchRetries:    env.Int("PAGE_FETCH_RETRIES", 2),
		MaxChannelVideos:    env.Int("MAX_CHANNEL_VIDEOS", MaxChannelVideos),
		VideoDelay:          env.Duration("VIDEO_DELAY", 100*time.Millisecond),
		TranscriptTimeout:   env.Duration("TRANSCRIPT_TIMEOUT", 10*time.Second),
		TranscriptScript:    env.Str("TRANSCRIPT_SCRIPT", "get_transcript.py"),
		TranscriptInterps:   env.List("TRANSCRIPT_INTERPRETERS", "python3,python,/usr/bin/python3"),
		TranscriptLangs:     env.List("TRANSCRIPT_LANGS", "en"),
		TranscriptWatchPage: envFlag("TRANSCRIPT_WATCHPAGE"),
		TranscriptYtDlp:     envFlag("TRANSCRIPT_YTDLP"),
		TranscriptMaxChars:  env.Int("TRANSCRIPT_MAX_CHARS", 0),
		StealthEnabled:      envFlag("STEALTH_ENABLED"),
		WebshareAPIKey:      env.Str("WEBSHARE_API_KEY", ""),
	}
	c.HTTPClient = &http.Client{
		Timeout: c.FetchTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     60 * time.Second,
		},
	}
	return c.Normalize()
}

// Normalize clamps limits and fills zero values with defaults.
func (c Config) Normalize() Config {
	if c.MaxChannelVideos <= 0 || c.MaxChannelVideos > MaxChannelVideos {
		c.MaxChannelVideos = MaxChannelVideos
	}
	if c.PageFetchRetries < 0 {
		c.PageFetchRetries = 0
	}
	if c.VideoDelay < 0 {
		c.VideoDelay = 0
	}
	if c.TranscriptTimeout <= 0 {
		c.TranscriptTimeout = 10 * time.Second
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 15 * time.Second
	}
	if c.TranscriptScript == "" {
		c.TranscriptScript = "get_transcript.py"
	}
	if len(c.TranscriptLangs) == 0 {
		c.TranscriptLangs = []string{"en"}
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.FetchTimeout}
	}
	return c
}

func envFlag(key string) bool {
	switch strings.ToLower(strings.TrimSpace(env.Str(key, ""))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
