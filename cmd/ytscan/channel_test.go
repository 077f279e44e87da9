package main

import (
	"testing"
	"time"

	"github.com/anatolykoptev/go_ytchannel/internal/engine"
	"github.com/anatolykoptev/go_ytchannel/internal/engine/sources"
)

func TestChannelSummary(t *testing.T) {
	long := "never gonna give you up"
	short := "hi"
	r := &sources.ChannelReport{
		Channel:    sources.ChannelInfo{Name: "Example"},
		Stats:      sources.ChannelStats{VideosFound: 3, VideosProcessed: 3, TranscriptsExtracted: 2},
		Extraction: sources.ExtractionInfo{Strategy: "anchors", Degraded: true},
		Videos: []sources.ChannelVideo{
			{Transcript: &long, HasTranscript: true},
			{},
			{Transcript: &short, HasTranscript: true},
		},
	}
	got := channelSummary(r, 1500*time.Millisecond)
	want := "Example: 2/3 transcripts, 25 chars, via anchors (degraded) in 1.5s"
	if got != want {
		t.Errorf("channelSummary() = %q, want %q", got, want)
	}
}

func TestApplyFlags(t *testing.T) {
	if err := channelCmd.Flags().Set("max-videos", "50"); err != nil {
		t.Fatal(err)
	}
	if err := channelCmd.Flags().Set("delay", "0s"); err != nil {
		t.Fatal(err)
	}
	c := applyFlags(channelCmd, engine.Config{VideoDelay: time.Second})
	if c.MaxChannelVideos != 20 {
		t.Errorf("MaxChannelVideos = %d, want clamp to 20", c.MaxChannelVideos)
	}
	if c.VideoDelay != 0 {
		t.Errorf("VideoDelay = %v, want 0", c.VideoDelay)
	}
}

func TestLoadConfigStealth(t *testing.T) {
	t.Setenv("STEALTH_ENABLED", "true")
	t.Setenv("WEBSHARE_API_KEY", "")
	if c := loadConfig(videoCmd); c.BrowserClient == nil {
		t.Error("loadConfig() ignored STEALTH_ENABLED")
	}

	t.Setenv("STEALTH_ENABLED", "false")
	if c := loadConfig(videoCmd); c.BrowserClient != nil {
		t.Error("loadConfig() built a browser client with stealth disabled")
	}
}
