package main

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/anatolykoptev/go_ytchannel/internal/engine"
	"github.com/anatolykoptev/go_ytchannel/internal/engine/sources"
)

// progressReporter draws a per-video bar on stderr when it is a terminal.
type progressReporter struct {
	enabled bool
	bar     *progressbar.ProgressBar
}

func newProgressReporter(quiet bool) *progressReporter {
	fd := os.Stderr.Fd()
	return &progressReporter{
		enabled: !quiet && (isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)),
	}
}

func (r *progressReporter) update(done, total int, v sources.ChannelVideo) {
	if !r.enabled {
		return
	}
	if r.bar == nil {
		r.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("transcripts"),
			progressbar.OptionSetWidth(30),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}))
	}
	r.bar.Describe(engine.TruncateRunes(v.Title, 32, "..."))
	_ = r.bar.Set(done)
}

func (r *progressReporter) finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}
