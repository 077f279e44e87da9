package main

import (
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_ytchannel/internal/engine"
	"github.com/anatolykoptev/go_ytchannel/internal/engine/sources"
	"github.com/anatolykoptev/go_ytchannel/internal/toolutil"
)

var channelCmd = &cobra.Command{
	Use:   "channel <channel URL>",
	Short: "Fetch transcripts for a channel's popular videos",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := newPipeline()
		progress := newProgressReporter(quiet)
		p.Progress = progress.update

		start := time.Now()
		report, err := p.Run(cmd.Context(), args[0])
		progress.finish()
		if err != nil {
			return err
		}
		if err := toolutil.WriteJSON(cmd.OutOrStdout(), report); err != nil {
			return err
		}
		if !quiet {
			fmt.Fprintln(os.Stderr, channelSummary(report, time.Since(start)))
		}
		return nil
	},
}

func channelSummary(r *sources.ChannelReport, elapsed time.Duration) string {
	chars := 0
	for _, v := range r.Videos {
		if v.Transcript != nil {
			chars += utf8.RuneCountInString(*v.Transcript)
		}
	}
	strategy := r.Extraction.Strategy
	if r.Extraction.Degraded {
		strategy += " (degraded)"
	}
	return fmt.Sprintf("%s: %d/%d transcripts, %s chars, via %s in %s",
		r.Channel.Name,
		r.Stats.TranscriptsExtracted, r.Stats.VideosProcessed,
		humanize.Comma(int64(chars)), strategy,
		elapsed.Round(time.Millisecond))
}

func init() {
	channelCmd.Flags().Int("max-videos", engine.MaxChannelVideos, "Maximum number of videos to process (at most 20)")
	channelCmd.Flags().Duration("delay", sources.DefaultVideoDelay, "Pause between transcript lookups")
}
