package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_ytchannel/internal/engine"
	"github.com/anatolykoptev/go_ytchannel/internal/engine/sources"
)

var (
	cfg     engine.Config
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "ytscan",
	Short: "Fetch transcripts for a YouTube channel's popular videos",
	Long: `ytscan lists up to 20 popular videos of a YouTube channel and fetches
each video's transcript through the configured strategy chain.

Configuration is read from the environment and an optional .env file
(TRANSCRIPT_INTERPRETERS, TRANSCRIPT_SCRIPT, TRANSCRIPT_WATCHPAGE, ...).`,
	Example: `  ytscan channel https://www.youtube.com/@veritasium
  ytscan channel https://www.youtube.com/channel/UCHnyfMqiRRG1u-2MsSQLbXA --max-videos 5
  ytscan video https://youtu.be/dQw4w9WgXcQ
  ytscan doctor`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		if err := godotenv.Load(".env"); err != nil {
			slog.Debug("no .env file loaded", slog.Any("error", err))
		}
		cfg = loadConfig(cmd)
		return nil
	},
}

// loadConfig reads the environment, applies flags and attaches the stealth
// client when STEALTH_ENABLED is set.
func loadConfig(cmd *cobra.Command) engine.Config {
	return applyFlags(cmd, engine.LoadConfig()).WithStealth()
}

func applyFlags(cmd *cobra.Command, c engine.Config) engine.Config {
	flags := cmd.Flags()
	if flags.Changed("max-videos") {
		c.MaxChannelVideos, _ = flags.GetInt("max-videos")
	}
	if flags.Changed("delay") {
		c.VideoDelay, _ = flags.GetDuration("delay")
	}
	if flags.Changed("timeout") {
		c.TranscriptTimeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("watch-page") {
		c.TranscriptWatchPage, _ = flags.GetBool("watch-page")
	}
	if flags.Changed("ytdlp") {
		c.TranscriptYtDlp, _ = flags.GetBool("ytdlp")
	}
	return c.Normalize()
}

func newPipeline() *sources.ChannelPipeline {
	return sources.NewChannelPipeline(cfg, slog.Default(), nil)
}

func execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline progress to stderr")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Disable the progress bar and summary")
	rootCmd.PersistentFlags().Duration("timeout", 10*time.Second, "Timeout per transcript strategy attempt")
	rootCmd.PersistentFlags().Bool("watch-page", false, "Try the in-process watch page and player strategies after the interpreters")
	rootCmd.PersistentFlags().Bool("ytdlp", false, "Try yt-dlp subtitles as the last strategy")

	rootCmd.AddCommand(channelCmd, videoCmd, doctorCmd)
}
