package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_ytchannel/internal/engine/sources"
	"github.com/anatolykoptev/go_ytchannel/internal/toolutil"
)

// errUnhealthy makes ytscan exit 2 without printing an error object.
var errUnhealthy = errors.New("no transcript strategy is runnable")

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that this host can fetch transcripts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d := sources.Diagnose(cmd.Context(), sources.TranscriptStrategies(cfg))
		if err := toolutil.WriteJSON(cmd.OutOrStdout(), d); err != nil {
			return err
		}
		if !d.OK {
			return errUnhealthy
		}
		return nil
	},
}
