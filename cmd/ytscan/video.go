package main

import (
	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_ytchannel/internal/toolutil"
)

var videoCmd = &cobra.Command{
	Use:   "video <video URL>",
	Short: "Fetch the transcript of a single video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := newPipeline().VideoTranscript(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return toolutil.WriteJSON(cmd.OutOrStdout(), report)
	},
}
