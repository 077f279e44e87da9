package ytserver

import (
	"context"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_ytchannel/internal/engine"
	"github.com/anatolykoptev/go_ytchannel/internal/engine/sources"
	"github.com/anatolykoptev/go_ytchannel/internal/toolutil"
)

type ChannelTranscriptsInput struct {
	ChannelURL string `json:"channel_url" jsonschema:"YouTube channel URL (youtube.com/@handle, /channel/ID, /c/name or /user/name)"`
}

func registerChannelTranscripts(server *mcp.Server, d Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "channel_transcripts",
		Description: "List up to 20 popular videos of a YouTube channel and fetch each video's transcript. Returns channel name, stats, extraction strategy and per-video records (title, thumbnail, views, published, duration, transcript or null).",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input ChannelTranscriptsInput) (*mcp.CallToolResult, sources.ChannelReport, error) {
		report, err := channelTranscripts(ctx, d.Pipeline, input)
		if err != nil {
			return nil, sources.ChannelReport{}, err
		}
		return nil, *report, nil
	})
}

func channelTranscripts(ctx context.Context, p *sources.ChannelPipeline, input ChannelTranscriptsInput) (*sources.ChannelReport, error) {
	channelURL := strings.TrimSpace(input.ChannelURL)
	if channelURL == "" {
		return nil, toolutil.ToolError(engine.ErrInvalidChannelURL)
	}
	report, err := p.Run(ctx, channelURL)
	if err != nil {
		slog.Warn("channel_transcripts error", slog.String("url", channelURL), slog.Any("error", err))
		return nil, toolutil.ToolError(err)
	}
	return report, nil
}
