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

type VideoTranscriptInput struct {
	VideoURL string `json:"video_url" jsonschema:"YouTube video URL (watch?v=, youtu.be/, embed/ or shorts/)"`
}

func registerVideoTranscript(server *mcp.Server, d Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "video_transcript",
		Description: "Fetch the transcript of a single YouTube video. Returns the transcript (or null), its length, language and the strategies tried.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input VideoTranscriptInput) (*mcp.CallToolResult, sources.VideoReport, error) {
		report, err := videoTranscript(ctx, d.Pipeline, input)
		if err != nil {
			return nil, sources.VideoReport{}, err
		}
		return nil, *report, nil
	})
}

func videoTranscript(ctx context.Context, p *sources.ChannelPipeline, input VideoTranscriptInput) (*sources.VideoReport, error) {
	videoURL := strings.TrimSpace(input.VideoURL)
	if videoURL == "" {
		return nil, toolutil.ToolError(engine.ErrInvalidVideoURL)
	}
	report, err := p.VideoTranscript(ctx, videoURL)
	if err != nil {
		slog.Warn("video_transcript error", slog.String("url", videoURL), slog.Any("error", err))
		return nil, toolutil.ToolError(err)
	}
	return report, nil
}
