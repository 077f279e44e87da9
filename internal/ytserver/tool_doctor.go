package ytserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_ytchannel/internal/engine/sources"
)

type TranscriptDoctorInput struct{}

func registerTranscriptDoctor(server *mcp.Server, d Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "transcript_doctor",
		Description: "Check whether this host can fetch transcripts: interpreters on PATH, their versions, the youtube_transcript_api module, the helper script and yt-dlp.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ TranscriptDoctorInput) (*mcp.CallToolResult, sources.Diagnostics, error) {
		return nil, sources.Diagnose(ctx, d.Strategies), nil
	})
}
