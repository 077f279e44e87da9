package ytserver

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_ytchannel/internal/engine/sources"
)

// Deps are the components the tools run against. They are safe to share
// between concurrent tool calls.
type Deps struct {
	Pipeline   *sources.ChannelPipeline
	Strategies []sources.TranscriptStrategy
}

// ToolNames lists the tools RegisterTools adds, in registration order.
var ToolNames = []string{"channel_transcripts", "video_transcript", "transcript_doctor"}

// RegisterTools registers the channel, video and doctor tools on server.
func RegisterTools(server *mcp.Server, d Deps) {
	registerChannelTranscripts(server, d)
	registerVideoTranscript(server, d)
	registerTranscriptDoctor(server, d)
}
