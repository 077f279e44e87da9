// go_ytchannel: YouTube channel transcript MCP server.
//
// Exposes three MCP tools: channel_transcripts, video_transcript, transcript_doctor.
// The same pipeline is available from the command line via cmd/ytscan.
package main

import (
	"log/slog"
	"strings"
	"time"

	"github.com/anatolykoptev/go-mcpserver"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_ytchannel/internal/engine"
	"github.com/anatolykoptev/go_ytchannel/internal/engine/sources"
	"github.com/anatolykoptev/go_ytchannel/internal/ytserver"
)

var version = "dev"

func main() {
	if err := godotenv.Load(".env"); err != nil {
		slog.Debug("no .env file loaded", slog.Any("error", err))
	}

	cfg := engine.LoadConfig().WithStealth()
	metrics := &engine.Metrics{}
	strategies := sources.TranscriptStrategies(cfg)

	names := make([]string, 0, len(strategies))
	for _, s := range strategies {
		names = append(names, s.Name())
	}
	slog.Info("starting go_ytchannel",
		slog.String("port", cfg.MCPPort),
		slog.String("strategies", strings.Join(names, ",")),
		slog.Bool("stealth", cfg.BrowserClient != nil),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_ytchannel",
		Version: version,
	}, nil)

	ytserver.RegisterTools(server, ytserver.Deps{
		Pipeline:   sources.NewChannelPipeline(cfg, slog.Default(), metrics),
		Strategies: strategies,
	})
	slog.Info("tools registered", slog.Int("count", len(ytserver.ToolNames)))

	// A full channel run is up to 20 videos × the strategy chain.
	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_ytchannel",
		Version:      version,
		Port:         cfg.MCPPort,
		WriteTimeout: 600 * time.Second,
		Metrics:      metrics.Format,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}
