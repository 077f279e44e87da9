package sources

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/anatolykoptev/go_ytchannel/internal/engine"
)

// UnknownChannel is reported when the page carries no usable name.
const UnknownChannel = "Unknown Channel"

// videoListStrategy is one independent way of listing a page's videos.
type videoListStrategy interface {
	Name() string
	Videos(doc *goquery.Document) []VideoRecord
}

// VideoExtractor tries its strategies in order and keeps the first non-empty result.
type VideoExtractor struct {
	strategies []videoListStrategy
	logger     *slog.Logger
}

// NewVideoExtractor returns the embedded-data extractor with the anchor-scan fallback.
func NewVideoExtractor(logger *slog.Logger) *VideoExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &VideoExtractor{
		strategies: []videoListStrategy{
			initialDataStrategy{logger: logger},
			anchorStrategy{},
		},
		logger: logger,
	}
}

// Extract lists at most limit unique videos (never more than engine.MaxChannelVideos)
// and the channel's display name.
func (e *VideoExtractor) Extract(page ChannelPage, limit int) ChannelListing {
	if limit <= 0 || limit > engine.MaxChannelVideos {
		limit = engine.MaxChannelVideos
	}

	root, err := html.Parse(strings.NewReader(page.HTML))
	if err != nil {
		e.logger.Warn("youtube: channel page parse failed", slog.String("url", page.URL), slog.Any("error", err))
		return ChannelListing{Name: UnknownChannel}
	}
	doc := goquery.NewDocumentFromNode(root)

	listing := ChannelListing{Name: channelName(doc)}
	for i, s := range e.strategies {
		videos := dedupeVideos(s.Videos(doc))
		if len(videos) == 0 {
			if i == 0 {
				listing.Degraded = true
				e.logger.Info("youtube: structured extraction empty, falling back",
					slog.String("url", page.URL))
			}
			continue
		}
		if len(videos) > limit {
			videos = videos[:limit]
		}
		listing.Videos = videos
		listing.Strategy = s.Name()
		break
	}

	e.logger.Info("youtube: videos extracted",
		slog.String("channel", listing.Name),
		slog.Int("count", len(listing.Videos)),
		slog.String("strategy", listing.Strategy))
	return listing
}

// channelName reads og:title, then <title> without the site suffix.
func channelName(doc *goquery.Document) string {
	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if og = strings.TrimSpace(og); og != "" {
			return og
		}
	}
	title, _, _ := strings.Cut(doc.Find("title").First().Text(), " - YouTube")
	if title = strings.TrimSpace(title); title != "" {
		return title
	}
	return UnknownChannel
}

func dedupeVideos(videos []VideoRecord) []VideoRecord {
	seen := make(map[string]bool, len(videos))
	out := make([]VideoRecord, 0, len(videos))
	for _, v := range videos {
		if v.VideoID == "" || seen[v.VideoID] {
			continue
		}
		seen[v.VideoID] = true
		out = append(out, v)
	}
	return out
}
