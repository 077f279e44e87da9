package sources

import (
	"log/slog"
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

	"github.com/anatolykoptev/go_ytchannel/internal/engine"
)

// initialDataMarkers precede the ytInitialData object literal. Longer forms first.
var initialDataMarkers = []string{
	"var ytInitialData = ",
	`window["ytInitialData"] = `,
	"ytInitialData = ",
}

var validVideoIDRE = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// initialDataStrategy reads video renderers out of the embedded ytInitialData blob.
type initialDataStrategy struct {
	logger *slog.Logger
}

func (initialDataStrategy) Name() string { return "initial_data" }

func (s initialDataStrategy) Videos(doc *goquery.Document) []VideoRecord {
	var videos []VideoRecord
	doc.Find("script").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		body := []byte(sel.Text())
		for _, marker := range initialDataMarkers {
			blob := engine.ScanJSONAfter(body, marker)
			if blob == nil {
				continue
			}
			if !gjson.ValidBytes(blob) {
				s.logger.Warn("youtube: unparsable ytInitialData",
					slog.Any("error", engine.ErrMalformedUpstream), slog.Int("bytes", len(blob)))
				return true
			}
			if found := videosFromInitialData(gjson.ParseBytes(blob)); len(found) > 0 {
				videos = found
				return false
			}
			return true
		}
		return true
	})
	return videos
}

// videosFromInitialData walks tabs → (rich grid | section list → item section → grid).
func videosFromInitialData(data gjson.Result) []VideoRecord {
	var videos []VideoRecord
	for _, tab := range data.Get("contents.twoColumnBrowseResultsRenderer.tabs").Array() {
		content := tab.Get("tabRenderer.content")
		items := content.Get("richGridRenderer.contents")
		if !items.IsArray() {
			items = content.Get("sectionListRenderer.contents.0.itemSectionRenderer.contents.0.gridRenderer.items")
		}
		for _, item := range items.Array() {
			r := item.Get("richItemRenderer.content.videoRenderer")
			if !r.IsObject() {
				r = item.Get("gridVideoRenderer")
			}
			if !r.IsObject() {
				continue
			}
			rec := videoFromRenderer(r)
			if !validVideoIDRE.MatchString(rec.VideoID) {
				continue
			}
			videos = append(videos, rec)
		}
	}
	return videos
}

// videoFromRenderer reads one renderer; each missing field stays empty.
func videoFromRenderer(r gjson.Result) VideoRecord {
	title := r.Get("title.runs.0.text").String()
	if title == "" {
		title = r.Get("title.simpleText").String()
	}
	views := r.Get("viewCountText.simpleText").String()
	if views == "" {
		views = r.Get("viewCountText.runs.0.text").String()
	}
	return VideoRecord{
		VideoID:           r.Get("videoId").String(),
		Title:             title,
		ThumbnailURL:      largestThumbnail(r.Get("thumbnail.thumbnails").Array()),
		ViewCountText:     views,
		PublishedTimeText: r.Get("publishedTimeText.simpleText").String(),
		DurationText:      r.Get("lengthText.simpleText").String(),
	}
}

// largestThumbnail picks the entry with the biggest area; ties go to the later one,
// so lists without sizes yield their last entry.
func largestThumbnail(thumbs []gjson.Result) string {
	best := ""
	bestArea := int64(-1)
	for _, t := range thumbs {
		u := t.Get("url").String()
		if u == "" {
			continue
		}
		if area := t.Get("width").Int() * t.Get("height").Int(); area >= bestArea {
			best, bestArea = u, area
		}
	}
	return best
}
