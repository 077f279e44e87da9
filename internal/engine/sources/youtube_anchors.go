package sources

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/anatolykoptev/go_ytchannel/internal/engine"
)

var watchHrefRE = regexp.MustCompile(`/watch\?v=([a-zA-Z0-9_-]{11})`)

// anchorStrategy scans watch links when the structured data is unusable.
// Titles come from the title attribute first, then the link text.
type anchorStrategy struct{}

func (anchorStrategy) Name() string { return "anchors" }

func (anchorStrategy) Videos(doc *goquery.Document) []VideoRecord {
	var videos []VideoRecord
	seen := make(map[string]bool)
	doc.Find(`a[href*="/watch?v="]`).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		m := watchHrefRE.FindStringSubmatch(href)
		if len(m) < 2 || seen[m[1]] {
			return
		}
		seen[m[1]] = true

		title, _ := a.Attr("title")
		title = strings.TrimSpace(title)
		if title == "" {
			title = engine.CollapseSpace(a.Text())
		}
		videos = append(videos, VideoRecord{VideoID: m[1], Title: title})
	})
	return videos
}
