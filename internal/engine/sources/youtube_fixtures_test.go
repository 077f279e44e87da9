package sources

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

// richItem builds a richGridRenderer entry. thumbs of 0 omits the thumbnail field.
func richItem(id, title string, thumbs int) map[string]any {
	r := map[string]any{
		"videoId":           id,
		"title":             map[string]any{"runs": []any{map[string]any{"text": title}}},
		"viewCountText":     map[string]any{"simpleText": "1,234 views"},
		"publishedTimeText": map[string]any{"simpleText": "2 weeks ago"},
		"lengthText":        map[string]any{"simpleText": "12:34"},
	}
	if thumbs > 0 {
		var list []any
		for i := 1; i <= thumbs; i++ {
			list = append(list, map[string]any{
				"url":    fmt.Sprintf("https://i.ytimg.com/vi/%s/%d.jpg", id, i),
				"width":  160 * i,
				"height": 90 * i,
			})
		}
		r["thumbnail"] = map[string]any{"thumbnails": list}
	}
	return map[string]any{"richItemRenderer": map[string]any{"content": map[string]any{"videoRenderer": r}}}
}

// initialData wraps grid items the way a channel's Videos tab carries them.
func initialData(items []map[string]any) map[string]any {
	return map[string]any{
		"contents": map[string]any{
			"twoColumnBrowseResultsRenderer": map[string]any{
				"tabs": []any{
					map[string]any{"tabRenderer": map[string]any{"title": "Home"}},
					map[string]any{"tabRenderer": map[string]any{
						"title":   "Videos",
						"content": map[string]any{"richGridRenderer": map[string]any{"contents": items}},
					}},
				},
			},
		},
	}
}

// channelHTML renders a channel page whose first script holds data (nil = no blob).
func channelHTML(t *testing.T, data any, body string) string {
	t.Helper()
	var sb strings.Builder
	sb.WriteString(`<!DOCTYPE html><html><head><title>Example - YouTube</title>`)
	sb.WriteString(`<meta property="og:title" content="Example Channel"></head><body>`)
	sb.WriteString(`<script>var ytcfg = {"x":1};</script>`)
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			t.Fatalf("marshal fixture: %v", err)
		}
		sb.WriteString(`<script>var ytInitialData = `)
		sb.Write(b)
		sb.WriteString(`;</script>`)
	}
	sb.WriteString(body)
	sb.WriteString(`</body></html>`)
	return sb.String()
}

// videoID returns a valid 11-char id for index i.
func videoID(i int) string {
	return fmt.Sprintf("vid%08d", i)
}
