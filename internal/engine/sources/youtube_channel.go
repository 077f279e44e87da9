package sources

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/anatolykoptev/go_ytchannel/internal/engine"
)

// channelPatterns are checked in order; the first match wins.
var channelPatterns = []struct {
	kind ChannelKind
	re   *regexp.Regexp
}{
	{KindHandle, regexp.MustCompile(`youtube\.com/@([^/?#]+)`)},
	{KindChannelID, regexp.MustCompile(`youtube\.com/channel/([^/?#]+)`)},
	{KindCustomURL, regexp.MustCompile(`youtube\.com/c/([^/?#]+)`)},
	{KindUser, regexp.MustCompile(`youtube\.com/user/([^/?#]+)`)},
}

// ResolveChannel parses a channel URL into a ChannelReference.
func ResolveChannel(raw string) (ChannelReference, error) {
	raw = strings.TrimSpace(raw)
	for _, p := range channelPatterns {
		if m := p.re.FindStringSubmatch(raw); len(m) == 2 {
			return ChannelReference{Kind: p.kind, Identifier: m[1]}, nil
		}
	}
	return ChannelReference{}, fmt.Errorf("%w: %q", engine.ErrInvalidChannelURL, raw)
}

// CanonicalChannelURL rebuilds a fetchable URL for handle and channel-id
// references. Custom and user URLs are returned as given.
func CanonicalChannelURL(ref ChannelReference, raw string) string {
	switch ref.Kind {
	case KindHandle:
		return "https://www.youtube.com/@" + ref.Identifier
	case KindChannelID:
		return "https://www.youtube.com/channel/" + ref.Identifier
	default:
		return strings.TrimSpace(raw)
	}
}

var videoIDRE = regexp.MustCompile(`(?:youtube\.com/watch\?(?:.*&)?v=|youtu\.be/|youtube\.com/embed/|youtube\.com/shorts/)([a-zA-Z0-9_-]{11})`)

// ExtractVideoID pulls the 11-char video ID from a YouTube video URL.
func ExtractVideoID(rawURL string) (string, bool) {
	m := videoIDRE.FindStringSubmatch(rawURL)
	if len(m) >= 2 {
		return m[1], true
	}
	return "", false
}
