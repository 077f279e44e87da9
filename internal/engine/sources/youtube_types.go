package sources

// --- Channel extraction types ---

// ChannelKind names the URL shape a channel reference was parsed from.
type ChannelKind string

const (
	KindHandle    ChannelKind = "handle"
	KindChannelID ChannelKind = "channelId"
	KindCustomURL ChannelKind = "customUrl"
	KindUser      ChannelKind = "user"
)

// ChannelReference identifies the channel a request targets.
type ChannelReference struct {
	Kind       ChannelKind `json:"type"`
	Identifier string      `json:"identifier"`
}

// ChannelPage is the raw markup of a channel's videos listing.
type ChannelPage struct {
	URL  string
	HTML string
}

// VideoRecord is one video found on a channel page.
// Every field except VideoID is best-effort and may be empty.
type VideoRecord struct {
	VideoID           string `json:"videoId"`
	Title             string `json:"title"`
	ThumbnailURL      string `json:"thumbnailUrl"`
	ViewCountText     string `json:"viewCountText"`
	PublishedTimeText string `json:"publishedTimeText"`
	DurationText      string `json:"durationText"`
}

// ChannelListing is the extractor's output for one page.
type ChannelListing struct {
	Name     string
	Videos   []VideoRecord
	Strategy string // extraction strategy that produced Videos; "" if none did
	Degraded bool   // primary strategy produced nothing
}

// --- Transcript types ---

// TranscriptToolResult is the JSON document a transcript capability prints.
type TranscriptToolResult struct {
	Success    bool   `json:"success"`
	Transcript string `json:"transcript,omitempty"`
	Length     int    `json:"length,omitempty"`
	Language   string `json:"language,omitempty"`
	Error      string `json:"error,omitempty"`
}

// TranscriptResult is the acquirer's normalized outcome for one video.
// A nil Transcript means the video has no usable captions.
type TranscriptResult struct {
	VideoID             string
	Transcript          *string
	Language            string
	AttemptedStrategies []string
}

// Has reports whether a transcript is present.
func (r TranscriptResult) Has() bool {
	return r.Transcript != nil
}

// --- Report types ---

// ChannelVideo is a VideoRecord enriched with its transcript outcome.
type ChannelVideo struct {
	VideoRecord
	URL                 string   `json:"url"`
	HasTranscript       bool     `json:"hasTranscript"`
	Transcript          *string  `json:"transcript"`
	TranscriptLanguage  string   `json:"transcriptLanguage,omitempty"`
	AttemptedStrategies []string `json:"attemptedStrategies"`
}

type ChannelInfo struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type ChannelStats struct {
	VideosFound          int `json:"videosFound"`
	VideosProcessed      int `json:"videosProcessed"`
	TranscriptsExtracted int `json:"transcriptsExtracted"`
}

type ExtractionInfo struct {
	Strategy string `json:"strategy"`
	Degraded bool   `json:"degraded"`
}

// ChannelReport is the aggregated result of one channel run.
type ChannelReport struct {
	Success    bool           `json:"success"`
	Channel    ChannelInfo    `json:"channel"`
	Stats      ChannelStats   `json:"stats"`
	Extraction ExtractionInfo `json:"extraction"`
	Videos     []ChannelVideo `json:"videos"`
}

// VideoReport is the result of a single-video transcript lookup.
type VideoReport struct {
	Success             bool     `json:"success"`
	VideoID             string   `json:"videoId"`
	VideoURL            string   `json:"videoUrl"`
	HasTranscript       bool     `json:"hasTranscript"`
	Transcript          *string  `json:"transcript"`
	TranscriptLength    int      `json:"transcriptLength"`
	Language            string   `json:"language,omitempty"`
	AttemptedStrategies []string `json:"attemptedStrategies"`
}
