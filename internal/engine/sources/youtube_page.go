package sources

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/anatolykoptev/go_ytchannel/internal/engine"
)

// videosQuery asks for the grid view sorted by popularity.
const videosQuery = "view=0&sort=p&flow=grid"

// maxPageBytes bounds how much of a channel page is read.
const maxPageBytes = 8 << 20

// VideosPageURL turns a channel URL into its popular-videos listing URL.
func VideosPageURL(channelURL string) string {
	if strings.Contains(channelURL, "?") {
		return channelURL + "&" + videosQuery
	}
	base := strings.TrimRight(channelURL, "/")
	if !strings.HasSuffix(base, "/videos") {
		base += "/videos"
	}
	return base + "?" + videosQuery
}

// PageFetcher retrieves channel listing pages with a browser request signature.
type PageFetcher struct {
	client    *http.Client
	browser   *engine.BrowserClient // optional; takes precedence over client
	userAgent func() string
	logger    *slog.Logger
}

// NewPageFetcher creates a fetcher. bc may be nil.
func NewPageFetcher(client *http.Client, bc *engine.BrowserClient, logger *slog.Logger) *PageFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PageFetcher{
		client:    client,
		browser:   bc,
		userAgent: engine.RandomUserAgent,
		logger:    logger,
	}
}

// WithUserAgent fixes the User-Agent header instead of rotating it.
func (f *PageFetcher) WithUserAgent(ua string) *PageFetcher {
	f.userAgent = func() string { return ua }
	return f
}

func (f *PageFetcher) headers() map[string]string {
	ua := f.userAgent()
	if ua == "" {
		ua = engine.UserAgentChrome
	}
	return map[string]string{
		"User-Agent":      ua,
		"Accept-Language": engine.AcceptLanguage,
		"Accept":          engine.AcceptHTML,
	}
}

// FetchChannelPage issues a single GET for the channel's videos listing.
// Failures are returned as *engine.PageFetchError; there is no retry here.
func (f *PageFetcher) FetchChannelPage(ctx context.Context, channelURL string) (ChannelPage, error) {
	pageURL := VideosPageURL(channelURL)
	f.logger.Debug("youtube: fetching channel page", slog.String("url", pageURL))

	var (
		body []byte
		err  error
	)
	if f.browser != nil {
		// The browser client takes no context; honour cancellation around it.
		if err := ctx.Err(); err != nil {
			return ChannelPage{}, err
		}
		body, err = f.fetchBrowser(pageURL)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ChannelPage{}, ctxErr
		}
	} else {
		body, err = f.fetchHTTP(ctx, pageURL)
	}
	if err != nil {
		return ChannelPage{}, err
	}
	return ChannelPage{URL: pageURL, HTML: string(body)}, nil
}

func (f *PageFetcher) fetchHTTP(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &engine.PageFetchError{URL: pageURL, Err: err}
	}
	for k, v := range f.headers() {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &engine.PageFetchError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		return nil, &engine.PageFetchError{
			URL:        pageURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, &engine.PageFetchError{URL: pageURL, Err: fmt.Errorf("read body: %w", err)}
	}
	return body, nil
}

func (f *PageFetcher) fetchBrowser(pageURL string) ([]byte, error) {
	headers := engine.ChromeHeaders()
	for k, v := range f.headers() {
		headers[strings.ToLower(k)] = v
	}

	data, _, status, err := f.browser.Do(http.MethodGet, pageURL, headers, nil)
	if err != nil {
		return nil, &engine.PageFetchError{URL: pageURL, Err: err}
	}
	if status < 200 || status > 299 {
		return nil, &engine.PageFetchError{URL: pageURL, StatusCode: status, Err: fmt.Errorf("status %d", status)}
	}
	if len(data) > maxPageBytes {
		data = data[:maxPageBytes]
	}
	return data, nil
}
