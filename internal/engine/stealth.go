package engine

import (
	"fmt"
	"log/slog"

	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/anatolykoptev/go-stealth/proxypool"
)

// Re-export stealth types and functions for engine consumers.
type BrowserClient = stealth.BrowserClient

func ChromeHeaders() map[string]string { return stealth.ChromeHeaders() }
func RandomUserAgent() string          { return stealth.RandomUserAgent() }
func IsRetryableStatus(code int) bool  { return stealth.IsRetryableStatus(code) }

// NewBrowserClient builds a Chrome-fingerprinted client, routed through the
// Webshare proxy pool when an API key is given.
func NewBrowserClient(timeoutSec int, webshareAPIKey string) (*BrowserClient, error) {
	opts := []stealth.ClientOption{stealth.WithTimeout(timeoutSec)}

	if webshareAPIKey != "" {
		pool, err := proxypool.NewWebshare(webshareAPIKey)
		if err != nil {
			slog.Warn("proxy pool init failed, running without proxy", slog.Any("error", err))
		} else {
			opts = append(opts, stealth.WithProxyPool(pool))
			slog.Info("proxy pool initialized", slog.Int("proxies", pool.Len()))
		}
	}

	bc, err := stealth.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("stealth client: %w", err)
	}
	return bc, nil
}

// WithStealth attaches a browser client when StealthEnabled is set. If the
// client cannot be built, page fetches stay on net/http.
func (c Config) WithStealth() Config {
	if !c.StealthEnabled || c.BrowserClient != nil {
		return c
	}
	c = c.Normalize()
	bc, err := NewBrowserClient(int(c.FetchTimeout.Seconds()), c.WebshareAPIKey)
	if err != nil {
		slog.Error("stealth client init failed, using net/http", slog.Any("error", err))
		return c
	}
	c.BrowserClient = bc
	slog.Info("stealth browser client initialized")
	return c
}
