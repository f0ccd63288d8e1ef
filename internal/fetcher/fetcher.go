package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Fetcher builds http requests and fetches catalog pages.
type Fetcher struct {
	client         *http.Client
	userAgent      string
	acceptLanguage string
}

// NewFetcher returns new Fetcher.
func NewFetcher(client *http.Client, userAgent string, acceptLanguage string) *Fetcher {
	return &Fetcher{
		client:         client,
		userAgent:      userAgent,
		acceptLanguage: acceptLanguage,
	}
}

// FetchPage returns the raw HTML of the page at url or an error.
// Any transport failure, timeout or non-2xx status is reported as an error;
// callers are expected to treat every error as a soft skip and never retry
// inside the same pass.
func (f *Fetcher) FetchPage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("can't build http request: %w", err)
	}

	req.Header.Add("Accept", "text/html,application/xhtml+xml")
	req.Header.Add("Accept-Language", f.acceptLanguage)
	req.Header.Add("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("can't get http response: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("can't read response body: %w", err)
	}

	return body, nil
}
