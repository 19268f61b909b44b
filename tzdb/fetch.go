package tzdb

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/ngrash/go-tzcal/internal/logx"
)

// Client downloads zoneinfo archives over HTTP. The zero value is ready to
// use.
//
// Callers are advised to keep the ETag returned by Fetch and pass it to the
// next call so an unchanged archive is not downloaded again.
type Client struct {
	// HTTPClient is used for requests. If nil, http.DefaultClient is used.
	//
	// Tests set it to a client with a fake http.RoundTripper. Timeouts are
	// also controlled by the context passed to Fetch and Download.
	HTTPClient *http.Client
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}

// Fetch downloads the archive at url and loads it with ReadArchive.
//
// If the server responds with 304 Not Modified, the returned DB and error
// are nil and the returned ETag equals etag.
func (c *Client) Fetch(ctx context.Context, url, etag string, opts ...Option) (*DB, string, error) {
	o := newOptions(opts)
	body, newEtag, err := c.Download(ctx, url, etag)
	if err != nil {
		return nil, "", err
	}
	if body == nil {
		o.log.Debug("archive not modified", logx.String("url", url), logx.String("etag", etag))
		return nil, etag, nil
	}
	defer func() {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, body)
		_ = body.Close()
	}()

	db, err := ReadArchive(body, opts...)
	if err != nil {
		return nil, "", fmt.Errorf("read archive from %q: %w", url, err)
	}
	o.log.Info("archive fetched", logx.String("url", url), logx.Int("zones", db.Len()), logx.String("etag", newEtag))
	return db, newEtag, nil
}

// Download requests url, sending etag in If-None-Match when it is not
// empty.
//
// On 200 OK the response body is returned with the response ETag; the
// caller must read and close it. On 304 Not Modified the body and error are
// nil and etag is returned unchanged. Any other status is an error.
func (c *Client) Download(ctx context.Context, url, etag string) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request for %q: %w", url, err)
	}
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("GET %q: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()

		if resp.StatusCode == http.StatusNotModified {
			return nil, etag, nil
		}
		return nil, "", fmt.Errorf("response for %q: unexpected status: %s", url, resp.Status)
	}

	return resp.Body, resp.Header.Get("ETag"), nil
}
