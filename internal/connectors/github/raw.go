package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ternarybob/onboarder/internal/common"
)

// maxRawFileSize caps a single raw download
const maxRawFileSize = 5 * 1024 * 1024

// RawFileURL returns the raw content URL for a file on a branch
func RawFileURL(rawBaseURL, owner, repo, branch, filePath string) string {
	segments := strings.Split(filePath, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("%s/%s/%s/%s/%s",
		strings.TrimSuffix(rawBaseURL, "/"),
		url.PathEscape(owner), url.PathEscape(repo), url.PathEscape(branch),
		strings.Join(segments, "/"))
}

// DownloadRaw fetches a file's content from the raw content host.
// Any non-200 status or empty body is an error.
func (c *Connector) DownloadRaw(ctx context.Context, owner, repo, branch, filePath string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait failed: %w", err)
	}

	rawURL := RawFileURL(c.rawBaseURL, owner, repo, branch, filePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", common.UserAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d for %s", resp.StatusCode, filePath)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRawFileSize))
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}
	if len(body) == 0 {
		return "", fmt.Errorf("empty content for %s", filePath)
	}

	return string(body), nil
}
