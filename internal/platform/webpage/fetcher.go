// Package webpage fetches course pages and reduces them to plain text
// suitable for inclusion in a discovery prompt.
package webpage

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 2 << 20
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// Fetcher retrieves a webpage and returns its visible text content.
type Fetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// HTTPFetcher implements Fetcher with net/http.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher with a sensible request timeout.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{client: &http.Client{Timeout: defaultTimeout}}
}

var _ Fetcher = (*HTTPFetcher)(nil)

// Go's regexp has no backreferences, so each container tag gets its own
// pattern.
var blockTagRes = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<script[\s>].*?</script\s*>`),
	regexp.MustCompile(`(?is)<style[\s>].*?</style\s*>`),
	regexp.MustCompile(`(?is)<nav[\s>].*?</nav\s*>`),
	regexp.MustCompile(`(?is)<header[\s>].*?</header\s*>`),
	regexp.MustCompile(`(?is)<footer[\s>].*?</footer\s*>`),
	regexp.MustCompile(`(?is)<!--.*?-->`),
}

var tagRe = regexp.MustCompile(`<[^>]*>`)

// FetchText downloads the page and strips it to readable text: scripts,
// styles and chrome sections removed, tags replaced by line breaks,
// entities decoded, blank lines dropped.
func (f *HTTPFetcher) FetchText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read body of %s: %w", url, err)
	}

	return ExtractText(string(body)), nil
}

// ExtractText converts raw HTML to plain text.
func ExtractText(rawHTML string) string {
	text := rawHTML
	for _, re := range blockTagRes {
		text = re.ReplaceAllString(text, "")
	}
	text = tagRe.ReplaceAllString(text, "\n")
	text = html.UnescapeString(text)

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return strings.Join(lines, "\n")
}
