package moss

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
)

var ErrEmptyReport = errors.New("report page is empty")

// Report layout on the MOSS server: an index page linking match{i}.html,
// which is a frameset over match{i}-top.html and the two side-by-side
// source panes match{i}-0.html / match{i}-1.html.
var (
	matchPageRe = regexp.MustCompile(`^match\d+\.html$`)
	framePageRe = regexp.MustCompile(`^match\d+-(?:top|\d+)\.html$`)
)

// ReportFetcher mirrors a hosted MOSS report to local disk. Match pages are
// fetched concurrently with a bounded number of connections, and every page
// is retried with linear backoff before the download as a whole fails.
type ReportFetcher struct {
	client      *http.Client
	connections int
	retryCount  int
	retryDelay  time.Duration
	logger      zerolog.Logger
}

func NewReportFetcher(connections, retryCount int, retryDelay, timeout time.Duration, logger zerolog.Logger) *ReportFetcher {
	if connections < 1 {
		connections = 1
	}
	return &ReportFetcher{
		client:      &http.Client{Timeout: timeout},
		connections: connections,
		retryCount:  retryCount,
		retryDelay:  retryDelay,
		logger:      logger,
	}
}

// SavePage snapshots the report's index page to path.
func (f *ReportFetcher) SavePage(ctx context.Context, reportURL, path string) error {
	data, err := f.fetch(ctx, reportURL)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyReport, reportURL)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Download mirrors the whole report under dir: the index, each match page,
// and each match page's frames. Absolute links back to the report URL are
// rewritten so the local copy browses offline.
func (f *ReportFetcher) Download(ctx context.Context, reportURL, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	base := reportURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	index, err := f.fetch(ctx, reportURL)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "index.html"), localize(index, base), 0644); err != nil {
		return err
	}

	// The index links each match twice (once per submission column).
	matches := make(map[string]bool)
	for _, link := range pageLinks(index) {
		name := strings.TrimPrefix(link, base)
		if matchPageRe.MatchString(name) {
			matches[name] = true
		}
	}
	f.logger.Debug().
		Int("pages", len(matches)).
		Str("dir", dir).
		Msg("Downloading report pages")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.connections)
	for name := range matches {
		g.Go(func() error {
			page, err := f.fetch(gctx, base+name)
			if err != nil {
				return err
			}
			if err := os.WriteFile(filepath.Join(dir, name), localize(page, base), 0644); err != nil {
				return err
			}
			for _, link := range pageLinks(page) {
				frame := strings.TrimPrefix(link, base)
				if !framePageRe.MatchString(frame) {
					continue
				}
				body, err := f.fetch(gctx, base+frame)
				if err != nil {
					return err
				}
				if err := os.WriteFile(filepath.Join(dir, frame), localize(body, base), 0644); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func (f *ReportFetcher) fetch(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for i := 0; i <= f.retryCount; i++ {
		if i > 0 {
			f.logger.Warn().Int("attempt", i).Str("url", url).Msg("Retrying report fetch")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(f.retryDelay * time.Duration(i)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := f.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("report server returned status %d for %s", resp.StatusCode, url)
			continue
		}
		return body, nil
	}
	return nil, fmt.Errorf("fetch %s after %d attempts: %w", url, f.retryCount+1, lastErr)
}

// pageLinks returns every anchor href and frame src on the page.
func pageLinks(page []byte) []string {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil
	}
	var links []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			var attr string
			switch n.Data {
			case "a":
				attr = "href"
			case "frame", "iframe":
				attr = "src"
			}
			if attr != "" {
				for _, a := range n.Attr {
					if a.Key == attr && a.Val != "" {
						links = append(links, a.Val)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links
}

// localize strips the report base URL so links resolve against the local copy.
func localize(page []byte, base string) []byte {
	return bytes.ReplaceAll(page, []byte(base), nil)
}
