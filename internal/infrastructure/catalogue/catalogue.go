package catalogue

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"FgdcMigrator/internal/domain"
	"FgdcMigrator/internal/source"
)

// Scanner discovers source metadata documents from an HTML catalogue
// listing: every anchor pointing at an .xml file becomes one candidate.
type Scanner struct {
	client *http.Client
}

// NewScanner wires an HTTP client.
func NewScanner(client *http.Client) *Scanner {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Scanner{client: client}
}

// Name identifies the strategy inside the registry.
func (s *Scanner) Name() string {
	return "catalogue"
}

// Discover fetches the listing page and extracts links to metadata files in
// page order, deduplicated by resolved URL.
func (s *Scanner) Discover(ctx context.Context, req source.Request) ([]domain.SourceRef, error) {
	if req.Location == "" {
		return nil, fmt.Errorf("no catalogue location provided")
	}

	base, err := url.Parse(req.Location)
	if err != nil {
		return nil, fmt.Errorf("invalid catalogue url %s: %w", req.Location, err)
	}

	doc, err := s.fetchDocument(ctx, req.Location)
	if err != nil {
		return nil, err
	}

	var refs []domain.SourceRef
	seen := map[string]struct{}{}

	doc.Find("a[href]").Each(func(i int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !strings.HasSuffix(strings.ToLower(href), ".xml") {
			return
		}
		link, err := base.Parse(href)
		if err != nil {
			return
		}
		resolved := link.String()
		if _, dup := seen[resolved]; dup {
			return
		}
		seen[resolved] = struct{}{}
		refs = append(refs, domain.SourceRef{
			ID:       path.Base(link.Path),
			Location: resolved,
		})
	})

	return refs, nil
}

// Fetch downloads one metadata document.
func (s *Scanner) Fetch(ctx context.Context, ref domain.SourceRef) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref.Location, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "FgdcMigrator/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalogue returned %s for %s", resp.Status, ref.ID)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", ref.ID, err)
	}
	return data, nil
}

func (s *Scanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "FgdcMigrator/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalogue returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse listing: %w", err)
	}

	return doc, nil
}
