// Package scraper implements the content-side capture capability: it turns a
// live page into a single self-contained document, reporting extraction
// stages through a caller-supplied sink. The snapshot format is an internal
// detail; consumers only see the resulting ExtractedDocument.
package scraper

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/akarpov87/pagevault/internal/capture"
	"github.com/akarpov87/pagevault/internal/common"
	"github.com/akarpov87/pagevault/internal/logging"
)

// ProgressSink receives stage events while a scrape runs. It is called
// synchronously, in pipeline order, before Scrape returns.
type ProgressSink func(capture.ProgressEvent)

// maxInlineResourceSize caps a single inlined resource. Bigger resources are
// left as external references so one oversized image cannot balloon the
// snapshot.
const maxInlineResourceSize = 4 << 20

// maxDocumentSize caps the page document itself. A page bigger than this
// fails the scrape; it is never truncated and archived as if complete.
const maxDocumentSize = 32 << 20

type Scraper struct {
	httpClient *http.Client
	logger     logging.Logger
}

func New(logger logging.Logger) *Scraper {
	return &Scraper{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger.With("module", "scraper"),
	}
}

// Scrape loads pageURL and serializes it into a self-contained document.
// Zero or more progress events are emitted to sink before the result
// resolves. Any failure wraps common.ErrExtraction; there is no automatic
// retry.
func (s *Scraper) Scrape(ctx context.Context, pageURL string, cfg capture.CaptureConfig, sink ProgressSink) (*capture.ExtractedDocument, error) {
	emit := func(stage capture.LoadStage) {
		if sink != nil {
			sink(capture.ProgressEvent{Stage: stage})
		}
	}

	emit(capture.StageInitializing)

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: bad page url %q: %v", common.ErrExtraction, pageURL, err)
	}

	emit(capture.StageLoadingResources)

	body, _, err := s.fetch(ctx, pageURL, maxDocumentSize)
	if err != nil {
		return nil, fmt.Errorf("%w: loading page: %v", common.ErrExtraction, err)
	}

	emit(capture.StageWaitingForLoad)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing page: %v", common.ErrExtraction, err)
	}

	title, pageDesc := s.extractMetadata(doc, body, base)

	emit(capture.StageFinalizing)

	if !cfg.KeepScripts {
		doc.Find("script").Remove()
	}
	if cfg.InlineImages {
		s.inlineImages(ctx, doc, base)
	}
	if cfg.InlineStylesheets {
		s.inlineStylesheets(ctx, doc, base)
	}

	content, err := doc.Html()
	if err != nil {
		return nil, fmt.Errorf("%w: serializing snapshot: %v", common.ErrExtraction, err)
	}

	emit(capture.StageDone)

	return &capture.ExtractedDocument{
		Title:    title,
		Href:     pageURL,
		PageDesc: pageDesc,
		Content:  content,
	}, nil
}

// extractMetadata pulls title and description from the DOM, falling back to
// readability's article metadata when the page does not declare them.
func (s *Scraper) extractMetadata(doc *goquery.Document, raw []byte, base *url.URL) (title, pageDesc string) {
	title = strings.TrimSpace(doc.Find("title").First().Text())
	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		pageDesc = strings.TrimSpace(desc)
	}

	if title != "" && pageDesc != "" {
		return title, pageDesc
	}

	parser := readability.NewParser()
	article, err := parser.Parse(strings.NewReader(string(raw)), base)
	if err != nil {
		s.logger.Debug(context.Background(), "readability fallback failed", "url", base.String(), "error", err.Error())
		return title, pageDesc
	}
	if title == "" {
		title = strings.TrimSpace(article.Title)
	}
	if pageDesc == "" {
		pageDesc = strings.TrimSpace(article.Excerpt)
	}
	return title, pageDesc
}

func (s *Scraper) inlineImages(ctx context.Context, doc *goquery.Document, base *url.URL) {
	doc.Find("img[src]").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		if src == "" || strings.HasPrefix(src, "data:") {
			return
		}
		data, contentType, err := s.fetchResource(ctx, base, src)
		if err != nil {
			s.logger.Debug(ctx, "image left external", "src", src, "error", err.Error())
			return
		}
		sel.SetAttr("src", "data:"+contentType+";base64,"+base64.StdEncoding.EncodeToString(data))
	})
}

func (s *Scraper) inlineStylesheets(ctx context.Context, doc *goquery.Document, base *url.URL) {
	doc.Find(`link[rel="stylesheet"][href]`).Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		css, _, err := s.fetchResource(ctx, base, href)
		if err != nil {
			s.logger.Debug(ctx, "stylesheet left external", "href", href, "error", err.Error())
			return
		}
		sel.ReplaceWithHtml("<style>" + string(css) + "</style>")
	})
}

// fetchResource resolves ref against the page URL and downloads it, subject
// to the inline size cap.
func (s *Scraper) fetchResource(ctx context.Context, base *url.URL, ref string) ([]byte, string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, "", err
	}
	return s.fetch(ctx, base.ResolveReference(u).String(), maxInlineResourceSize)
}

// fetch downloads rawURL, failing when the body exceeds limit.
func (s *Scraper) fetch(ctx context.Context, rawURL string, limit int64) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, "", err
	}
	if int64(len(data)) > limit {
		return nil, "", fmt.Errorf("body exceeds %d bytes", limit)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	return data, contentType, nil
}
