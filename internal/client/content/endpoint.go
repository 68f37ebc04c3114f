// Package content binds the scraper capability to the content endpoint of
// the message channel. It runs in the page context: it answers scrape
// requests and streams stage events back to the background endpoint.
package content

import (
	"context"
	"fmt"

	"github.com/akarpov87/pagevault/internal/bus"
	"github.com/akarpov87/pagevault/internal/capture"
	"github.com/akarpov87/pagevault/internal/client/scraper"
	"github.com/akarpov87/pagevault/internal/common"
)

// ScrapeRequest asks the content endpoint to capture a page.
type ScrapeRequest struct {
	URL    string
	Config capture.CaptureConfig
}

type Endpoint struct {
	scraper *scraper.Scraper
	channel bus.Channel
}

func NewEndpoint(s *scraper.Scraper, ch bus.Channel) *Endpoint {
	return &Endpoint{scraper: s, channel: ch}
}

// Attach registers the content endpoint's handlers on the bus.
func (e *Endpoint) Attach(b *bus.Bus) {
	b.Handle(bus.EndpointContent, bus.MsgScrapePageData, e.handleScrape)
}

func (e *Endpoint) handleScrape(ctx context.Context, payload any) (any, error) {
	req, ok := payload.(ScrapeRequest)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected payload %T", common.ErrTransport, payload)
	}

	// Progress goes to the background endpoint, which owns the relay to the
	// popup. Losing an event is fine; losing the document is not.
	sink := func(ev capture.ProgressEvent) {
		_ = e.channel.Notify(bus.EndpointBackground, bus.MsgScrapeProgress, ev)
	}

	return e.scraper.Scrape(ctx, req.URL, req.Config, sink)
}
