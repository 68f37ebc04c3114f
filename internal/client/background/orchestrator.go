// Package background hosts the privileged coordinator of the capture
// pipeline. The orchestrator owns tab lookup, dispatches the scraper on the
// content endpoint, relays progress events to the popup, and enforces at
// most one live capture session per tab.
package background

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/akarpov87/pagevault/internal/bus"
	"github.com/akarpov87/pagevault/internal/capture"
	"github.com/akarpov87/pagevault/internal/client/content"
	"github.com/akarpov87/pagevault/internal/client/tabs"
	"github.com/akarpov87/pagevault/internal/common"
	"github.com/akarpov87/pagevault/internal/logging"
)

// CaptureRequest names the target tab and the capture options for one
// session. It lives only for the duration of the call.
type CaptureRequest struct {
	TabID  int
	Config capture.CaptureConfig
}

type Orchestrator struct {
	channel       bus.Channel
	tabs          tabs.Resolver
	scrapeTimeout time.Duration
	logger        logging.Logger

	mu       sync.Mutex
	sessions map[int]struct{}
}

func NewOrchestrator(ch bus.Channel, resolver tabs.Resolver, scrapeTimeout time.Duration, logger logging.Logger) *Orchestrator {
	return &Orchestrator{
		channel:       ch,
		tabs:          resolver,
		scrapeTimeout: scrapeTimeout,
		logger:        logger.With("module", "orchestrator"),
		sessions:      make(map[int]struct{}),
	}
}

// Attach registers the orchestrator's handlers on the background endpoint.
func (o *Orchestrator) Attach(b *bus.Bus) {
	b.Handle(bus.EndpointBackground, bus.MsgGetCurrentPageData, o.handleCapture)
	b.Handle(bus.EndpointBackground, bus.MsgScrapeProgress, o.handleProgress)
}

func (o *Orchestrator) handleCapture(ctx context.Context, payload any) (any, error) {
	req, ok := payload.(CaptureRequest)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected payload %T", common.ErrTransport, payload)
	}
	return o.Capture(ctx, req)
}

// Capture runs one capture session end to end. A second concurrent request
// for the same tab is rejected with common.ErrSessionBusy. Session state is
// discarded as soon as the response is produced.
func (o *Orchestrator) Capture(ctx context.Context, req CaptureRequest) (*capture.ExtractedDocument, error) {
	if err := o.acquire(req.TabID); err != nil {
		return nil, err
	}
	defer o.release(req.TabID)

	tab, err := o.tabs.Get(req.TabID)
	if err != nil {
		// A vanished tab degrades to an empty document instead of failing
		// the request; the popup shows a blank form the user can fill in.
		o.logger.Warn(ctx, "tab not resolved, returning empty document", "tab_id", req.TabID)
		return &capture.ExtractedDocument{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, o.scrapeTimeout)
	defer cancel()

	resp, err := o.channel.Request(ctx, bus.EndpointContent, bus.MsgScrapePageData, content.ScrapeRequest{
		URL:    tab.URL,
		Config: req.Config,
	})
	if err != nil {
		o.logger.Error(ctx, "scrape failed", "tab_id", req.TabID, "url", tab.URL, "error", err.Error())
		return nil, err
	}

	doc, ok := resp.(*capture.ExtractedDocument)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected response %T", common.ErrTransport, resp)
	}
	return doc, nil
}

// handleProgress relays every stage event to the popup, fire-and-forget.
// A closed popup silently misses events; the scrape is unaffected.
func (o *Orchestrator) handleProgress(_ context.Context, payload any) (any, error) {
	ev, ok := payload.(capture.ProgressEvent)
	if !ok {
		return nil, nil
	}
	_ = o.channel.Notify(bus.EndpointPopup, bus.MsgScrapeProgress, ev)
	return nil, nil
}

func (o *Orchestrator) acquire(tabID int) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, busy := o.sessions[tabID]; busy {
		return fmt.Errorf("%w: tab %d", common.ErrSessionBusy, tabID)
	}
	o.sessions[tabID] = struct{}{}
	return nil
}

func (o *Orchestrator) release(tabID int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.sessions, tabID)
}
