// Package popup implements the user-facing controller: it initiates capture
// sessions, observes relayed progress, and submits the final save to the
// ingestion service directly, bypassing the orchestrator.
package popup

import (
	"context"
	"fmt"
	"sync"

	"github.com/akarpov87/pagevault/internal/bus"
	"github.com/akarpov87/pagevault/internal/capture"
	"github.com/akarpov87/pagevault/internal/client/api"
	"github.com/akarpov87/pagevault/internal/client/background"
	"github.com/akarpov87/pagevault/internal/common"
	"github.com/akarpov87/pagevault/internal/logging"
)

// StageFunc observes relayed progress stages, e.g. to render them.
type StageFunc func(capture.LoadStage)

type Controller struct {
	channel bus.Channel
	api     *api.Client
	logger  logging.Logger

	mu      sync.Mutex
	stages  []capture.LoadStage
	onStage StageFunc
}

func NewController(ch bus.Channel, apiClient *api.Client, logger logging.Logger) *Controller {
	return &Controller{
		channel: ch,
		api:     apiClient,
		logger:  logger.With("module", "popup"),
	}
}

// Attach registers the popup endpoint's handlers on the bus.
func (c *Controller) Attach(b *bus.Bus) {
	b.Handle(bus.EndpointPopup, bus.MsgScrapeProgress, c.handleProgress)
}

// OnStage sets the progress observer. Pass nil to stop observing.
func (c *Controller) OnStage(fn StageFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onStage = fn
}

// Stages returns the stages observed since the last capture started.
func (c *Controller) Stages() []capture.LoadStage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]capture.LoadStage, len(c.stages))
	copy(out, c.stages)
	return out
}

func (c *Controller) handleProgress(_ context.Context, payload any) (any, error) {
	ev, ok := payload.(capture.ProgressEvent)
	if !ok {
		return nil, nil
	}
	c.mu.Lock()
	c.stages = append(c.stages, ev.Stage)
	fn := c.onStage
	c.mu.Unlock()
	if fn != nil {
		fn(ev.Stage)
	}
	return nil, nil
}

// CapturePage asks the orchestrator to capture the tab and returns the
// extracted document. Progress events arrive through the popup endpoint
// while the call is in flight.
func (c *Controller) CapturePage(ctx context.Context, tabID int, cfg capture.CaptureConfig) (*capture.ExtractedDocument, error) {
	c.mu.Lock()
	c.stages = c.stages[:0]
	c.mu.Unlock()

	resp, err := c.channel.Request(ctx, bus.EndpointBackground, bus.MsgGetCurrentPageData, background.CaptureRequest{
		TabID:  tabID,
		Config: cfg,
	})
	if err != nil {
		return nil, err
	}

	doc, ok := resp.(*capture.ExtractedDocument)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected response %T", common.ErrTransport, resp)
	}
	return doc, nil
}

// SavePage submits the edited form straight to the server.
func (c *Controller) SavePage(ctx context.Context, form *capture.PageForm) error {
	return c.api.UploadPage(ctx, form)
}

// CheckAuth asks the background context whether the stored token is valid.
func (c *Controller) CheckAuth(ctx context.Context) (bool, error) {
	resp, err := c.channel.Request(ctx, bus.EndpointBackground, bus.MsgCheckAuth, nil)
	if err != nil {
		return false, err
	}
	ok, valid := resp.(background.SuccessResponse)
	return valid && ok.Success, nil
}

// SetToken stores a fresh token in the background context. An empty token
// logs the client out.
func (c *Controller) SetToken(ctx context.Context, token string) error {
	_, err := c.channel.Request(ctx, bus.EndpointBackground, bus.MsgSetToken, background.SetTokenRequest{Token: token})
	return err
}

// ServerURL reads the configured server URL from the background context.
func (c *Controller) ServerURL(ctx context.Context) (string, error) {
	resp, err := c.channel.Request(ctx, bus.EndpointBackground, bus.MsgGetServerURL, nil)
	if err != nil {
		return "", err
	}
	u, ok := resp.(background.ServerURLResponse)
	if !ok {
		return "", fmt.Errorf("%w: unexpected response %T", common.ErrTransport, resp)
	}
	return u.ServerURL, nil
}

// SetServerURL stores a new server URL in the background context.
func (c *Controller) SetServerURL(ctx context.Context, url string) error {
	_, err := c.channel.Request(ctx, bus.EndpointBackground, bus.MsgSetServerURL, background.SetServerURLReq{URL: url})
	return err
}

// Folders lists the available folders via the background context.
func (c *Controller) Folders(ctx context.Context) ([]*capture.Folder, error) {
	resp, err := c.channel.Request(ctx, bus.EndpointBackground, bus.MsgGetAllFolders, nil)
	if err != nil {
		return nil, err
	}
	f, ok := resp.(background.FoldersResponse)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected response %T", common.ErrTransport, resp)
	}
	return f.Folders, nil
}
