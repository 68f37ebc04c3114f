package background

import (
	"context"
	"fmt"

	"github.com/akarpov87/pagevault/internal/bus"
	"github.com/akarpov87/pagevault/internal/capture"
	"github.com/akarpov87/pagevault/internal/client/api"
	"github.com/akarpov87/pagevault/internal/client/store"
	"github.com/akarpov87/pagevault/internal/common"
	"github.com/akarpov87/pagevault/internal/logging"
)

// Request/response shapes for the background endpoint's settings messages.
type (
	SuccessResponse   struct{ Success bool }
	TokenResponse     struct{ Token string }
	SetTokenRequest   struct{ Token string }
	ServerURLResponse struct{ ServerURL string }
	SetServerURLReq   struct{ URL string }
	FoldersResponse   struct{ Folders []*capture.Folder }
	SavePageRequest   struct{ Form *capture.PageForm }
)

// Settings answers the popup's configuration and account messages. The
// background context owns the local settings store; the popup never touches
// it directly.
type Settings struct {
	store  *store.Store
	api    *api.Client
	logger logging.Logger
}

func NewSettings(st *store.Store, apiClient *api.Client, logger logging.Logger) *Settings {
	return &Settings{store: st, api: apiClient, logger: logger.With("module", "settings")}
}

// Attach registers the settings handlers on the background endpoint.
func (s *Settings) Attach(b *bus.Bus) {
	b.Handle(bus.EndpointBackground, bus.MsgCheckAuth, s.handleCheckAuth)
	b.Handle(bus.EndpointBackground, bus.MsgGetToken, s.handleGetToken)
	b.Handle(bus.EndpointBackground, bus.MsgSetToken, s.handleSetToken)
	b.Handle(bus.EndpointBackground, bus.MsgGetServerURL, s.handleGetServerURL)
	b.Handle(bus.EndpointBackground, bus.MsgSetServerURL, s.handleSetServerURL)
	b.Handle(bus.EndpointBackground, bus.MsgGetAllFolders, s.handleGetAllFolders)
	b.Handle(bus.EndpointBackground, bus.MsgAddSavePageTask, s.handleSavePageTask)
}

func (s *Settings) handleCheckAuth(ctx context.Context, _ any) (any, error) {
	err := s.api.CheckAuth(ctx)
	return SuccessResponse{Success: err == nil}, nil
}

func (s *Settings) handleGetToken(ctx context.Context, _ any) (any, error) {
	token, err := s.store.Token(ctx)
	if err != nil {
		return nil, err
	}
	return TokenResponse{Token: token}, nil
}

func (s *Settings) handleSetToken(ctx context.Context, payload any) (any, error) {
	req, ok := payload.(SetTokenRequest)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected payload %T", common.ErrTransport, payload)
	}
	if err := s.store.SetToken(ctx, req.Token); err != nil {
		return nil, err
	}
	return SuccessResponse{Success: true}, nil
}

func (s *Settings) handleGetServerURL(ctx context.Context, _ any) (any, error) {
	u, err := s.store.ServerURL(ctx)
	if err != nil {
		return nil, err
	}
	return ServerURLResponse{ServerURL: u}, nil
}

func (s *Settings) handleSetServerURL(ctx context.Context, payload any) (any, error) {
	req, ok := payload.(SetServerURLReq)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected payload %T", common.ErrTransport, payload)
	}
	if err := s.store.SetServerURL(ctx, req.URL); err != nil {
		return nil, err
	}
	s.api.SetBaseURL(req.URL)
	return SuccessResponse{Success: true}, nil
}

func (s *Settings) handleGetAllFolders(ctx context.Context, _ any) (any, error) {
	folders, err := s.api.AllFolders(ctx)
	if err != nil {
		return nil, err
	}
	return FoldersResponse{Folders: folders}, nil
}

// handleSavePageTask performs the save on behalf of a popup that may close
// before the upload finishes. The upload runs to completion regardless of
// whether the requester is still listening.
func (s *Settings) handleSavePageTask(ctx context.Context, payload any) (any, error) {
	req, ok := payload.(SavePageRequest)
	if !ok || req.Form == nil {
		return nil, fmt.Errorf("%w: unexpected payload %T", common.ErrTransport, payload)
	}
	if err := s.api.UploadPage(ctx, req.Form); err != nil {
		s.logger.Error(ctx, "save page task failed", "url", req.Form.PageURL, "error", err.Error())
		return SuccessResponse{Success: false}, err
	}
	return SuccessResponse{Success: true}, nil
}
