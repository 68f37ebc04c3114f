package background

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarpov87/pagevault/internal/bus"
	"github.com/akarpov87/pagevault/internal/capture"
	"github.com/akarpov87/pagevault/internal/client/api"
	"github.com/akarpov87/pagevault/internal/client/store"
)

func newSettingsEnv(t *testing.T, handler http.Handler) (*bus.Bus, *store.Store) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	st, err := store.Open(filepath.Join(t.TempDir(), "settings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	client := api.NewClient(srv.URL, func() string {
		token, _ := st.Token(context.Background())
		return token
	}, nil)

	b := bus.New()
	NewSettings(st, client, testLogger()).Attach(b)
	return b, st
}

func TestTokenStoredViaBus(t *testing.T) {
	b, st := newSettingsEnv(t, http.NotFoundHandler())
	ctx := context.Background()

	_, err := b.Request(ctx, bus.EndpointBackground, bus.MsgSetToken, SetTokenRequest{Token: "fresh"})
	require.NoError(t, err)

	resp, err := b.Request(ctx, bus.EndpointBackground, bus.MsgGetToken, nil)
	require.NoError(t, err)
	assert.Equal(t, TokenResponse{Token: "fresh"}, resp)

	stored, err := st.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fresh", stored)
}

func TestCheckAuthReportsServerVerdict(t *testing.T) {
	authorized := false
	b, _ := newSettingsEnv(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if !authorized {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"code": 200, "message": "ok"})
	}))
	ctx := context.Background()

	resp, err := b.Request(ctx, bus.EndpointBackground, bus.MsgCheckAuth, nil)
	require.NoError(t, err)
	assert.Equal(t, SuccessResponse{Success: false}, resp)

	authorized = true
	resp, err = b.Request(ctx, bus.EndpointBackground, bus.MsgCheckAuth, nil)
	require.NoError(t, err)
	assert.Equal(t, SuccessResponse{Success: true}, resp)
}

func TestGetAllFoldersViaBus(t *testing.T) {
	b, _ := newSettingsEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/all_folders", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"code": 200, "message": "ok",
			"data": []capture.Folder{{ID: 1, Name: "inbox"}},
		})
	}))

	resp, err := b.Request(context.Background(), bus.EndpointBackground, bus.MsgGetAllFolders, nil)
	require.NoError(t, err)

	f, ok := resp.(FoldersResponse)
	require.True(t, ok)
	require.Len(t, f.Folders, 1)
	assert.Equal(t, "inbox", f.Folders[0].Name)
}

func TestSavePageTaskUploads(t *testing.T) {
	var gotTitle string
	b, _ := newSettingsEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/upload_new_page", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(32<<20))
		gotTitle = r.FormValue("title")
		_ = json.NewEncoder(w).Encode(map[string]any{"code": 200, "message": "ok"})
	}))

	form := &capture.PageForm{
		Title:    "Queued Save",
		PageURL:  "https://example.com/",
		Content:  []byte("<html></html>"),
		FolderID: 1,
	}
	resp, err := b.Request(context.Background(), bus.EndpointBackground, bus.MsgAddSavePageTask, SavePageRequest{Form: form})
	require.NoError(t, err)
	assert.Equal(t, SuccessResponse{Success: true}, resp)
	assert.Equal(t, "Queued Save", gotTitle)
}
