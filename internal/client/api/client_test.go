package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarpov87/pagevault/internal/capture"
	"github.com/akarpov87/pagevault/internal/common"
)

func respond(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"code": code, "message": "ok", "data": data})
}

func staticToken(token string) TokenSource {
	return func() string { return token }
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "hunter2", body["password"])

		respond(w, http.StatusOK, map[string]string{"token": "jwt-token"})
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, staticToken(""), nil)
	token, err := c.Login(context.Background(), "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token)
}

func TestBearerHeaderAttached(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer mytoken", r.Header.Get("Authorization"))
		respond(w, http.StatusOK, nil)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, staticToken("mytoken"), nil)
	require.NoError(t, c.CheckAuth(context.Background()))
}

func TestUnauthorizedTriggersForcedLogout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	loggedOut := false
	c := NewClient(srv.URL, staticToken("stale"), func() { loggedOut = true })

	err := c.CheckAuth(context.Background())
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.True(t, loggedOut)
}

func TestApplicationErrorCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respond(w, http.StatusBadRequest, nil)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, staticToken("x"), nil)
	err := c.CheckAuth(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "code 400")
}

func TestUploadPageMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/upload_new_page", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(32<<20))

		assert.Equal(t, "My Page", r.FormValue("title"))
		assert.Equal(t, "desc", r.FormValue("pageDesc"))
		assert.Equal(t, "https://example.com/", r.FormValue("pageUrl"))
		assert.Equal(t, "3", r.FormValue("folderId"))

		file, header, err := r.FormFile("pageFile")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "page.html", header.Filename)
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "<html></html>", string(data))

		shot, _, err := r.FormFile("screenshot")
		require.NoError(t, err)
		shot.Close()

		respond(w, http.StatusOK, nil)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, staticToken("x"), nil)
	err := c.UploadPage(context.Background(), &capture.PageForm{
		Title:      "My Page",
		PageDesc:   "desc",
		PageURL:    "https://example.com/",
		Content:    []byte("<html></html>"),
		FolderID:   3,
		Screenshot: []byte{0x89},
	})
	require.NoError(t, err)
}

func TestQueryPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", r.URL.Query().Get("folderId"))
		assert.Equal(t, "2", r.URL.Query().Get("pageNumber"))
		assert.Equal(t, "10", r.URL.Query().Get("pageSize"))
		respond(w, http.StatusOK, []*capture.Page{{ID: 5, Title: "found"}})
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, staticToken("x"), nil)
	pages, err := c.QueryPages(context.Background(), 7, 2, 10)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "found", pages[0].Title)
}

func TestGetPageNull(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respond(w, http.StatusOK, nil)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, staticToken("x"), nil)
	page, err := c.GetPage(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, page)
}

func TestCreateFolder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		respond(w, http.StatusOK, capture.Folder{ID: 4, Name: body["name"]})
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, staticToken("x"), nil)
	folder, err := c.CreateFolder(context.Background(), "research")
	require.NoError(t, err)
	assert.Equal(t, int64(4), folder.ID)
	assert.Equal(t, "research", folder.Name)
}
