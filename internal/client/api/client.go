// Package api implements the HTTP client for the ingestion service. Every
// response arrives wrapped as {code, message, data}. An HTTP 401 triggers
// the configured forced-logout callback and surfaces as
// common.ErrUnauthorized; it is never retried here.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/akarpov87/pagevault/internal/capture"
	"github.com/akarpov87/pagevault/internal/common"
)

// TokenSource supplies the current access token; it returns "" when the
// client is logged out.
type TokenSource func() string

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
	onAuthFail func()
}

// NewClient builds an API client for the server at baseURL. onAuthFail is
// invoked once per 401 response and may be nil.
func NewClient(baseURL string, token TokenSource, onAuthFail func()) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
		token:      token,
		onAuthFail: onAuthFail,
	}
}

// SetBaseURL repoints the client, e.g. after the user edits the server URL.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimRight(baseURL, "/")
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.token(); token != "" {
		req.Header.Set(common.AuthHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if c.onAuthFail != nil {
			c.onAuthFail()
		}
		return common.ErrUnauthorized
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response of %s %s: %w", method, path, err)
	}
	if env.Code != http.StatusOK {
		return fmt.Errorf("server: %s (code %d)", env.Message, env.Code)
	}
	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data of %s %s: %w", method, path, err)
		}
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return c.do(ctx, method, path, nil, bytes.NewReader(payload), "application/json", out)
}

// Login exchanges the operator password for an access token.
func (c *Client) Login(ctx context.Context, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/login", map[string]string{"password": password}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// CheckAuth verifies the stored token against the server.
func (c *Client) CheckAuth(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/check_auth", nil, nil, "", nil)
}

// UploadPage submits the page form as multipart/form-data. The artifact
// travels in the pageFile part; an optional screenshot travels alongside.
func (c *Client) UploadPage(ctx context.Context, form *capture.PageForm) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"title":    form.Title,
		"pageDesc": form.PageDesc,
		"pageUrl":  form.PageURL,
		"folderId": strconv.FormatInt(form.FolderID, 10),
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return err
		}
	}

	part, err := w.CreateFormFile("pageFile", "page.html")
	if err != nil {
		return err
	}
	if _, err := part.Write(form.Content); err != nil {
		return err
	}

	if len(form.Screenshot) > 0 {
		shot, err := w.CreateFormFile("screenshot", "screenshot.png")
		if err != nil {
			return err
		}
		if _, err := shot.Write(form.Screenshot); err != nil {
			return err
		}
	}

	if err := w.Close(); err != nil {
		return err
	}

	return c.do(ctx, http.MethodPost, "/upload_new_page", nil, &buf, w.FormDataContentType(), nil)
}

// QueryPages lists pages in a folder. pageNumber is 1-indexed; pass 0 for
// both pagination arguments to fetch the whole folder.
func (c *Client) QueryPages(ctx context.Context, folderID int64, pageNumber, pageSize int) ([]*capture.Page, error) {
	query := url.Values{"folderId": {strconv.FormatInt(folderID, 10)}}
	if pageNumber > 0 && pageSize > 0 {
		query.Set("pageNumber", strconv.Itoa(pageNumber))
		query.Set("pageSize", strconv.Itoa(pageSize))
	}

	var pages []*capture.Page
	if err := c.do(ctx, http.MethodGet, "/query", query, nil, "", &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

// GetPage fetches a single page by id. A soft-deleted or unknown id yields
// (nil, nil), mirroring the server's success/null contract.
func (c *Client) GetPage(ctx context.Context, id int64) (*capture.Page, error) {
	var page *capture.Page
	query := url.Values{"id": {strconv.FormatInt(id, 10)}}
	if err := c.do(ctx, http.MethodGet, "/get_page", query, nil, "", &page); err != nil {
		return nil, err
	}
	return page, nil
}

// DeletePage removes the metadata row. The stored blob stays behind.
func (c *Client) DeletePage(ctx context.Context, id int64) error {
	query := url.Values{"id": {strconv.FormatInt(id, 10)}}
	return c.do(ctx, http.MethodDelete, "/delete_page", query, nil, "", nil)
}

// UpdatePageFolder moves a page to another folder.
func (c *Client) UpdatePageFolder(ctx context.Context, id, folderID int64) error {
	in := map[string]int64{"id": id, "folderId": folderID}
	return c.doJSON(ctx, http.MethodPut, "/update_page", in, nil)
}

// AllFolders lists every folder.
func (c *Client) AllFolders(ctx context.Context) ([]*capture.Folder, error) {
	var folders []*capture.Folder
	if err := c.do(ctx, http.MethodGet, "/all_folders", nil, nil, "", &folders); err != nil {
		return nil, err
	}
	return folders, nil
}

// CreateFolder makes a new folder and returns it.
func (c *Client) CreateFolder(ctx context.Context, name string) (*capture.Folder, error) {
	var folder capture.Folder
	err := c.doJSON(ctx, http.MethodPost, "/create_folder", map[string]string{"name": name}, &folder)
	if err != nil {
		return nil, err
	}
	return &folder, nil
}
