package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/akarpov87/pagevault/internal/capture"
	"github.com/akarpov87/pagevault/internal/common"
	"github.com/akarpov87/pagevault/internal/server/repositories/pages"
)

const maxUploadSize = 64 << 20

// parseOptionalInt treats an empty value as 0 and rejects anything that is
// present but not numeric.
func parseOptionalInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func (s *Server) handleUploadPage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		failure(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	// The folder id is validated here, before the service runs, so a bad
	// form never reaches the blob store. An absent folderId is rejected too.
	folderID, err := strconv.ParseInt(r.FormValue("folderId"), 10, 64)
	if err != nil {
		failure(w, http.StatusBadRequest, "folder id should be a number")
		return
	}
	form := &capture.PageForm{
		Title:    r.FormValue("title"),
		PageDesc: r.FormValue("pageDesc"),
		PageURL:  r.FormValue("pageUrl"),
		FolderID: folderID,
	}

	if file, _, err := r.FormFile("pageFile"); err == nil {
		form.Content, err = io.ReadAll(file)
		file.Close()
		if err != nil {
			failure(w, http.StatusBadRequest, "unreadable page file")
			return
		}
	}
	if shot, _, err := r.FormFile("screenshot"); err == nil {
		form.Screenshot, _ = io.ReadAll(shot)
		shot.Close()
	}

	id, err := s.pages.SavePage(r.Context(), form)
	if err != nil {
		s.writePageError(w, r, err)
		return
	}
	success(w, map[string]int64{"id": id})
}

func (s *Server) handleQueryPages(w http.ResponseWriter, r *http.Request) {
	folderID, err := strconv.ParseInt(r.URL.Query().Get("folderId"), 10, 64)
	if err != nil {
		failure(w, http.StatusBadRequest, "invalid folderId")
		return
	}
	pageNumber, err := parseOptionalInt(r.URL.Query().Get("pageNumber"))
	if err != nil {
		failure(w, http.StatusBadRequest, "invalid pageNumber")
		return
	}
	pageSize, err := parseOptionalInt(r.URL.Query().Get("pageSize"))
	if err != nil {
		failure(w, http.StatusBadRequest, "invalid pageSize")
		return
	}

	result, err := s.pages.Query(r.Context(), pages.ListOptions{
		FolderID:   folderID,
		PageNumber: pageNumber,
		PageSize:   pageSize,
	})
	if err != nil {
		s.writePageError(w, r, err)
		return
	}
	if result == nil {
		result = []*capture.Page{}
	}
	success(w, result)
}

func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		failure(w, http.StatusBadRequest, "invalid id")
		return
	}

	page, err := s.pages.Get(r.Context(), id)
	if errors.Is(err, common.ErrNotFound) {
		// An unknown or deleted id is not an error on this endpoint.
		success(w, nil)
		return
	}
	if err != nil {
		s.writePageError(w, r, err)
		return
	}
	success(w, page)
}

// handlePageContent streams the raw stored artifact, bypassing the JSON
// envelope so a browser can render it directly.
func (s *Server) handlePageContent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		failure(w, http.StatusBadRequest, "invalid id")
		return
	}

	data, err := s.pages.GetContent(r.Context(), id)
	if errors.Is(err, common.ErrNotFound) {
		failure(w, http.StatusNotFound, "page not found")
		return
	}
	if err != nil {
		s.writePageError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}

func (s *Server) handleDeletePage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		failure(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.pages.Delete(r.Context(), id); err != nil {
		s.writePageError(w, r, err)
		return
	}
	success(w, nil)
}

type updatePageRequest struct {
	ID       int64  `json:"id"`
	FolderID *int64 `json:"folderId"`
}

func (s *Server) handleUpdatePage(w http.ResponseWriter, r *http.Request) {
	var req updatePageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		failure(w, http.StatusBadRequest, "invalid request body")
		return
	}
	// The folder is the only mutable field; a request without one succeeds
	// without touching the row.
	if req.FolderID == nil {
		success(w, nil)
		return
	}
	if err := s.pages.UpdateFolder(r.Context(), req.ID, *req.FolderID); err != nil {
		s.writePageError(w, r, err)
		return
	}
	success(w, nil)
}

func (s *Server) writePageError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrValidation):
		failure(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrNotFound):
		failure(w, http.StatusNotFound, err.Error())
	default:
		s.logger.Error(r.Context(), "page operation failed", "error", err.Error())
		failure(w, http.StatusInternalServerError, "internal error")
	}
}
