package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/akarpov87/pagevault/internal/capture"
	"github.com/akarpov87/pagevault/internal/common"
)

func (s *Server) handleAllFolders(w http.ResponseWriter, r *http.Request) {
	result, err := s.folders.List(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), "folder list failed", "error", err.Error())
		failure(w, http.StatusInternalServerError, "internal error")
		return
	}
	if result == nil {
		result = []*capture.Folder{}
	}
	success(w, result)
}

type createFolderRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateFolder(w http.ResponseWriter, r *http.Request) {
	var req createFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		failure(w, http.StatusBadRequest, "invalid request body")
		return
	}

	folder, err := s.folders.Create(r.Context(), req.Name)
	if errors.Is(err, common.ErrValidation) {
		failure(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.logger.Error(r.Context(), "folder create failed", "error", err.Error())
		failure(w, http.StatusInternalServerError, "internal error")
		return
	}
	success(w, folder)
}
