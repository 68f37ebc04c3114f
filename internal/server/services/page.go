// Package services holds the application logic between the HTTP surface and
// the stores.
package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/akarpov87/pagevault/internal/capture"
	"github.com/akarpov87/pagevault/internal/common"
	"github.com/akarpov87/pagevault/internal/logging"
	"github.com/akarpov87/pagevault/internal/server/blob"
	"github.com/akarpov87/pagevault/internal/server/repositories/pages"
)

// PageService ingests captured pages and serves them back. A save writes the
// artifact blob first and the metadata row second, so every visible row
// always resolves to a readable artifact; a crash between the two steps can
// only leave an orphan blob, never a dangling row.
type PageService struct {
	pages  pages.Repository
	blobs  blob.Store
	logger logging.Logger
}

func NewPageService(repo pages.Repository, blobs blob.Store, logger logging.Logger) *PageService {
	return &PageService{pages: repo, blobs: blobs, logger: logger}
}

func validateForm(form *capture.PageForm) error {
	if form == nil {
		return fmt.Errorf("%w: empty form", common.ErrValidation)
	}
	if form.Title == "" {
		return fmt.Errorf("%w: title is required", common.ErrValidation)
	}
	if form.PageURL == "" {
		return fmt.Errorf("%w: pageUrl is required", common.ErrValidation)
	}
	if len(form.Content) == 0 {
		return fmt.Errorf("%w: page content is required", common.ErrValidation)
	}
	if form.FolderID < 0 {
		return fmt.Errorf("%w: invalid folderId", common.ErrValidation)
	}
	return nil
}

// SavePage validates the form, stores the artifact, then inserts the
// metadata row referencing it.
func (s *PageService) SavePage(ctx context.Context, form *capture.PageForm) (int64, error) {
	if err := validateForm(form); err != nil {
		return 0, err
	}

	key := uuid.New().String()
	if err := s.blobs.Put(ctx, key, form.Content); err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}

	page := &capture.Page{
		Title:      form.Title,
		PageDesc:   form.PageDesc,
		PageURL:    form.PageURL,
		ContentURL: key,
		FolderID:   form.FolderID,
	}
	id, err := s.pages.Insert(ctx, page)
	if err != nil {
		// The blob stays behind; a sweep job can reclaim unreferenced keys.
		s.logger.Error(ctx, "page row insert failed, blob orphaned", "key", key, "error", err.Error())
		return 0, fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}
	return id, nil
}

// Query lists a folder's pages, newest first.
func (s *PageService) Query(ctx context.Context, opts pages.ListOptions) ([]*capture.Page, error) {
	return s.pages.ListByFolder(ctx, opts)
}

// Get returns one page's metadata row.
func (s *PageService) Get(ctx context.Context, id int64) (*capture.Page, error) {
	return s.pages.GetByID(ctx, id)
}

// GetContent resolves the page row and then streams its stored artifact.
func (s *PageService) GetContent(ctx context.Context, id int64) ([]byte, error) {
	page, err := s.pages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := s.blobs.Get(ctx, page.ContentURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return data, nil
}

// UpdateFolder moves a page into another folder.
func (s *PageService) UpdateFolder(ctx context.Context, id, folderID int64) error {
	return s.pages.UpdateFolder(ctx, id, folderID)
}

// Delete removes the page row. The blob is left in place.
func (s *PageService) Delete(ctx context.Context, id int64) error {
	return s.pages.Delete(ctx, id)
}
