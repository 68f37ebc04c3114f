package services

import (
	"context"
	"fmt"

	"github.com/akarpov87/pagevault/internal/capture"
	"github.com/akarpov87/pagevault/internal/common"
	"github.com/akarpov87/pagevault/internal/server/repositories/folders"
)

// FolderService manages the folder catalogue.
type FolderService struct {
	folders folders.Repository
}

func NewFolderService(repo folders.Repository) *FolderService {
	return &FolderService{folders: repo}
}

// List returns every folder.
func (s *FolderService) List(ctx context.Context) ([]*capture.Folder, error) {
	return s.folders.List(ctx)
}

// Create adds a folder and returns it with its assigned id.
func (s *FolderService) Create(ctx context.Context, name string) (*capture.Folder, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: folder name is required", common.ErrValidation)
	}
	id, err := s.folders.Insert(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}
	return &capture.Folder{ID: id, Name: name}, nil
}
