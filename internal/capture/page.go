package capture

import "time"

// Page is the persisted metadata row for one stored artifact. ContentURL is
// an opaque random key into the blob store, not a content hash.
type Page struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	PageDesc   string    `json:"pageDesc"`
	PageURL    string    `json:"pageUrl"`
	ContentURL string    `json:"contentUrl"`
	FolderID   int64     `json:"folderId"`
	IsDeleted  bool      `json:"isDeleted"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Folder is a flat, non-nested grouping for pages. ID 0 means unfiled.
type Folder struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
