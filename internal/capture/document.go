package capture

// CaptureConfig holds options affecting extraction fidelity. The zero value
// produces a bare snapshot with external references left in place.
type CaptureConfig struct {
	// InlineImages embeds every <img> as a data URI.
	InlineImages bool
	// InlineStylesheets replaces stylesheet links with inline <style> blocks.
	InlineStylesheets bool
	// KeepScripts leaves <script> elements in the snapshot. Off by default:
	// an archived page should not execute anything on open.
	KeepScripts bool
}

// ExtractedDocument is the immutable result of one successful capture.
// Content holds the serialized, self-contained representation of the page.
type ExtractedDocument struct {
	Title    string `json:"title"`
	Href     string `json:"href"`
	PageDesc string `json:"pageDesc"`
	Content  string `json:"content"`
}

// PageForm is the user-editable envelope wrapping an extracted document plus
// a target folder. It is the payload submitted to the ingestion service.
// Screenshot is optional and may be nil.
type PageForm struct {
	Title      string
	PageDesc   string
	PageURL    string
	Content    []byte
	FolderID   int64
	Screenshot []byte
}
