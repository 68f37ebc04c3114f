package bus

// Message names carried over the channel. Each name is declared once with a
// fixed request and response shape; the shapes live next to the endpoint
// that answers the message.
const (
	// Content endpoint.
	MsgScrapePageData = "scrape-page-data"

	// Background endpoint.
	MsgGetCurrentPageData = "get-current-page-data"
	MsgAddSavePageTask    = "add-save-page-task"
	MsgCheckAuth          = "check-auth"
	MsgGetToken           = "get-token"
	MsgSetToken           = "set-token"
	MsgGetServerURL       = "get-server-url"
	MsgSetServerURL       = "set-server-url"
	MsgGetAllFolders      = "get-all-folders"

	// Background → popup, fire-and-forget.
	MsgScrapeProgress = "scrape-page-progress"
)
