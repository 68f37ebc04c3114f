package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/akarpov87/pagevault/internal/capture"
)

func (a *App) Login(ctx context.Context) {
	password, err := GetPassword(os.Stdout)
	if err != nil {
		fmt.Println("Error reading password:", err)
		return
	}

	token, err := a.api.Login(ctx, string(password))
	if err != nil {
		fmt.Println("Login failed:", err)
		return
	}

	if err := a.controller.SetToken(ctx, token); err != nil {
		fmt.Println("Error storing token:", err)
		return
	}
	fmt.Println("Logged in")
}

func (a *App) Logout(ctx context.Context) {
	if err := a.controller.SetToken(ctx, ""); err != nil {
		fmt.Println("Error clearing token:", err)
		return
	}
	fmt.Println("Logged out")
}

// Save captures the page at the given URL and uploads it. The document's
// title can be edited before the upload, mirroring the popup form.
func (a *App) Save(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: save <url> [folderId]")
		return
	}
	pageURL := args[0]

	var folderID int64
	if len(args) > 1 {
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			fmt.Println("Folder id should be a number")
			return
		}
		folderID = id
	}

	tab := a.tabs.Open(pageURL)
	defer a.tabs.Close(tab.ID)

	a.controller.OnStage(func(stage capture.LoadStage) {
		fmt.Println("  stage:", stage)
	})
	defer a.controller.OnStage(nil)

	fmt.Println("Scraping page data...")
	doc, err := a.controller.CapturePage(ctx, tab.ID, capture.CaptureConfig{
		InlineImages:      a.config.InlineImages,
		InlineStylesheets: a.config.InlineStylesheets,
	})
	if err != nil {
		fmt.Println("Capture failed:", err)
		return
	}

	title, err := GetSimpleText(a.reader, fmt.Sprintf("Title [%s]:", doc.Title), os.Stdout)
	if err == nil && title != "" {
		doc.Title = title
	}

	fmt.Println("Saving page...")
	err = a.controller.SavePage(ctx, &capture.PageForm{
		Title:    doc.Title,
		PageDesc: doc.PageDesc,
		PageURL:  doc.Href,
		Content:  []byte(doc.Content),
		FolderID: folderID,
	})
	if err != nil {
		fmt.Println("Save failed:", err)
		return
	}
	fmt.Println("Saved")
}

func (a *App) List(ctx context.Context, args []string) {
	var folderID int64
	if len(args) > 0 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fmt.Println("Folder id should be a number")
			return
		}
		folderID = id
	}

	pages, err := a.api.QueryPages(ctx, folderID, 0, 0)
	if err != nil {
		fmt.Println("Error listing pages:", err)
		return
	}
	if len(pages) == 0 {
		fmt.Println("No pages")
		return
	}
	for _, p := range pages {
		fmt.Printf("%d\t%s\t%s\n", p.ID, p.Title, p.PageURL)
	}
}

func (a *App) Folders(ctx context.Context) {
	folders, err := a.controller.Folders(ctx)
	if err != nil {
		fmt.Println("Error listing folders:", err)
		return
	}
	fmt.Println("0\t(unfiled)")
	for _, f := range folders {
		fmt.Printf("%d\t%s\n", f.ID, f.Name)
	}
}

func (a *App) MakeFolder(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: mkdir <name>")
		return
	}
	folder, err := a.api.CreateFolder(ctx, args[0])
	if err != nil {
		fmt.Println("Error creating folder:", err)
		return
	}
	fmt.Printf("Created folder %d (%s)\n", folder.ID, folder.Name)
}

func (a *App) Move(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Println("Usage: move <id> <folderId>")
		return
	}
	id, err1 := strconv.ParseInt(args[0], 10, 64)
	folderID, err2 := strconv.ParseInt(args[1], 10, 64)
	if err1 != nil || err2 != nil {
		fmt.Println("Both arguments should be numbers")
		return
	}
	if err := a.api.UpdatePageFolder(ctx, id, folderID); err != nil {
		fmt.Println("Error moving page:", err)
		return
	}
	fmt.Println("Moved")
}

func (a *App) Delete(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: delete <id>")
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Println("Id should be a number")
		return
	}
	if err := a.api.DeletePage(ctx, id); err != nil {
		fmt.Println("Error deleting page:", err)
		return
	}
	fmt.Println("Deleted")
}

func (a *App) Server(ctx context.Context, args []string) {
	if len(args) == 0 {
		u, err := a.controller.ServerURL(ctx)
		if err != nil {
			fmt.Println("Error reading server URL:", err)
			return
		}
		if u == "" {
			u = a.config.ServerURL
		}
		fmt.Println(u)
		return
	}
	if err := a.controller.SetServerURL(ctx, args[0]); err != nil {
		fmt.Println("Error storing server URL:", err)
		return
	}
	fmt.Println("Server URL updated")
}
