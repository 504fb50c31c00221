// Package cli implements the interactive terminal client for the dossier
// server: passwordless login via magic link, dashboard browsing and item
// management.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/antonnoe/dossierfrankrijk/internal/client/api"
	"github.com/antonnoe/dossierfrankrijk/internal/client/composer"
	"github.com/antonnoe/dossierfrankrijk/internal/client/config"
	"github.com/antonnoe/dossierfrankrijk/internal/client/session"
	"github.com/antonnoe/dossierfrankrijk/internal/server/models"
	"github.com/antonnoe/dossierfrankrijk/internal/view"
)

type App struct {
	config *config.Config
	api    *api.Client
	store  *session.Store
	bridge *session.Bridge
	reader *bufio.Reader
}

func NewApp(c *config.Config) *App {
	apiClient := api.NewClient(c.ServerEndpointAddr)
	store := session.NewStore()

	return &App{
		config: c,
		api:    apiClient,
		store:  store,
		bridge: session.NewBridge(apiClient, store),
		reader: bufio.NewReader(os.Stdin),
	}
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.store.Current() != nil
}

// Login asks the server to mail a magic link, then completes the flow with
// the URL the user pastes back from the email.
func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Email address", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.api.RequestMagicLink(ctx, email); err != nil {
		fmt.Println("Could not send the login link:", err)
		return err
	}
	fmt.Println("Check your mail. The link looks like .../auth/callback?code=...")

	landed, err := GetSimpleText(a.reader, "Paste the link here", os.Stdout)
	if err != nil {
		return err
	}

	outcome, err := a.bridge.Resolve(ctx, landed)
	if outcome != session.OutcomeDashboard {
		fmt.Println("Login did not complete, please try again.")
		return err
	}

	if current := a.store.Current(); current != nil {
		fmt.Println("Logged in as", current.Email)
	}
	return nil
}

// List prints the dashboard: quick stats, then folders with their items.
func (a *App) List(ctx context.Context) error {
	dash, err := a.api.Dashboard(ctx)
	if err != nil {
		fmt.Println("Could not load the dashboard:", err)
		return err
	}

	stats := view.ComputeStats(dash.Folders, dash.Items)
	fmt.Printf("Items: %d | Active folders: %d | Tasks done: %d/%d\n",
		stats.TotalItems, stats.ActiveFolders, stats.CompletedChecklists, stats.TotalChecklists)

	grouped := view.GroupByFolder(dash.Folders, dash.Items)
	for _, folder := range dash.Folders {
		fmt.Printf("%s %s\n", folder.Icon, folder.Name)
		for _, item := range grouped[folder.ID] {
			mark := " "
			if item.Type == models.ItemTypeChecklist && item.IsDone {
				mark = "✓"
			}
			fmt.Printf("  [%s] %s %s  (%s)\n", mark, view.TypeIcon(item.Type, item.Source), item.Title, item.ID)
		}
	}
	return nil
}

// Add walks through the composer form and stores the item.
func (a *App) Add(ctx context.Context) error {
	dash, err := a.api.Dashboard(ctx)
	if err != nil || len(dash.Folders) == 0 {
		fmt.Println("Could not load folders.")
		return err
	}

	for i, folder := range dash.Folders {
		fmt.Printf("%d. %s %s\n", i+1, folder.Icon, folder.Name)
	}
	idx, err := GetNumber(a.reader, "Folder number", os.Stdout)
	if err != nil || idx < 1 || idx > len(dash.Folders) {
		fmt.Println("Invalid folder.")
		return err
	}

	draft := composer.NewDraft(dash.Folders[idx-1].ID)

	kind, err := GetSimpleText(a.reader, "Type (article/external/note/checklist)", os.Stdout)
	if err != nil {
		return err
	}
	if kind != "" {
		draft.Type = models.ItemType(kind)
	}

	if draft.Title, err = GetSimpleText(a.reader, "Title", os.Stdout); err != nil {
		return err
	}

	switch draft.Type {
	case models.ItemTypeArticle, models.ItemTypeExternal:
		if draft.URL, err = GetSimpleText(a.reader, "URL", os.Stdout); err != nil {
			return err
		}
		if draft.Source, err = GetSimpleText(a.reader, "Source (infofrankrijk/forum/nedergids/extern)", os.Stdout); err != nil {
			return err
		}
	case models.ItemTypeNote:
		if draft.NoteContent, err = GetMultiline(a.reader, "Note", os.Stdout); err != nil {
			return err
		}
	}

	payload, err := draft.Validate()
	if err != nil {
		fmt.Println("Invalid item:", err)
		return err
	}

	item, err := a.api.AddItem(ctx, payload)
	if err != nil {
		fmt.Println("Could not save the item:", err)
		return err
	}
	fmt.Println("Saved", item.ID)
	return nil
}

// Toggle flips a checklist item's completion flag.
func (a *App) Toggle(ctx context.Context) error {
	itemID, err := GetSimpleText(a.reader, "Item id", os.Stdout)
	if err != nil {
		return err
	}
	done, err := GetSimpleText(a.reader, "Done? (y/n)", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.api.ToggleChecklist(ctx, itemID, done == "y"); err != nil {
		fmt.Println("Could not update the item:", err)
		return err
	}
	return nil
}

// Delete removes one item.
func (a *App) Delete(ctx context.Context) error {
	itemID, err := GetSimpleText(a.reader, "Item id", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.api.DeleteItem(ctx, itemID); err != nil {
		fmt.Println("Could not delete the item:", err)
		return err
	}
	return nil
}

// Archive uploads a local file as the archived copy of an item.
func (a *App) Archive(ctx context.Context) error {
	itemID, err := GetSimpleText(a.reader, "Item id", os.Stdout)
	if err != nil {
		return err
	}
	path, err := GetSimpleText(a.reader, "File to archive", os.Stdout)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Println("Could not read the file:", err)
		return err
	}

	if err := a.api.UploadSnapshot(ctx, itemID, content); err != nil {
		fmt.Println("Could not archive the item:", err)
		return err
	}
	fmt.Println("Archived.")
	return nil
}

// Fetch prints a download link for an item's archived copy.
func (a *App) Fetch(ctx context.Context) error {
	itemID, err := GetSimpleText(a.reader, "Item id", os.Stdout)
	if err != nil {
		return err
	}

	url, err := a.api.SnapshotDownloadURL(ctx, itemID)
	if err != nil {
		fmt.Println("No archived copy:", err)
		return err
	}
	fmt.Println(url)
	return nil
}

// Logout revokes the refresh token and clears the local session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.api.Logout(ctx); err != nil {
		fmt.Println("Logout reported an error:", err)
	}
	a.store.Set(nil)
	fmt.Println("Logged out.")
	return nil
}
