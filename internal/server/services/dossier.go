package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/antonnoe/dossierfrankrijk/internal/common"
	"github.com/antonnoe/dossierfrankrijk/internal/logging"
	"github.com/antonnoe/dossierfrankrijk/internal/server/models"
	"github.com/antonnoe/dossierfrankrijk/internal/server/repositories/repomanager"
)

// Dashboard is everything one user sees: folders in sort order and items
// newest first.
type Dashboard struct {
	Folders []*models.Folder
	Items   []*models.Item
}

// DossierService is the single source of truth for one user's folders and
// items. Reads degrade to empty on failure; writes fail loudly and leave
// state untouched.
type DossierService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

// NewDossierService constructs a DossierService.
func NewDossierService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *DossierService {
	return &DossierService{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "dossier"),
	}
}

// LoadAll returns the user's folders and items. A user with zero folders gets
// the fixed default set, created on the spot, and sees the insert result.
// Read failures are logged and degrade to an empty list for that entity,
// never to an error.
func (s *DossierService) LoadAll(ctx context.Context, userID string) *Dashboard {
	dash := &Dashboard{}

	folderRepo := s.repomanager.Folders(s.db)
	folders, err := folderRepo.SelectByUser(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "error loading folders", "error", err.Error())
		folders = nil
	} else if len(folders) == 0 {
		folders, err = folderRepo.CreateAll(ctx, userID, models.DefaultFolders())
		if err != nil {
			s.logger.Error(ctx, "error creating default folders", "error", err.Error())
			folders = nil
		}
	}
	dash.Folders = folders

	items, err := s.repomanager.Items(s.db).SelectByUser(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "error loading items", "error", err.Error())
		items = nil
	}
	dash.Items = items

	return dash
}

// AddItem validates and stores a draft, returning the stored row. A blank
// title after trimming never reaches the database.
func (s *DossierService) AddItem(ctx context.Context, userID string, draft *models.ItemDraft) (*models.Item, error) {
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return nil, common.ErrorValidation
	}
	if !draft.Type.Valid() {
		return nil, common.ErrorValidation
	}
	if draft.FolderID == "" {
		return nil, common.ErrorIncorrectFolder
	}

	metadata := draft.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	item := &models.Item{
		UserID:      userID,
		FolderID:    draft.FolderID,
		Type:        draft.Type,
		Title:       title,
		URL:         strings.TrimSpace(draft.URL),
		NoteContent: strings.TrimSpace(draft.NoteContent),
		Source:      draft.Source,
		IsDone:      false,
		Metadata:    metadata,
	}

	created, err := s.repomanager.Items(s.db).Create(ctx, item)
	if err != nil {
		s.logger.Error(ctx, "error adding item", "error", err.Error())
		return nil, fmt.Errorf("error creating item: %w", err)
	}
	return created, nil
}

// ToggleChecklist sets the completion flag of one item.
func (s *DossierService) ToggleChecklist(ctx context.Context, userID, itemID string, done bool) error {
	if err := s.repomanager.Items(s.db).SetDone(ctx, userID, itemID, done); err != nil {
		s.logger.Error(ctx, "error updating item", "item_id", itemID, "error", err.Error())
		return err
	}
	return nil
}

// DeleteItem removes one item by identifier.
func (s *DossierService) DeleteItem(ctx context.Context, userID, itemID string) error {
	if err := s.repomanager.Items(s.db).Delete(ctx, userID, itemID); err != nil {
		s.logger.Error(ctx, "error deleting item", "item_id", itemID, "error", err.Error())
		return err
	}
	return nil
}
