// Package composer turns the add-item form state into a validated creation
// payload. It mirrors the modal form: a type picker, a title, and per-type
// extra fields.
package composer

import (
	"strings"

	"github.com/antonnoe/dossierfrankrijk/internal/common"
	"github.com/antonnoe/dossierfrankrijk/internal/server/models"
)

// DefaultSource is the preselected source for link-bearing items.
const DefaultSource = "extern"

// Draft is the raw form state before validation.
type Draft struct {
	FolderID    string
	Type        models.ItemType
	Title       string
	URL         string
	NoteContent string
	Source      string
}

// NewDraft starts a draft for the given folder with the form defaults.
func NewDraft(folderID string) *Draft {
	return &Draft{
		FolderID: folderID,
		Type:     models.ItemTypeArticle,
		Source:   DefaultSource,
	}
}

// Validate checks the draft and shapes it into a creation payload. A blank
// title after trimming is rejected before anything leaves the client. Fields
// that do not belong to the chosen type are dropped, not errored on.
func (d *Draft) Validate() (*models.ItemDraft, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return nil, common.ErrorValidation
	}
	if !d.Type.Valid() {
		return nil, common.ErrorValidation
	}
	if d.FolderID == "" {
		return nil, common.ErrorIncorrectFolder
	}

	payload := &models.ItemDraft{
		FolderID: d.FolderID,
		Type:     d.Type,
		Title:    title,
	}

	switch d.Type {
	case models.ItemTypeArticle, models.ItemTypeExternal:
		payload.URL = strings.TrimSpace(d.URL)
		payload.Source = d.Source
		if payload.Source == "" {
			payload.Source = DefaultSource
		}
	case models.ItemTypeNote:
		payload.NoteContent = strings.TrimSpace(d.NoteContent)
	}

	return payload, nil
}
