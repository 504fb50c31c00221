package models

import "time"

// ItemType enumerates the kinds of saved items. Wire names match the stored
// column values.
type ItemType string

const (
	ItemTypeArticle   ItemType = "article"
	ItemTypeExternal  ItemType = "external"
	ItemTypeNote      ItemType = "note"
	ItemTypeChecklist ItemType = "checklist"
)

// Valid reports whether t is one of the known item types.
func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeArticle, ItemTypeExternal, ItemTypeNote, ItemTypeChecklist:
		return true
	}
	return false
}

// Item is a single saved entry inside a folder. URL, NoteContent and Source
// are optional; IsDone is meaningful only for checklist items. Metadata is a
// free-form map, never nil once loaded.
type Item struct {
	ID          string         `json:"id"`
	UserID      string         `json:"-"`
	FolderID    string         `json:"folder_id"`
	Type        ItemType       `json:"type"`
	Title       string         `json:"title"`
	URL         string         `json:"url,omitempty"`
	NoteContent string         `json:"note_content,omitempty"`
	Source      string         `json:"source,omitempty"`
	IsDone      bool           `json:"is_done"`
	Metadata    map[string]any `json:"metadata"`
	CreatedAt   time.Time      `json:"created_at"`
}

// ItemDraft is the payload the composer submits to create an item.
type ItemDraft struct {
	FolderID    string         `json:"folder_id"`
	Type        ItemType       `json:"type"`
	Title       string         `json:"title"`
	URL         string         `json:"url,omitempty"`
	NoteContent string         `json:"note_content,omitempty"`
	Source      string         `json:"source,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}
