package models

// Folder is a user-owned dossier. ParentID allows nesting but the current UI
// renders a flat list; SortOrder is ascending display order.
type Folder struct {
	ID        string  `json:"id"`
	UserID    string  `json:"-"`
	Name      string  `json:"name"`
	Icon      string  `json:"icon"`
	ParentID  *string `json:"parent_id"`
	SortOrder int     `json:"sort_order"`
}

// DefaultFolders is the fixed set created for a user whose dossier is empty
// on first load, in display order 1–6.
func DefaultFolders() []*Folder {
	return []*Folder{
		{Name: "Belastingen FR", Icon: "💶", SortOrder: 1},
		{Name: "Wonen", Icon: "🏠", SortOrder: 2},
		{Name: "Werk", Icon: "💼", SortOrder: 3},
		{Name: "Zorg", Icon: "🏥", SortOrder: 4},
		{Name: "Auto & Rijbewijs", Icon: "🚗", SortOrder: 5},
		{Name: "Praktisch", Icon: "🔧", SortOrder: 6},
	}
}
