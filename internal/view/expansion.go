package view

// ExpansionState tracks which folders and item summaries are open. The two
// sets are independent and live only for the current page view.
type ExpansionState struct {
	folders map[string]bool
	items   map[string]bool
}

// NewExpansionState starts with the first folder open and everything else
// closed.
func NewExpansionState(firstFolderID string) *ExpansionState {
	s := &ExpansionState{
		folders: make(map[string]bool),
		items:   make(map[string]bool),
	}
	if firstFolderID != "" {
		s.folders[firstFolderID] = true
	}
	return s
}

// ToggleFolder flips one folder open or closed.
func (s *ExpansionState) ToggleFolder(folderID string) {
	if s.folders[folderID] {
		delete(s.folders, folderID)
		return
	}
	s.folders[folderID] = true
}

// ToggleItem flips one item summary open or closed.
func (s *ExpansionState) ToggleItem(itemID string) {
	if s.items[itemID] {
		delete(s.items, itemID)
		return
	}
	s.items[itemID] = true
}

func (s *ExpansionState) FolderExpanded(folderID string) bool {
	return s.folders[folderID]
}

func (s *ExpansionState) ItemExpanded(itemID string) bool {
	return s.items[itemID]
}
