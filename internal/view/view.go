// Package view holds pure presentation logic for the dashboard: grouping
// items under folders, icons and badges, expansion state and quick stats.
// It performs no I/O; callers feed it loaded folders and items.
package view

import "github.com/antonnoe/dossierfrankrijk/internal/server/models"

// nonToolSources are sources produced by people rather than tools. Anything
// outside this list is treated as machine output.
var nonToolSources = map[string]bool{
	"infofrankrijk": true,
	"forum":         true,
	"nedergids":     true,
	"extern":        true,
	"notitie":       true,
}

// BadgeStyle is a background/text color pair for a source badge.
type BadgeStyle struct {
	Background string
	Text       string
}

var sourceBadgeStyles = map[string]BadgeStyle{
	"infofrankrijk": {Background: "ifr-800", Text: "white"},
	"forum":         {Background: "blue-700", Text: "white"},
	"nedergids":     {Background: "green-700", Text: "white"},
	"extern":        {Background: "gray-500", Text: "white"},
	"notitie":       {Background: "yellow-500", Text: "black"},
}

// GroupByFolder maps folder identifiers to their items, preserving item
// order. Items whose folder is not in folders are left out entirely.
func GroupByFolder(folders []*models.Folder, items []*models.Item) map[string][]*models.Item {
	known := make(map[string]bool, len(folders))
	for _, f := range folders {
		known[f.ID] = true
	}

	grouped := make(map[string][]*models.Item)
	for _, item := range items {
		if !known[item.FolderID] {
			continue
		}
		grouped[item.FolderID] = append(grouped[item.FolderID], item)
	}
	return grouped
}

// IsToolOutput reports whether source marks an item as machine-generated.
func IsToolOutput(source string) bool {
	return source != "" && !nonToolSources[source]
}

// TypeIcon returns the icon for an item. Tool output always shows the gear,
// regardless of type.
func TypeIcon(itemType models.ItemType, source string) string {
	if IsToolOutput(source) {
		return "⚙️"
	}
	switch itemType {
	case models.ItemTypeArticle:
		return "📄"
	case models.ItemTypeExternal:
		return "🔗"
	case models.ItemTypeNote:
		return "📝"
	case models.ItemTypeChecklist:
		return "☑️"
	default:
		return "📎"
	}
}

// SummaryLabel returns the icon and caption shown above an item summary.
func SummaryLabel(source string) (icon, label string) {
	if IsToolOutput(source) {
		return "⚙️", "Tool Output"
	}
	return "🤖", "AI Samenvatting"
}

// SourceBadge returns the badge style for a source. Unknown sources get the
// extern style; an empty source gets no badge at all.
func SourceBadge(source string) (BadgeStyle, bool) {
	if source == "" {
		return BadgeStyle{}, false
	}
	if style, ok := sourceBadgeStyles[source]; ok {
		return style, true
	}
	return sourceBadgeStyles["extern"], true
}

// Stats are the dashboard quick-stat counters.
type Stats struct {
	TotalItems          int
	ActiveFolders       int
	CompletedChecklists int
	TotalChecklists     int
}

// ComputeStats derives the quick stats: item count, folders holding at least
// one item, and checklist completion.
func ComputeStats(folders []*models.Folder, items []*models.Item) Stats {
	stats := Stats{TotalItems: len(items)}

	itemsPerFolder := make(map[string]int)
	for _, item := range items {
		itemsPerFolder[item.FolderID]++
		if item.Type == models.ItemTypeChecklist {
			stats.TotalChecklists++
			if item.IsDone {
				stats.CompletedChecklists++
			}
		}
	}
	for _, f := range folders {
		if itemsPerFolder[f.ID] > 0 {
			stats.ActiveFolders++
		}
	}
	return stats
}
