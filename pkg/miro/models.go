package miro

// Board item types as reported by the v2 items listing
const (
	ItemTypeImage      = "image"
	ItemTypeDocument   = "document"
	ItemTypeShape      = "shape"
	ItemTypeStickyNote = "sticky_note"
	ItemTypeText       = "text"
	ItemTypeFrame      = "frame"
	ItemTypeAppCard    = "app_card"
)

// DefaultScanTypes lists the item types scanned on every run. Documents are
// opt-in: they are usually large uploads that are not SVGs, and scanning
// them costs extra listing calls.
func DefaultScanTypes() []string {
	return []string{
		ItemTypeImage,
		ItemTypeShape,
		ItemTypeStickyNote,
		ItemTypeText,
		ItemTypeFrame,
		ItemTypeAppCard,
	}
}

// Item is a normalized board item. Data carries the item's raw type-specific
// payload untouched; the classifier decides what to make of it.
type Item struct {
	ID   string                 `json:"id"`
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data"`
}

// ItemsPage is one page of the board items listing
type ItemsPage struct {
	Data   []Item `json:"data"`
	Cursor string `json:"cursor"`
	Limit  int    `json:"limit"`
	Size   int    `json:"size"`
	Total  int    `json:"total"`
}
