// Package classify decides which board items plausibly carry an SVG asset.
//
// Classification is a pure inspection of already-fetched item metadata; it
// never touches the network. One item yields at most one candidate.
package classify

import (
	"strings"

	"github.com/Blimmp/miro-svg-dl/pkg/miro"
)

// Candidate is an item worth probing for SVG content
type Candidate struct {
	ItemID       string
	ItemType     string
	DeclaredName string
	// URLs are the item's direct download URLs in discovery order; the
	// probe resolver expands each into format variants.
	URLs []string
}

// Field orderings are fixed so classification is deterministic regardless
// of JSON map iteration order.
var (
	// mediaURLKeys are the URL-bearing fields of image and document items
	mediaURLKeys = []string{"imageUrl", "documentUrl", "url", "previewUrl", "data"}

	// attachmentURLKeys are the explicit file/image references the
	// remaining item types occasionally carry
	attachmentURLKeys = []string{"imageUrl", "fileUrl", "resourceUrl"}

	nameKeys = []string{"title", "name"}
)

// Classify inspects a normalized board item and returns an SVG candidate,
// or false when the item cannot host an SVG. The decision depends only on
// the record itself.
func Classify(item miro.Item) (*Candidate, bool) {
	var urls []string

	switch item.Type {
	case miro.ItemTypeImage, miro.ItemTypeDocument:
		// Media items: any URL-like field makes them worth probing.
		urls = collectURLs(item.Data, mediaURLKeys)

	case miro.ItemTypeShape, miro.ItemTypeStickyNote, miro.ItemTypeText,
		miro.ItemTypeFrame, miro.ItemTypeAppCard:
		// These rarely carry SVGs, but an explicit attachment or image
		// fill is occasionally one.
		urls = collectURLs(item.Data, attachmentURLKeys)
		if fill, ok := item.Data["fill"].(map[string]interface{}); ok {
			if u, ok := urlField(fill, "imageUrl"); ok {
				urls = append(urls, u)
			}
		}

	default:
		return nil, false
	}

	if len(urls) == 0 {
		return nil, false
	}

	return &Candidate{
		ItemID:       item.ID,
		ItemType:     item.Type,
		DeclaredName: declaredName(item.Data),
		URLs:         urls,
	}, true
}

// collectURLs gathers URL-valued fields in the given key order, deduplicated
func collectURLs(data map[string]interface{}, keys []string) []string {
	var urls []string
	seen := make(map[string]bool)

	for _, key := range keys {
		u, ok := urlField(data, key)
		if !ok || seen[u] {
			continue
		}
		seen[u] = true
		urls = append(urls, u)
	}

	return urls
}

// urlField returns data[key] if it holds a fetchable URL
func urlField(data map[string]interface{}, key string) (string, bool) {
	s, ok := data[key].(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return "", false
	}
	return s, true
}

// declaredName extracts and sanitizes the item's declared filename
func declaredName(data map[string]interface{}) string {
	for _, key := range nameKeys {
		if s, ok := data[key].(string); ok {
			if name := SanitizeFilename(s); name != "" {
				return name
			}
		}
	}
	return ""
}

// SanitizeFilename strips path separators, null bytes and characters that
// are unsafe on common filesystems. An empty result means the item has no
// usable declared filename.
func SanitizeFilename(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	for _, r := range name {
		switch r {
		case '/', '\\', 0, '<', '>', ':', '"', '|', '?', '*':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}

	return strings.Trim(b.String(), ". ")
}
