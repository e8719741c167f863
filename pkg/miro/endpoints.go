package miro

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultBaseURL is the base URL for the Miro REST API
	DefaultBaseURL = "https://api.miro.com/v2"

	// DefaultPageLimit is the number of items requested per listing page
	DefaultPageLimit = 50
)

// ItemsURL constructs the URL for the first page of a board's item listing,
// filtered to a single item type.
func ItemsURL(baseURL, boardID, itemType string, limit int) string {
	if limit <= 0 {
		limit = DefaultPageLimit
	}

	params := url.Values{}
	params.Set("type", itemType)
	params.Set("limit", strconv.Itoa(limit))

	return fmt.Sprintf("%s/boards/%s/items?%s", baseURL, url.PathEscape(boardID), params.Encode())
}

// ItemsCursorURL constructs the URL for a continuation page
func ItemsCursorURL(baseURL, boardID, cursor string) string {
	params := url.Values{}
	params.Set("cursor", cursor)

	return fmt.Sprintf("%s/boards/%s/items?%s", baseURL, url.PathEscape(boardID), params.Encode())
}

// IsValidBoardID checks whether a board ID looks like the short alphanumeric
// ID from a board URL. Miro IDs may carry '=' padding, '_' and '-'.
func IsValidBoardID(boardID string) bool {
	if boardID == "" || len(boardID) > 64 {
		return false
	}

	for _, char := range boardID {
		if !((char >= 'a' && char <= 'z') ||
			(char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') ||
			char == '=' || char == '_' || char == '-') {
			return false
		}
	}

	return true
}

// SanitizeBoardID strips the decorations users paste along with a board ID
func SanitizeBoardID(boardID string) string {
	if boardID == "" {
		return ""
	}

	// Accept a full board URL and take the last path segment
	if u, err := url.Parse(boardID); err == nil && u.Host != "" {
		path := strings.TrimRight(u.Path, "/")
		if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
			boardID = path[idx+1:]
		}
	}

	return strings.TrimRight(boardID, "/ ")
}
