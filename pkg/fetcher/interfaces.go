package fetcher

import "github.com/Blimmp/miro-svg-dl/pkg/miro"

// BoardClient is the surface of the Miro client the fetcher drives
type BoardClient interface {
	Items(boardID, itemType string) *miro.ItemIterator
	Fetch(url string) (*miro.FetchResponse, error)
}
