// Package probe resolves an SVG candidate to actual SVG bytes.
//
// The listing API often hands back a thumbnail or preview URL rather than
// the uploaded original. For each of a candidate's direct URLs the resolver
// therefore tries an ordered chain of query-parameter variants, lazily,
// stopping at the first response that validates as SVG. Misses are the
// common case and are never errors.
package probe

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/Blimmp/miro-svg-dl/pkg/classify"
	"github.com/Blimmp/miro-svg-dl/pkg/logger"
	"github.com/Blimmp/miro-svg-dl/pkg/miro"
)

// ErrNoSVG reports that no URL variant of a candidate yielded validated SVG
// content. This is an expected per-item outcome, counted but not logged as
// a failure.
var ErrNoSVG = errors.New("no svg content found")

// DefaultMutations are the query strings appended to a candidate's bare URL,
// in probing order. The set is tuned against the API's observed behavior and
// overridable through configuration rather than contract.
var DefaultMutations = []string{
	"format=original&redirect=true",
	"redirect=true",
	"format=original",
}

// sniffWindow bounds how far into a body the validator looks for an <svg>
// root after an XML prolog.
const sniffWindow = 512

// Fetcher is the rate-limited fetch operation the resolver probes with
type Fetcher interface {
	Fetch(url string) (*miro.FetchResponse, error)
}

// Result is a successfully retrieved SVG
type Result struct {
	Content   []byte
	SourceURL string
}

// Resolver probes candidate URLs for SVG content
type Resolver struct {
	fetcher   Fetcher
	mutations []string
	logger    logger.Logger
}

// NewResolver creates a resolver. A nil or empty mutations list selects
// DefaultMutations.
func NewResolver(fetcher Fetcher, mutations []string, log logger.Logger) *Resolver {
	if len(mutations) == 0 {
		mutations = DefaultMutations
	}
	if log == nil {
		log = logger.GetLogger()
	}
	return &Resolver{
		fetcher:   fetcher,
		mutations: mutations,
		logger:    log,
	}
}

// Resolve tries each URL variant in order and returns the first validated
// SVG. Any failure along the way (non-2xx status, transport error, non-SVG
// body) just advances the chain; exhaustion returns ErrNoSVG.
func (r *Resolver) Resolve(candidate *classify.Candidate) (*Result, error) {
	for _, variant := range r.Variants(candidate) {
		resp, err := r.fetcher.Fetch(variant)
		if err != nil {
			r.logger.DebugWithFields("probe transport failure", map[string]interface{}{
				"item_id": candidate.ItemID,
				"url":     variant,
				"error":   err.Error(),
			})
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			r.logger.DebugWithFields("probe miss", map[string]interface{}{
				"item_id": candidate.ItemID,
				"url":     variant,
				"status":  resp.StatusCode,
			})
			continue
		}

		if !IsSVG(resp.ContentType, resp.Body) {
			r.logger.DebugWithFields("probe hit non-svg content", map[string]interface{}{
				"item_id":      candidate.ItemID,
				"url":          variant,
				"content_type": resp.ContentType,
				"preview":      bodyPreview(resp.Body),
			})
			continue
		}

		r.logger.DebugWithFields("probe found svg", map[string]interface{}{
			"item_id": candidate.ItemID,
			"url":     variant,
			"size":    len(resp.Body),
		})

		return &Result{Content: resp.Body, SourceURL: variant}, nil
	}

	return nil, ErrNoSVG
}

// Variants expands a candidate's direct URLs into the ordered probe list:
// per URL, the query-stripped base with each mutation, then the bare base,
// then the URL exactly as listed. Duplicates are dropped, order kept.
func (r *Resolver) Variants(candidate *classify.Candidate) []string {
	var variants []string
	seen := make(map[string]bool)

	add := func(u string) {
		if u != "" && !seen[u] {
			seen[u] = true
			variants = append(variants, u)
		}
	}

	for _, src := range candidate.URLs {
		base := src
		if idx := strings.IndexByte(base, '?'); idx >= 0 {
			base = base[:idx]
		}

		for _, mutation := range r.mutations {
			add(fmt.Sprintf("%s?%s", base, mutation))
		}
		add(base)
		add(src)
	}

	return variants
}

// IsSVG validates retrieved bytes. A declared svg content type is trusted;
// otherwise the first non-whitespace bytes must open an SVG root, either
// directly or behind an XML prolog. Plain XML that never reaches an <svg>
// element is rejected.
func IsSVG(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "svg") {
		return true
	}

	trimmed := bytes.TrimLeft(body, " \t\r\n\x0c")
	if len(trimmed) > sniffWindow {
		trimmed = trimmed[:sniffWindow]
	}
	head := strings.ToLower(string(trimmed))

	if strings.HasPrefix(head, "<svg") {
		return true
	}
	if strings.HasPrefix(head, "<?xml") {
		return strings.Contains(head, "<svg")
	}

	return false
}

func bodyPreview(body []byte) string {
	preview := string(body)
	if len(preview) > 100 {
		preview = preview[:100]
	}
	return strings.ReplaceAll(preview, "\n", " ")
}
