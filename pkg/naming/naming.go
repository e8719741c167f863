// Package naming derives collision-free output filenames for retrieved SVGs.
package naming

import (
	"fmt"
	"strings"

	"github.com/Blimmp/miro-svg-dl/pkg/classify"
)

const extension = ".svg"

// NameSet tracks every filename allocated during the current run. It only
// grows; a name handed out is never reused. One instance lives for exactly
// one run.
type NameSet struct {
	used map[string]bool
}

// NewNameSet creates an empty name set
func NewNameSet() *NameSet {
	return &NameSet{used: make(map[string]bool)}
}

// Resolve picks the output filename for a resolved candidate and registers
// it in the set before returning. The second return value reports whether
// the name came from the item's declared filename ("original") rather than
// being generated from identifiers.
func (s *NameSet) Resolve(boardID string, candidate *classify.Candidate) (string, bool) {
	base := candidate.DeclaredName
	original := base != ""

	if original {
		base = EnsureExtension(base)
	} else {
		base = fmt.Sprintf("%s_%s_%s%s", boardID, candidate.ItemType, candidate.ItemID, extension)
	}

	name := base
	// The extension may be any case when declared; strip it by length
	stem := base[:len(base)-len(extension)]
	for counter := 1; s.used[name]; counter++ {
		name = fmt.Sprintf("%s_%d%s", stem, counter, extension)
	}

	s.used[name] = true
	return name, original
}

// Contains reports whether a name has already been allocated this run
func (s *NameSet) Contains(name string) bool {
	return s.used[name]
}

// Len returns the number of allocated names
func (s *NameSet) Len() int {
	return len(s.used)
}

// EnsureExtension appends ".svg" unless the name already ends with it,
// compared case-insensitively so "Logo.SVG" is left alone.
func EnsureExtension(name string) string {
	if strings.HasSuffix(strings.ToLower(name), extension) {
		return name
	}
	return name + extension
}
