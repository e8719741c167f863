// Package storage persists retrieved SVGs into the output directory and
// keeps the run manifest of what was saved.
package storage
