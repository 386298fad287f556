// Package assets bundles the default word lists into the binary.
//
//   - start.txt:      candidate root words, one per line.
//   - dictionary.txt: English words accepted by the default dictionary.
package assets

import (
	"embed"
	"io"
)

//go:embed start.txt dictionary.txt
var FS embed.FS

const (
	RootsFile      = "start.txt"
	DictionaryFile = "dictionary.txt"
)

// Open returns a reader for one of the bundled files.
func Open(name string) (io.ReadCloser, error) {
	return FS.Open(name)
}
