package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// File suffixes tried in order when resolving a name inside a directory.
var dirSuffixes = []string{".csv", ".csv.gz", ".csv.zst"}

// DirSource reads bundled datasets from a local directory.
type DirSource struct {
	dir string
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

func (s *DirSource) Locate(name string) string {
	return filepath.Join(s.dir, name+dirSuffixes[0])
}

// Open returns the first existing <dir>/<name><suffix>.
func (s *DirSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, suffix := range dirSuffixes {
		path := filepath.Join(s.dir, name+suffix)
		f, err := os.Open(path)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
	}
	return nil, fmt.Errorf("file not found: %s: %w", s.Locate(name), fs.ErrNotExist)
}
