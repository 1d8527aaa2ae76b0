package dataset

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"strings"
)

// Known site logs that can be selected by name.
var DefaultNames = []string{
	"benin-malanville",
	"sierraleone-bumbuna",
	"togo-dapaong_qc",
}

// Source opens a named dataset. Unknown names yield an error wrapping fs.ErrNotExist.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Locate(name string) string
}

// Entry describes one selectable dataset.
type Entry struct {
	Name      string `json:"name"`
	Location  string `json:"location"`
	Available bool   `json:"available"`
}

// Catalog restricts a Source to a fixed set of selection keys.
type Catalog struct {
	names []string
	src   Source
}

func NewCatalog(src Source, names ...string) *Catalog {
	if len(names) == 0 {
		names = DefaultNames
	}
	return &Catalog{names: names, src: src}
}

// Names returns the selection keys in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// NormalizeName accepts both "benin-malanville" and "benin-malanville.csv".
func NormalizeName(key string) string {
	return strings.TrimSuffix(strings.TrimSpace(key), ".csv")
}

// Open resolves key and opens the underlying resource.
func (c *Catalog) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	name := NormalizeName(key)
	if !c.known(name) {
		return nil, fmt.Errorf("unknown dataset %q: %w", key, fs.ErrNotExist)
	}
	return c.src.Open(ctx, name)
}

// List reports every catalog entry and whether it can currently be opened.
func (c *Catalog) List(ctx context.Context) []Entry {
	out := make([]Entry, 0, len(c.names))
	for _, name := range c.names {
		e := Entry{Name: name, Location: c.src.Locate(name)}
		if rc, err := c.src.Open(ctx, name); err == nil {
			e.Available = true
			_ = rc.Close()
		}
		out = append(out, e)
	}
	return out
}

func (c *Catalog) known(name string) bool {
	for _, n := range c.names {
		if n == name {
			return true
		}
	}
	return false
}
