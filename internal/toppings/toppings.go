// internal/toppings/toppings.go
//
// Topping catalog management for the puzzle engine.
//
// Responsibilities:
//   - Load the catalog from a YAML file or fall back to the embedded default.
//   - Normalize names (trimmed, lowercase) and reject empty or duplicate names.
//   - Provide ordered access plus quick membership lookups.
//
// File format:
//
//	toppings:
//	  - name: pepperoni
//	    image: images/pepperoni.png
//
// A missing image defaults to images/<name>.png.
//
// Environment variables (read by internal/config, passed in here):
//
//	TOPPINGS_FILE=/path/to/toppings.yaml
package toppings

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/robalobadob/pizza-detective/assets"
)

// ErrInvalidCatalog is returned for catalogs that are empty or contain bad names.
var ErrInvalidCatalog = errors.New("toppings: invalid catalog")

// Topping is one catalog entry: an identifier plus the image the UI draws for it.
type Topping struct {
	Name  string `yaml:"name" json:"name"`
	Image string `yaml:"image" json:"image"`
}

// Catalog is an immutable, ordered set of toppings.
type Catalog struct {
	list  []Topping
	index map[string]int // name -> position in list
}

type catalogFile struct {
	Toppings []Topping `yaml:"toppings"`
}

// Load reads a catalog from path, or the embedded default when path is empty.
func Load(path string) (*Catalog, error) {
	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = assets.DefaultCatalog()
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return New(f.Toppings)
}

// New builds a catalog from entries, normalizing names.
func New(entries []Topping) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no toppings", ErrInvalidCatalog)
	}
	c := &Catalog{
		list:  make([]Topping, 0, len(entries)),
		index: make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		name := normalize(e.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: entry %d has no name", ErrInvalidCatalog, i)
		}
		if _, dup := c.index[name]; dup {
			return nil, fmt.Errorf("%w: duplicate topping %q", ErrInvalidCatalog, name)
		}
		img := strings.TrimSpace(e.Image)
		if img == "" {
			img = "images/" + name + ".png"
		}
		c.index[name] = len(c.list)
		c.list = append(c.list, Topping{Name: name, Image: img})
	}
	return c, nil
}

// MustNew is New for tests and static tables; it panics on error.
func MustNew(names ...string) *Catalog {
	entries := make([]Topping, len(names))
	for i, n := range names {
		entries[i] = Topping{Name: n}
	}
	c, err := New(entries)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of toppings.
func (c *Catalog) Len() int { return len(c.list) }

// Has reports whether name is a known topping.
func (c *Catalog) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Image returns the display asset for name, or "" if unknown.
func (c *Catalog) Image(name string) string {
	if i, ok := c.index[name]; ok {
		return c.list[i].Image
	}
	return ""
}

// Names returns topping names in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.list))
	for i, t := range c.list {
		out[i] = t.Name
	}
	return out
}

// Toppings returns a copy of the catalog entries.
func (c *Catalog) Toppings() []Topping {
	return append([]Topping(nil), c.list...)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
