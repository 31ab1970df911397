package paper

import (
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/th3400l/scrawl/pkg/errors"
)

// Catalog is a validated, ordered collection of paper templates.
type Catalog struct {
	templates []Template
	byID      map[string]Template
}

// catalogFile is the on-disk TOML shape of a catalog.
type catalogFile struct {
	Templates []Template `toml:"template"`
}

// NewCatalog builds a catalog from templates, validating each and
// rejecting duplicate identifiers.
func NewCatalog(templates []Template) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]Template, len(templates))}
	for _, t := range templates {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, exists := c.byID[t.ID]; exists {
			return nil, errors.New(errors.ErrCodeInvalidTemplate, "duplicate template id: %s", t.ID)
		}
		c.byID[t.ID] = t
		c.templates = append(c.templates, t)
	}
	return c, nil
}

// ParseCatalog decodes a TOML catalog document:
//
//	[[template]]
//	id = "blank-1"
//	name = "Classic Blank"
//	asset = "assets/paper/blank-1.png"
//	asset_low = "assets/paper/blank-1-low.png"
//	structural = "blank"
//	critical = true
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "failed to parse template catalog")
	}
	if len(f.Templates) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "template catalog contains no templates")
	}
	return NewCatalog(f.Templates)
}

// LoadCatalog reads and parses a TOML catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "catalog file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeLoadFailed, err, "failed to read catalog: %s", path)
	}
	return ParseCatalog(data)
}

// Get returns the template with the given id.
func (c *Catalog) Get(id string) (Template, error) {
	t, ok := c.byID[id]
	if !ok {
		return Template{}, errors.New(errors.ErrCodeTemplateNotFound, "unknown template: %s", id)
	}
	return t, nil
}

// Has reports whether a template with the given id exists.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// List returns all templates in catalog order.
func (c *Catalog) List() []Template {
	out := make([]Template, len(c.templates))
	copy(out, c.templates)
	return out
}

// IDs returns all template identifiers sorted lexically.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of templates in the catalog.
func (c *Catalog) Len() int { return len(c.templates) }

// Default returns the built-in catalog used when no catalog file is
// configured. Asset refs are relative; with no asset directory present
// the loads fall through to placeholder synthesis, so the built-ins
// work out of the box.
func Default() *Catalog {
	c, err := NewCatalog([]Template{
		{
			ID:          "blank-1",
			DisplayName: "Classic Blank",
			AssetRef:    "assets/paper/blank-1.png",
			LowAssetRef: "assets/paper/blank-1-low.png",
			Structural:  StructuralBlank,
			Critical:    true,
		},
		{
			ID:          "lined-college",
			DisplayName: "College Rule",
			AssetRef:    "assets/paper/lined-college.png",
			LowAssetRef: "assets/paper/lined-college-low.png",
			Structural:  StructuralLined,
		},
		{
			ID:          "lined-wide",
			DisplayName: "Wide Rule",
			AssetRef:    "assets/paper/lined-wide.png",
			Structural:  StructuralLined,
		},
		{
			ID:          "dotted-grid",
			DisplayName: "Dot Grid",
			AssetRef:    "assets/paper/dotted-grid.png",
			Structural:  StructuralDotted,
		},
	})
	if err != nil {
		// Built-ins are compile-time constants; a validation failure
		// here is a programming error.
		panic(err)
	}
	return c
}
