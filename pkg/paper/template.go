// Package paper defines paper templates and the template catalog.
//
// A template describes one paper background the renderer can draw on: a
// display name, references to its raster asset in one or two quality
// tiers, and the structural kind of the paper (blank, lined, dotted).
// The structural kind is what placeholder synthesis reproduces when no
// asset can be loaded, so even an unreachable catalog still yields a
// recognizable page.
package paper

import (
	"github.com/th3400l/scrawl/pkg/errors"
)

// Structural describes the printed structure of a paper template.
type Structural string

const (
	StructuralBlank  Structural = "blank"
	StructuralLined  Structural = "lined"
	StructuralDotted Structural = "dotted"
)

// Template is an immutable description of one paper background.
type Template struct {
	// ID is the catalog identifier, e.g. "blank-1".
	ID string `toml:"id"`

	// DisplayName is the human-readable name shown in pickers.
	DisplayName string `toml:"name"`

	// AssetRef locates the full-quality raster asset: an http(s) URL
	// or a path relative to the catalog's asset directory.
	AssetRef string `toml:"asset"`

	// LowAssetRef optionally locates a reduced-quality tier used on
	// constrained devices. Empty means no low tier exists and loads
	// go straight to the full asset.
	LowAssetRef string `toml:"asset_low"`

	// Structural is the printed structure, used by placeholder synthesis.
	Structural Structural `toml:"structural"`

	// Critical marks templates that must always produce a texture.
	// Loads for critical templates end in placeholder synthesis rather
	// than an error when every asset tier fails.
	Critical bool `toml:"critical"`
}

// HasLowTier reports whether the template ships a reduced-quality asset.
func (t Template) HasLowTier() bool { return t.LowAssetRef != "" }

// Validate checks the template against catalog rules.
func (t Template) Validate() error {
	if err := errors.ValidateTemplateIDStrict(t.ID); err != nil {
		return err
	}
	if t.DisplayName == "" {
		return errors.New(errors.ErrCodeInvalidTemplate, "template %s: display name cannot be empty", t.ID)
	}
	if err := errors.ValidateAssetRef(t.AssetRef); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidTemplate, err, "template %s: bad asset ref", t.ID)
	}
	if t.LowAssetRef != "" {
		if err := errors.ValidateAssetRef(t.LowAssetRef); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidTemplate, err, "template %s: bad low asset ref", t.ID)
		}
	}
	switch t.Structural {
	case StructuralBlank, StructuralLined, StructuralDotted:
	default:
		return errors.New(errors.ErrCodeInvalidTemplate, "template %s: unknown structural kind %q", t.ID, t.Structural)
	}
	return nil
}
