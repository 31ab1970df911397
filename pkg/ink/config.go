package ink

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/th3400l/scrawl/pkg/errors"
)

// profilesFile is the on-disk TOML shape of ink overrides. The blocks
// live alongside the [[template]] blocks of a catalog document, so a
// document with no inks is valid and yields no profiles.
type profilesFile struct {
	Inks []Profile `toml:"ink"`
}

// ParseProfiles decodes [[ink]] blocks from a TOML config document:
//
//	[[ink]]
//	name = "sepia"
//	color = "#704214"
//	opacity = 0.88
//	blend = "multiply"
//
//	[ink.texture]
//	pattern = "fibrous"
//	roughness = 0.3
//	absorption = 0.35
//	bleed_effect = 0.2
//
// Omitted opacity defaults to 0.9, omitted blend to multiply, omitted
// pattern to smooth. Each profile gets its variation palette generated
// from its base color and is validated; the first invalid profile fails
// the whole parse so a typo never silently drops an ink.
func ParseProfiles(data []byte) ([]*Profile, error) {
	var f profilesFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "failed to parse ink profiles")
	}
	if len(f.Inks) == 0 {
		return nil, nil
	}
	profiles := make([]*Profile, 0, len(f.Inks))
	for _, raw := range f.Inks {
		if raw.BaseOpacity == 0 {
			raw.BaseOpacity = 0.9
		}
		if raw.Blend == "" {
			raw.Blend = BlendMultiply
		}
		if raw.Texture.Pattern == "" {
			raw.Texture.Pattern = PatternSmooth
		}
		p, err := NewProfile(raw.Name, raw.BaseColor, raw.BaseOpacity, raw.Blend, raw.Texture)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInk, err, "ink profile %q rejected", raw.Name)
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// LoadProfiles reads a TOML config file and parses its ink overrides.
func LoadProfiles(path string) ([]*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "ink config not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeLoadFailed, err, "failed to read ink config: %s", path)
	}
	return ParseProfiles(data)
}
