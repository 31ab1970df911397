package ink

import (
	"maps"
	"slices"
	"sync"

	"github.com/th3400l/scrawl/pkg/errors"
)

// Registry holds the named ink profiles available to the renderer. A
// registry starts from the built-in inks and grows through config
// overrides; it is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{profiles: make(map[string]*Profile)}
}

// DefaultRegistry creates a registry preloaded with the built-in inks:
// blue, black, red, and green.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, p := range builtinProfiles() {
		r.profiles[p.Name] = p
	}
	return r
}

// Register validates and adds a profile, replacing any previous profile
// of the same name.
func (r *Registry) Register(p *Profile) error {
	if err := Validate(p); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.Name] = p
	return nil
}

// RegisterCustom builds a profile from a bare hex color, using the
// standard custom-ink texture, and registers it.
func (r *Registry) RegisterCustom(name, hex string) (*Profile, error) {
	p, err := NewProfile(name, hex, 0.9, BlendMultiply, Texture{
		Pattern:     PatternSmooth,
		Roughness:   0.15,
		Absorption:  0.2,
		BleedEffect: 0.1,
	})
	if err != nil {
		return nil, err
	}
	if err := r.Register(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns the profile registered under name.
func (r *Registry) Get(name string) (*Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInk, "unknown ink profile %q", name)
	}
	return p, nil
}

// Names lists registered profile names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := slices.Collect(maps.Keys(r.profiles))
	slices.Sort(names)
	return names
}

// Render resolves a profile by name and renders it at the given
// intensity. Unknown names and invalid profiles both yield the fixed
// fallback ink; the render loop never sees an error from here.
func (r *Registry) Render(name string, intensity float64) Result {
	p, err := r.Get(name)
	if err != nil {
		return FallbackResult()
	}
	return Render(p, intensity)
}

// builtinProfiles constructs the standard inks. Colors are picked to
// read like real pen pigment rather than pure RGB primaries.
func builtinProfiles() []*Profile {
	return []*Profile{
		mustProfile(NewProfile("blue", "#1a3d8f", 0.92, BlendMultiply, Texture{
			Pattern:     PatternSmooth,
			Roughness:   0.15,
			Absorption:  0.20,
			BleedEffect: 0.10,
		})),
		mustProfile(NewProfile("black", "#26252b", 0.95, BlendMultiply, Texture{
			Pattern:     PatternSmooth,
			Roughness:   0.10,
			Absorption:  0.15,
			BleedEffect: 0.08,
		})),
		mustProfile(NewProfile("red", "#9e2f26", 0.90, BlendMultiply, Texture{
			Pattern:     PatternFibrous,
			Roughness:   0.25,
			Absorption:  0.30,
			BleedEffect: 0.18,
		})),
		mustProfile(NewProfile("green", "#2a6142", 0.90, BlendDarken, Texture{
			Pattern:     PatternGrainy,
			Roughness:   0.30,
			Absorption:  0.25,
			BleedEffect: 0.12,
		})),
	}
}

func mustProfile(p *Profile, err error) *Profile {
	if err != nil {
		panic(err)
	}
	return p
}
