package ink_test

import (
	"fmt"
	"slices"

	"github.com/th3400l/scrawl/pkg/ink"
)

func ExampleGenerateVariations() {
	// Palettes are deterministic: the same base color always yields the
	// same five entries, so re-rendering a page reproduces it exactly.
	a, _ := ink.GenerateVariations("#1a3d8f")
	b, _ := ink.GenerateVariations("#1a3d8f")

	fmt.Println("Entries:", len(a))
	fmt.Println("Stable:", slices.Equal(a, b))
	// Output:
	// Entries: 5
	// Stable: true
}

func ExampleRegistry_Names() {
	fmt.Println(ink.DefaultRegistry().Names())
	// Output: [black blue green red]
}

func ExampleParseProfiles() {
	// Custom inks arrive as [[ink]] blocks in the config document.
	// Omitted fields fall back to sensible pen defaults.
	doc := `
[[ink]]
name = "sepia"
color = "#704214"
blend = "darken"
`
	profiles, err := ink.ParseProfiles([]byte(doc))
	if err != nil {
		fmt.Println(err)
		return
	}

	p := profiles[0]
	fmt.Println(p.Name, p.BaseOpacity, p.Blend, len(p.Variations))
	// Output: sepia 0.9 darken 5
}
