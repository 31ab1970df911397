package paper_test

import (
	"fmt"

	"github.com/th3400l/scrawl/pkg/paper"
)

func ExampleParseCatalog() {
	// A catalog document replaces the built-in templates entirely.
	doc := `
[[template]]
id = "weathered-1"
name = "Weathered Paper"
asset = "assets/weathered-1.png"
asset_low = "assets/weathered-1-low.png"
structural = "blank"
critical = true
`
	catalog, err := paper.ParseCatalog([]byte(doc))
	if err != nil {
		fmt.Println(err)
		return
	}

	tmpl, _ := catalog.Get("weathered-1")
	fmt.Println("Templates:", catalog.Len())
	fmt.Println("Name:", tmpl.DisplayName)
	fmt.Println("Has low tier:", tmpl.LowAssetRef != "")
	// Output:
	// Templates: 1
	// Name: Weathered Paper
	// Has low tier: true
}

func ExampleCatalog_IDs() {
	// The built-in catalog always carries these four papers.
	fmt.Println(paper.Default().IDs())
	// Output: [blank-1 dotted-grid lined-college lined-wide]
}
