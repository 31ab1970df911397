package scribe_test

import (
	"fmt"

	"github.com/th3400l/scrawl/pkg/scribe"
)

func ExampleRenderingConfig_Hash() {
	// The hash fingerprints every rendering input, so identical configs
	// share cache entries and any changed field produces a new hash.
	a := scribe.DefaultConfig()
	a.Text = "Dear Miriam,"
	b := a
	c := a
	c.InkProfile = "red"

	fmt.Println("Same config:", a.Hash() == b.Hash())
	fmt.Println("Changed ink:", a.Hash() == c.Hash())
	// Output:
	// Same config: true
	// Changed ink: false
}
