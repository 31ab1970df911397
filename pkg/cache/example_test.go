package cache_test

import (
	"fmt"

	"github.com/th3400l/scrawl/pkg/cache"
)

func ExampleStore() {
	// A store bounded to 1 KiB; values are sized by the callback.
	store := cache.NewStore(1024, 8, func(v string) int64 { return int64(len(v)) })

	store.Put("texture:blank-1", "pixels")
	if v, ok := store.Get("texture:blank-1"); ok {
		fmt.Println("Hit:", v)
	}
	_, ok := store.Get("texture:missing")
	fmt.Println("Miss found:", ok)

	stats := store.Stats()
	fmt.Println("Hits:", stats.Hits, "Misses:", stats.Misses)
	// Output:
	// Hit: pixels
	// Miss found: false
	// Hits: 1 Misses: 1
}
