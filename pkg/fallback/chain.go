// Package fallback provides an ordered chain of alternative strategies.
//
// The rendering pipeline prefers degraded output over failure: a texture
// load tries the low-quality tier, then the full asset, then a synthetic
// placeholder; ink blending tries the configured blend mode, then
// source-over. A Chain captures that pattern once so each call site only
// declares its strategies in preference order.
package fallback

import (
	"context"
	"errors"
	"fmt"
)

// Strategy is one named alternative in a chain.
type Strategy[T any] struct {
	// Name identifies the strategy in results and diagnostics,
	// e.g. "low-tier", "full-tier", "placeholder".
	Name string

	// Run attempts the strategy. A nil error means the chain stops
	// and the value is returned to the caller.
	Run func(ctx context.Context) (T, error)
}

// Chain is an ordered list of strategies tried first to last.
type Chain[T any] struct {
	strategies []Strategy[T]
}

// New creates a Chain from strategies in preference order.
func New[T any](strategies ...Strategy[T]) *Chain[T] {
	return &Chain[T]{strategies: strategies}
}

// Append adds strategies to the end of the chain.
func (c *Chain[T]) Append(strategies ...Strategy[T]) {
	c.strategies = append(c.strategies, strategies...)
}

// Len returns the number of strategies in the chain.
func (c *Chain[T]) Len() int { return len(c.strategies) }

// Execute runs strategies in order and returns the first successful value
// together with the name of the strategy that produced it.
//
// Context cancellation is checked before each attempt; a cancelled context
// returns ctx.Err() without consuming further strategies. If every
// strategy fails, Execute returns the joined errors of all attempts so
// the caller can inspect each failure with errors.Is/As.
func (c *Chain[T]) Execute(ctx context.Context) (T, string, error) {
	var zero T
	if len(c.strategies) == 0 {
		return zero, "", errors.New("fallback: empty chain")
	}

	var failures []error
	for _, s := range c.strategies {
		if err := ctx.Err(); err != nil {
			return zero, "", err
		}

		v, err := s.Run(ctx)
		if err == nil {
			return v, s.Name, nil
		}
		failures = append(failures, fmt.Errorf("%s: %w", s.Name, err))
	}
	return zero, "", errors.Join(failures...)
}
