package fallback

import (
	"context"
	"errors"
	"testing"
)

func TestChainFirstSuccess(t *testing.T) {
	chain := New(
		Strategy[string]{Name: "primary", Run: func(ctx context.Context) (string, error) {
			return "from-primary", nil
		}},
		Strategy[string]{Name: "secondary", Run: func(ctx context.Context) (string, error) {
			t.Fatal("secondary should not run when primary succeeds")
			return "", nil
		}},
	)

	v, name, err := chain.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if v != "from-primary" {
		t.Errorf("value = %q, want %q", v, "from-primary")
	}
	if name != "primary" {
		t.Errorf("strategy = %q, want %q", name, "primary")
	}
}

func TestChainFallsThrough(t *testing.T) {
	errFirst := errors.New("first failed")

	chain := New(
		Strategy[int]{Name: "low-tier", Run: func(ctx context.Context) (int, error) {
			return 0, errFirst
		}},
		Strategy[int]{Name: "full-tier", Run: func(ctx context.Context) (int, error) {
			return 42, nil
		}},
	)

	v, name, err := chain.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if v != 42 {
		t.Errorf("value = %d, want 42", v)
	}
	if name != "full-tier" {
		t.Errorf("strategy = %q, want %q", name, "full-tier")
	}
}

func TestChainAllFail(t *testing.T) {
	errA := errors.New("a failed")
	errB := errors.New("b failed")

	chain := New(
		Strategy[string]{Name: "a", Run: func(ctx context.Context) (string, error) {
			return "", errA
		}},
		Strategy[string]{Name: "b", Run: func(ctx context.Context) (string, error) {
			return "", errB
		}},
	)

	_, _, err := chain.Execute(context.Background())
	if err == nil {
		t.Fatal("Execute() should fail when all strategies fail")
	}
	// Both failures must be inspectable in the joined error
	if !errors.Is(err, errA) {
		t.Errorf("joined error should contain errA: %v", err)
	}
	if !errors.Is(err, errB) {
		t.Errorf("joined error should contain errB: %v", err)
	}
}

func TestChainEmpty(t *testing.T) {
	chain := New[string]()
	_, _, err := chain.Execute(context.Background())
	if err == nil {
		t.Error("empty chain should return an error")
	}
}

func TestChainContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	chain := New(
		Strategy[string]{Name: "first", Run: func(ctx context.Context) (string, error) {
			calls++
			cancel() // cancel between strategies
			return "", errors.New("failed")
		}},
		Strategy[string]{Name: "second", Run: func(ctx context.Context) (string, error) {
			calls++
			return "late", nil
		}},
	)

	_, _, err := chain.Execute(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no attempts after cancel)", calls)
	}
}

func TestChainAppend(t *testing.T) {
	chain := New(
		Strategy[int]{Name: "a", Run: func(ctx context.Context) (int, error) {
			return 0, errors.New("nope")
		}},
	)
	chain.Append(Strategy[int]{Name: "b", Run: func(ctx context.Context) (int, error) {
		return 7, nil
	}})

	if chain.Len() != 2 {
		t.Fatalf("Len = %d, want 2", chain.Len())
	}

	v, name, err := chain.Execute(context.Background())
	if err != nil || v != 7 || name != "b" {
		t.Errorf("Execute() = %d, %q, %v; want 7, \"b\", nil", v, name, err)
	}
}
