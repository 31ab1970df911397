package cli

import (
	"bytes"
	"context"
	"testing"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	var verbose bool
	root := newRootCmd(&verbose)

	want := []string{"render", "templates", "inks", "check", "quality", "completion"}
	got := map[string]bool{}
	for _, cmd := range root.Commands() {
		got[cmd.Name()] = true
	}

	for _, name := range want {
		if !got[name] {
			t.Errorf("root command is missing subcommand %q", name)
		}
	}
}

func TestRootCommandUse(t *testing.T) {
	var verbose bool
	root := newRootCmd(&verbose)

	if root.Use != "scrawl" {
		t.Errorf("Use = %q, want %q", root.Use, "scrawl")
	}
	if root.Version == "" {
		t.Error("root command should carry a version")
	}
}

func TestRootCommandVerboseFlag(t *testing.T) {
	var verbose bool
	root := newRootCmd(&verbose)

	flag := root.PersistentFlags().Lookup("verbose")
	if flag == nil {
		t.Fatal("root command should define --verbose")
	}
	if flag.Shorthand != "v" {
		t.Errorf("verbose shorthand = %q, want %q", flag.Shorthand, "v")
	}
}

func TestRootCommandHelp(t *testing.T) {
	var verbose bool
	root := newRootCmd(&verbose)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"--help"})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("--help failed: %v", err)
	}
	if !bytes.Contains(out.Bytes(), []byte("render")) {
		t.Error("help output should mention the render command")
	}
}
