package main

import (
	"testing"
)

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "pepaudit" {
			t.Errorf("expected use 'pepaudit', got %q", cmd.Use)
		}
	})

	t.Run("has descriptions and version", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" || cmd.Long == "" {
			t.Error("expected non-empty descriptions")
		}
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has persistent flags", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name      string
			shorthand string
		}{
			{"verbose", "v"},
			{"config", "c"},
			{"clear-cache", "C"},
			{"no-cache", ""},
			{"cache-dir", ""},
			{"log-file", ""},
			{"concurrency", "n"},
			{"timeout", "t"},
			{"index-url", ""},
			{"docs-url", ""},
			{"no-progress", ""},
		}
		for _, tt := range tests {
			flag := cmd.PersistentFlags().Lookup(tt.name)
			if flag == nil {
				t.Errorf("expected %s flag", tt.name)
				continue
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("flag %s: expected shorthand %q, got %q", tt.name, tt.shorthand, flag.Shorthand)
			}
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()

		want := map[string]bool{
			"pep":             false,
			"whats-new":       false,
			"latest-versions": false,
			"download":        false,
			"init":            false,
			"version":         false,
		}
		for _, sub := range cmd.Commands() {
			if _, ok := want[sub.Name()]; ok {
				want[sub.Name()] = true
			}
		}
		for name, found := range want {
			if !found {
				t.Errorf("expected %s subcommand", name)
			}
		}
	})

	t.Run("table commands have output flags", func(t *testing.T) {
		t.Parallel()

		for _, sub := range cmd.Commands() {
			switch sub.Name() {
			case "pep", "whats-new", "latest-versions":
				for _, name := range []string{"output", "output-file", "tee"} {
					if sub.Flags().Lookup(name) == nil {
						t.Errorf("%s: expected %s flag", sub.Name(), name)
					}
				}
			}
		}
	})

	t.Run("silences usage and errors", func(t *testing.T) {
		t.Parallel()
		if !cmd.SilenceUsage {
			t.Error("expected SilenceUsage to be true")
		}
		if !cmd.SilenceErrors {
			t.Error("expected SilenceErrors to be true")
		}
	})
}
