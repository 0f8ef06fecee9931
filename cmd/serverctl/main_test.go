package main

import (
	"testing"
)

func TestBuildRootSubcommands(t *testing.T) {
	root := buildRoot()
	want := map[string]bool{
		"start": false, "stop": false, "restart": false,
		"status": false, "logs": false, "history": false,
	}
	for _, sub := range root.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("subcommand %q not registered", name)
		}
	}
}

func TestLogsHasConsoleAlias(t *testing.T) {
	root := buildRoot()
	for _, sub := range root.Commands() {
		if sub.Name() == "logs" {
			for _, a := range sub.Aliases {
				if a == "console" {
					return
				}
			}
		}
	}
	t.Fatalf("logs command missing console alias")
}

func TestUnknownCommandErrors(t *testing.T) {
	root := buildRoot()
	root.SetArgs([]string{"frobnicate"})
	if err := root.Execute(); err == nil {
		t.Fatalf("unknown command must return an error")
	}
}

func TestStartFlagShorthands(t *testing.T) {
	root := buildRoot()
	for _, sub := range root.Commands() {
		if sub.Name() == "start" {
			if sub.Flags().ShorthandLookup("f") == nil {
				t.Fatalf("start must expose -f")
			}
			if sub.Flags().ShorthandLookup("s") == nil {
				t.Fatalf("start must expose -s")
			}
			return
		}
	}
	t.Fatalf("start command not found")
}
