package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionFlag(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := buf.String(); got != "trendwatch version 0.1.0\n" {
		t.Errorf("unexpected version output %q", got)
	}
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	cmd := newRootCmd()

	for _, name := range []string{"run", "serve"} {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
			}
		}
		if !found {
			t.Errorf("expected %q subcommand", name)
		}
	}
}

func TestRunCmd_FailsWithoutAPIKey(t *testing.T) {
	t.Setenv("YOUTUBE_API_KEY", "")

	cmd := newRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"run"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("run must fail fast when the API credential is missing")
	}
	if !strings.Contains(err.Error(), "YOUTUBE_API_KEY") {
		t.Errorf("error should point at the missing credential, got %q", err.Error())
	}
}

func TestUnknownCommand(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"collect"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("unknown subcommand should error")
	}
}
