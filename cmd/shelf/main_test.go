package main

import (
	"bytes"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(""), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunHelp(t *testing.T) {
	code, _, stderr := runCLI(t, "--help")
	if code != 0 {
		t.Fatalf("exit = %d, want 0", code)
	}
	if !strings.Contains(stderr, "whoami") {
		t.Fatalf("usage missing commands: %q", stderr)
	}
}

func TestRunUnknownCommand(t *testing.T) {
	code, _, stderr := runCLI(t, "borrow-everything")
	if code != 2 {
		t.Fatalf("exit = %d, want 2", code)
	}
	if !strings.Contains(stderr, `unknown command "borrow-everything"`) {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestRunUploadNeedsPath(t *testing.T) {
	code, _, stderr := runCLI(t, "upload")
	if code != 1 {
		t.Fatalf("exit = %d, want 1", code)
	}
	if !strings.HasPrefix(stderr, "shelf: ") {
		t.Fatalf("stderr = %q, want shelf: prefix", stderr)
	}
}

func TestRunLoginPasswordStdinNeedsUsername(t *testing.T) {
	code, _, stderr := runCLI(t, "login", "--password-stdin")
	if code != 1 {
		t.Fatalf("exit = %d, want 1", code)
	}
	if !strings.Contains(stderr, "--username") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestRunSubcommandHelp(t *testing.T) {
	code, _, stderr := runCLI(t, "tui", "--help")
	if code != 0 {
		t.Fatalf("exit = %d, want 0", code)
	}
	if !strings.Contains(stderr, "--poll") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestRunUploadRejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	code, stdout, stderr := runCLI(t, "upload", dir)
	if code != 1 {
		t.Fatalf("exit = %d, want 1", code)
	}
	if stdout != "" {
		t.Fatalf("stdout = %q, want empty", stdout)
	}
	if !strings.Contains(stderr, "is a directory") {
		t.Fatalf("stderr = %q", stderr)
	}
}
