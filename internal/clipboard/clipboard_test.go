package clipboard

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"os"
	"strings"
	"testing"
)

type fakeEnv struct {
	installed map[string]bool
	failing   map[string]bool
	ran       []string
	stdin     string
}

func (f *fakeEnv) copier(fallback *bytes.Buffer) *Copier {
	c := &Copier{
		Commands: DefaultCommands,
		lookPath: func(file string) (string, error) {
			if f.installed[file] {
				return "/usr/bin/" + file, nil
			}
			return "", errors.New("not found")
		},
		run: func(_ context.Context, path string, _ []string, stdin string) error {
			name := strings.TrimPrefix(path, "/usr/bin/")
			f.ran = append(f.ran, name)
			if f.failing[name] {
				return errors.New("no display")
			}
			f.stdin = stdin
			return nil
		},
	}
	if fallback != nil {
		c.Fallback = fallback
	}
	return c
}

func TestCopy_NativeCommand(t *testing.T) {
	env := &fakeEnv{installed: map[string]bool{"xclip": true, "xsel": true}}
	var out bytes.Buffer

	method, err := env.copier(&out).Copy(context.Background(), "corrected text")
	if err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if method != "xclip" {
		t.Errorf("expected xclip, got %s", method)
	}
	if env.stdin != "corrected text" {
		t.Errorf("unexpected stdin: %q", env.stdin)
	}
	if out.Len() != 0 {
		t.Error("fallback should not be used when a command succeeds")
	}
}

func TestCopy_SkipsFailingCommand(t *testing.T) {
	env := &fakeEnv{
		installed: map[string]bool{"wl-copy": true, "xclip": true},
		failing:   map[string]bool{"wl-copy": true},
	}

	method, err := env.copier(nil).Copy(context.Background(), "x")
	if err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if method != "xclip" {
		t.Errorf("expected xclip after wl-copy failed, got %s", method)
	}
	if len(env.ran) != 2 {
		t.Errorf("expected 2 attempts, got %v", env.ran)
	}
}

func TestCopy_FallsBackToOSC52(t *testing.T) {
	env := &fakeEnv{installed: map[string]bool{"xclip": true}, failing: map[string]bool{"xclip": true}}
	var out bytes.Buffer

	method, err := env.copier(&out).Copy(context.Background(), "héllo")
	if err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if method != MethodOSC52 {
		t.Errorf("expected osc52, got %s", method)
	}

	want := "\x1b]52;c;" + base64.StdEncoding.EncodeToString([]byte("héllo")) + "\a"
	if out.String() != want {
		t.Errorf("unexpected sequence %q", out.String())
	}
}

func TestCopy_BothFail(t *testing.T) {
	env := &fakeEnv{}

	_, err := env.copier(nil).Copy(context.Background(), "x")
	if err == nil {
		t.Fatal("expected error when no command and no fallback")
	}
	if !strings.Contains(err.Error(), "no clipboard command found") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNew_FallbackOnlyForTerminals(t *testing.T) {
	var buf bytes.Buffer
	if c := New(&buf); c.Fallback != nil {
		t.Error("fallback set for a non-terminal writer")
	}

	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsTerminal(f) {
		t.Error("regular file reported as terminal")
	}
	if c := New(f); c.Fallback != nil {
		t.Error("fallback set for a redirected file")
	}
}

func TestCopy_NoFallbackWhenRedirected(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf)
	c.lookPath = func(string) (string, error) { return "", errors.New("not found") }

	if _, err := c.Copy(context.Background(), "x"); err == nil {
		t.Fatal("expected error when output is not a terminal")
	}
	if buf.Len() != 0 {
		t.Errorf("escape written to redirected output: %q", buf.String())
	}
}
