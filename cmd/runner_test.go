package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/manisai28/vseo/internal/session"
	"github.com/manisai28/vseo/internal/shared"
	tu "github.com/manisai28/vseo/internal/testing"
)

func newTestRunner(output *bytes.Buffer) *Runner {
	return NewRunner(RunnerOpts{
		Store:  session.NewStore("/tmp/vseo-test-never-written"),
		Output: output,
	})
}

func TestNewRunner(t *testing.T) {
	t.Run("Applies Defaults", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Store: session.NewStore(t.TempDir())})

		if runner.config == nil {
			t.Error("expected default config")
		}
		if runner.logger == nil {
			t.Error("expected default logger")
		}
		if runner.output == nil {
			t.Error("expected default output")
		}
		if runner.httpClient == nil {
			t.Error("expected default http client")
		}
		if runner.session == nil || runner.engine == nil || runner.publisher == nil {
			t.Error("expected engines constructed")
		}
	})

	t.Run("No Cache Means No Refresher", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Store: session.NewStore(t.TempDir())})
		if runner.refresher != nil {
			t.Error("expected nil refresher without a cache")
		}
	})

	t.Run("Registers All Command Groups", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Store: session.NewStore(t.TempDir())})

		names := map[string]bool{}
		for _, command := range runner.register() {
			names[command.Name] = true
		}
		for _, want := range []string{"setup", "auth", "video", "youtube", "results", "cache", "notifications", "tui"} {
			if !names[want] {
				t.Errorf("expected command %q registered", want)
			}
		}
	})
}

func TestRequireAuth(t *testing.T) {
	runner := NewRunner(RunnerOpts{Store: session.NewStore(t.TempDir())})

	err := runner.requireAuth()
	if !errors.Is(err, shared.ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}
	if runner.session.Loading() {
		t.Error("expected session resolved after requireAuth")
	}
}

func TestRunnerOutput(t *testing.T) {
	t.Run("WriteJSON", func(t *testing.T) {
		t.Run("Compact", func(t *testing.T) {
			var buf bytes.Buffer
			runner := newTestRunner(&buf)

			if err := runner.writeJSON(map[string]string{"id": "v1"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got := buf.String(); got != "{\"id\":\"v1\"}\n" {
				t.Errorf("unexpected output %q", got)
			}
		})

		t.Run("Pretty", func(t *testing.T) {
			var buf bytes.Buffer
			runner := newTestRunner(&buf)

			if err := runner.writeJSON(map[string]string{"id": "v1"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(buf.String(), "  \"id\": \"v1\"") {
				t.Errorf("expected indented output, got %q", buf.String())
			}
		})

		t.Run("Unmarshalable Value Fails", func(t *testing.T) {
			runner := newTestRunner(&bytes.Buffer{})
			if err := runner.writeJSON(make(chan int), false); err == nil {
				t.Error("expected marshal error")
			}
		})

		t.Run("Write Failure Propagates", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Store:  session.NewStore("/tmp/vseo-test-never-written"),
				Output: &tu.FWriter{},
			})
			if err := runner.writeJSON(map[string]string{"id": "v1"}, false); err == nil {
				t.Error("expected write error")
			}
		})

		t.Run("Newline Write Failure Propagates", func(t *testing.T) {
			var buf bytes.Buffer
			limited := tu.NewLimitedWriter(1, 0, &buf)
			runner := NewRunner(RunnerOpts{
				Store:  session.NewStore("/tmp/vseo-test-never-written"),
				Output: &limited,
			})
			if err := runner.writeJSON(map[string]string{"id": "v1"}, false); err == nil {
				t.Error("expected error on newline write")
			}
		})
	})

	t.Run("WritePlain", func(t *testing.T) {
		var buf bytes.Buffer
		runner := newTestRunner(&buf)

		if err := runner.writePlain("video %s", "v1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := buf.String(); got != "video v1" {
			t.Errorf("unexpected output %q", got)
		}
	})

	t.Run("WritePlainln Wraps With Newlines", func(t *testing.T) {
		var buf bytes.Buffer
		runner := newTestRunner(&buf)

		if err := runner.writePlainln("done"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := buf.String(); got != "\ndone\n" {
			t.Errorf("unexpected output %q", got)
		}
	})
}
