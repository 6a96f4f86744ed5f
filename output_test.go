package fwdeploy

import (
	"bytes"
	"context"
	"io"
	"testing"
)

func TestOutputFromContext(t *testing.T) {
	t.Run("ReturnsSetOutput", func(t *testing.T) {
		var buf bytes.Buffer
		out := &Output{Stdout: &buf, Stderr: &buf}
		ctx := ContextWithOutput(context.Background(), out)

		if got := outputFromContext(ctx); got != out {
			t.Error("expected to get the same output back")
		}
	})

	t.Run("FallsBackToStdOutput", func(t *testing.T) {
		got := outputFromContext(context.Background())
		if got == nil {
			t.Fatal("expected non-nil fallback output")
		}
		if got.Stdout == nil || got.Stderr == nil {
			t.Error("expected non-nil Stdout and Stderr")
		}
		if got.Debug != io.Discard {
			t.Error("expected debug output to be discarded")
		}
	})

	t.Run("NilOutputFallsBack", func(t *testing.T) {
		ctx := ContextWithOutput(context.Background(), nil)
		if got := outputFromContext(ctx); got == nil {
			t.Error("expected non-nil fallback output")
		}
	})
}

func TestPrintFunctions(t *testing.T) {
	var stdout, stderr, debug bytes.Buffer
	ctx := ContextWithOutput(context.Background(), &Output{Stdout: &stdout, Stderr: &stderr, Debug: &debug})

	Printf(ctx, "hello %s", "world")
	Println(ctx, "!")
	Errorf(ctx, "failed: %d", 1)
	Debugf(ctx, "Running: %s", "otool -L A")

	if got, want := stdout.String(), "hello world!\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
	if got, want := stderr.String(), "failed: 1"; got != want {
		t.Errorf("stderr = %q, want %q", got, want)
	}
	if got, want := debug.String(), "Running: otool -L A\n"; got != want {
		t.Errorf("debug = %q, want %q", got, want)
	}
}

func TestDebugf_NilWriter(t *testing.T) {
	var stdout bytes.Buffer
	ctx := ContextWithOutput(context.Background(), &Output{Stdout: &stdout, Stderr: &stdout})

	Debugf(ctx, "ignored")

	if stdout.Len() != 0 {
		t.Errorf("debug output leaked to stdout: %q", stdout.String())
	}
}
