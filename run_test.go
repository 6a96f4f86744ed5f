package fwdeploy

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func init() {
	// Console assertions compare plain text.
	color.NoColor = true
}

// fakeCopier records the artifacts it was asked to copy.
type fakeCopier struct {
	calls     int
	sourceDir string
	artifacts []string
	err       error
}

func (c *fakeCopier) Copy(_ context.Context, sourceDir string, artifacts []string) error {
	c.calls++
	c.sourceDir = sourceDir
	c.artifacts = slices.Clone(artifacts)
	return c.err
}

// testContext returns a context whose output is captured in the returned buffers.
func testContext() (context.Context, *bytes.Buffer, *bytes.Buffer) {
	var stdout, debug bytes.Buffer
	out := &Output{Stdout: &stdout, Stderr: &bytes.Buffer{}, Debug: &debug}
	return ContextWithOutput(context.Background(), out), &stdout, &debug
}

// testEnvironment returns an Environment whose destination contains present.
func testEnvironment(t *testing.T, configuration string, roots []string, present ...string) Environment {
	t.Helper()
	products := t.TempDir()
	for _, a := range present {
		if err := os.MkdirAll(filepath.Join(products, "App.app", "Frameworks", a), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return Environment{
		BuiltProductsDir:     products,
		FrameworksFolderPath: filepath.Join("App.app", "Frameworks"),
		Configuration:        configuration,
		SourceDir:            "/src/Carthage/Build/iOS",
		Roots:                roots,
	}
}

func TestRun(t *testing.T) {
	graph := map[string][]string{
		"A.framework": {"C.bundle"},
	}

	tests := []struct {
		name          string
		configuration string
		present       []string
		wantCopied    []string
	}{
		{
			name:          "debug build copies missing artifacts",
			configuration: "Debug",
			present:       []string{"A.framework"},
			wantCopied:    []string{"B.framework", "C.bundle"},
		},
		{
			name:          "release build copies everything",
			configuration: "Release",
			present:       []string{"A.framework", "B.framework", "C.bundle"},
			wantCopied:    []string{"A.framework", "B.framework", "C.bundle"},
		},
		{
			name:          "clean debug build copies closure in BFS order",
			configuration: "Debug",
			wantCopied:    []string{"A.framework", "B.framework", "C.bundle"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx, stdout, _ := testContext()
			env := testEnvironment(t, tc.configuration, []string{"A.framework", "B.framework"}, tc.present...)
			copier := &fakeCopier{}

			err := Run(ctx, env, newFakeGraph(graph), copier, DefaultSettings())
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if copier.calls != 1 {
				t.Fatalf("copier called %d times, want 1", copier.calls)
			}
			if !slices.Equal(copier.artifacts, tc.wantCopied) {
				t.Errorf("copied %v, want %v", copier.artifacts, tc.wantCopied)
			}
			if copier.sourceDir != env.SourceDir {
				t.Errorf("copied from %q, want %q", copier.sourceDir, env.SourceDir)
			}

			want := "Copying:\n\t" + strings.Join(tc.wantCopied, "\n\t") + "\n"
			if got := stdout.String(); got != want {
				t.Errorf("stdout = %q, want %q", got, want)
			}
		})
	}
}

func TestRun_NothingToDo(t *testing.T) {
	ctx, stdout, _ := testContext()
	env := testEnvironment(t, "Debug", nil)
	g := newFakeGraph(nil)
	copier := &fakeCopier{}

	if err := Run(ctx, env, g, copier, DefaultSettings()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if copier.calls != 0 || len(g.calls) != 0 {
		t.Errorf("expected no discovery and no copy, got %d discoveries and %d copies", len(g.calls), copier.calls)
	}
	if got := stdout.String(); got != "Nothing to do.\n" {
		t.Errorf("stdout = %q", got)
	}
}

func TestRun_NothingToCopy(t *testing.T) {
	ctx, stdout, _ := testContext()
	env := testEnvironment(t, "Debug", []string{"A.framework"}, "A.framework")
	copier := &fakeCopier{}

	if err := Run(ctx, env, newFakeGraph(nil), copier, DefaultSettings()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if copier.calls != 0 {
		t.Errorf("copier called %d times, want 0", copier.calls)
	}
	if !strings.Contains(stdout.String(), "Nothing to copy.") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRun_DiscoveryErrorSkipsCopy(t *testing.T) {
	ctx, _, _ := testContext()
	env := testEnvironment(t, "Release", []string{"A.framework"})
	copier := &fakeCopier{}
	d := DiscoverFunc(func(_ context.Context, artifact string) ([]string, error) {
		return nil, DiscoveryError(artifact, "/src/A.framework/A", errors.New("exit status 1"))
	})

	err := Run(ctx, env, d, copier, DefaultSettings())
	if !errors.Is(err, ErrDiscovery) {
		t.Fatalf("Run() error = %v, want ErrDiscovery", err)
	}
	if copier.calls != 0 {
		t.Errorf("copier called %d times after discovery failure", copier.calls)
	}
}

func TestRun_CopyErrorPropagates(t *testing.T) {
	ctx, _, _ := testContext()
	env := testEnvironment(t, "Release", []string{"A.framework"})
	boom := CopyCommandError("carthage copy-frameworks", errors.New("exit status 1"))
	copier := &fakeCopier{err: boom}

	if err := Run(ctx, env, newFakeGraph(nil), copier, DefaultSettings()); !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want %v", err, boom)
	}
}

func TestResolve_DebugEcho(t *testing.T) {
	ctx, _, debug := testContext()
	env := testEnvironment(t, "Debug", []string{"A.framework", "B.framework"})

	if _, err := Resolve(ctx, env, newFakeGraph(nil), DefaultSettings()); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := "Carthage folder: /src/Carthage/Build/iOS\nEnvironment frameworks: A.framework\n\tB.framework\n"
	if got := debug.String(); got != want {
		t.Errorf("debug = %q, want %q", got, want)
	}
}

func TestPrintResult(t *testing.T) {
	ctx, stdout, _ := testContext()
	PrintResult(ctx, &Result{
		Resolved:  []string{"A.framework", "B.framework"},
		Scheduled: []string{"B.framework"},
	})
	want := "Resolved:\n\tA.framework (up to date)\n\tB.framework\n"
	if got := stdout.String(); got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}
