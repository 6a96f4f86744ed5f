package fwdeploy

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Output holds the writers for console output.
// Stdout receives the informational lines that Xcode shows in the build log,
// Debug receives the verbose echo of the resolver.
type Output struct {
	Stdout io.Writer
	Stderr io.Writer
	Debug  io.Writer
}

// StdOutput returns an Output that writes to os.Stdout and os.Stderr.
// Debug output is discarded.
func StdOutput() *Output {
	return &Output{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Debug:  io.Discard,
	}
}

type outputKey struct{}

// ContextWithOutput returns a new context carrying the given output.
func ContextWithOutput(ctx context.Context, out *Output) context.Context {
	return context.WithValue(ctx, outputKey{}, out)
}

// outputFromContext returns the Output from the context,
// falling back to StdOutput.
func outputFromContext(ctx context.Context) *Output {
	if out, ok := ctx.Value(outputKey{}).(*Output); ok && out != nil {
		return out
	}
	return StdOutput()
}

// Printf formats and prints to the context's stdout.
func Printf(ctx context.Context, format string, a ...any) {
	_, _ = fmt.Fprintf(outputFromContext(ctx).Stdout, format, a...)
}

// Println prints to the context's stdout with a newline.
func Println(ctx context.Context, a ...any) {
	_, _ = fmt.Fprintln(outputFromContext(ctx).Stdout, a...)
}

// Errorf formats and prints to the context's stderr.
func Errorf(ctx context.Context, format string, a ...any) {
	_, _ = fmt.Fprintf(outputFromContext(ctx).Stderr, format, a...)
}

// Debugf formats and prints a line to the context's debug writer.
// A trailing newline is added.
func Debugf(ctx context.Context, format string, a ...any) {
	w := outputFromContext(ctx).Debug
	if w == nil {
		return
	}
	_, _ = fmt.Fprintf(w, format+"\n", a...)
}

// heading renders s in bold when stdout is a terminal.
var heading = color.New(color.Bold).SprintFunc()

// warning renders s in yellow when stdout is a terminal.
var warning = color.New(color.FgYellow).SprintFunc()
