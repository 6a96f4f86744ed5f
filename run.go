package fwdeploy

import (
	"context"
	"slices"
	"strings"
)

// Result is the outcome of resolving a build environment.
type Result struct {
	// SourceDir is the Carthage build folder the artifacts are copied from.
	SourceDir string
	// Resolved is the dependency closure of the roots, in discovery order.
	Resolved []string
	// Scheduled is the subset of Resolved that needs copying.
	Scheduled []string
	// Release is true when the configuration always copies.
	Release bool
}

// Resolve computes the dependency closure of env's roots and schedules the
// artifacts that need copying into env.DestinationDir().
func Resolve(ctx context.Context, env Environment, d Discoverer, settings Settings) (*Result, error) {
	Debugf(ctx, "Carthage folder: %s", env.SourceDir)
	Debugf(ctx, "Environment frameworks: %s", strings.Join(env.Roots, "\n\t"))

	resolved, err := Closure(ctx, env.Roots, d)
	if err != nil {
		return nil, err
	}

	release := env.IsRelease(settings.ReleaseConfigurations)
	return &Result{
		SourceDir: env.SourceDir,
		Resolved:  resolved,
		Scheduled: Schedule(resolved, env.DestinationDir(), release),
		Release:   release,
	}, nil
}

// Run resolves env and copies the scheduled artifacts with c.
// Nothing is copied when there are no roots or when every artifact is
// already present.
func Run(ctx context.Context, env Environment, d Discoverer, c Copier, settings Settings) error {
	if len(env.Roots) == 0 {
		Println(ctx, "Nothing to do.")
		return nil
	}

	res, err := Resolve(ctx, env, d, settings)
	if err != nil {
		return err
	}
	return Deploy(ctx, res, c)
}

// Deploy copies the scheduled artifacts of res with c.
func Deploy(ctx context.Context, res *Result, c Copier) error {
	if len(res.Scheduled) == 0 {
		Println(ctx, warning("Nothing to copy. Try clean build if you want your dependencies to be copied again."))
		return nil
	}

	Println(ctx, heading("Copying:"))
	for _, a := range res.Scheduled {
		Printf(ctx, "\t%s\n", a)
	}
	return c.Copy(ctx, res.SourceDir, res.Scheduled)
}

// PrintResult prints the resolved closure, marking artifacts that are
// already present in the destination.
func PrintResult(ctx context.Context, res *Result) {
	if len(res.Resolved) == 0 {
		Println(ctx, "Nothing to do.")
		return
	}

	Println(ctx, heading("Resolved:"))
	for _, a := range res.Resolved {
		if slices.Contains(res.Scheduled, a) {
			Printf(ctx, "\t%s\n", a)
		} else {
			Printf(ctx, "\t%s (up to date)\n", a)
		}
	}
}
