package fwdeploy

import "context"

// Discoverer reports the artifacts directly referenced by an artifact.
// Only artifacts living in the run's source directory are reported.
type Discoverer interface {
	Discover(ctx context.Context, artifact string) ([]string, error)
}

// DiscoverFunc adapts a function to the Discoverer interface.
type DiscoverFunc func(ctx context.Context, artifact string) ([]string, error)

// Discover calls f(ctx, artifact).
func (f DiscoverFunc) Discover(ctx context.Context, artifact string) ([]string, error) {
	return f(ctx, artifact)
}

// Closure returns every artifact reachable from roots, each exactly once, in
// breadth-first visiting order. Roots are visited before anything they
// reference.
//
// Discover is called at most once per distinct artifact, so cyclic and
// self-referencing graphs terminate. The first discovery error aborts the
// walk and is returned as is.
func Closure(ctx context.Context, roots []string, d Discoverer) ([]string, error) {
	pending := append([]string(nil), roots...)
	done := make(map[string]bool, len(roots))
	var result []string

	for len(pending) > 0 {
		artifact := pending[0]
		pending = pending[1:]
		if done[artifact] {
			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}
		deps, err := d.Discover(ctx, artifact)
		if err != nil {
			return nil, err
		}
		pending = append(pending, deps...)

		result = append(result, artifact)
		done[artifact] = true
	}

	return result, nil
}
