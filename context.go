package fwdeploy

import (
	"context"
	"maps"
	"slices"
	"strings"
)

// contextKey is the type for context keys in this package.
type contextKey int

const (
	// envKey is the context key for environment variable overrides.
	envKey contextKey = iota
)

// EnvConfig holds environment variable overrides for command execution.
type EnvConfig struct {
	Set    map[string]string // key -> value (replaces existing)
	Filter []string          // prefixes to filter out
}

// ContextWithEnv returns a new context that sets an environment variable for
// commands started by Exec, ExecStream and CommandOutput.
// The keyValue must be in "KEY=value" format.
// If a variable with the same key already exists, it is replaced.
//
//	ctx = fwdeploy.ContextWithEnv(ctx, "SCRIPT_INPUT_FILE_COUNT=2")
func ContextWithEnv(ctx context.Context, keyValue string) context.Context {
	key, value, ok := strings.Cut(keyValue, "=")
	if !ok {
		return ctx // invalid format, ignore
	}
	cfg := EnvConfigFromContext(ctx)
	if cfg.Set == nil {
		cfg.Set = make(map[string]string)
	}
	cfg.Set[key] = value
	return context.WithValue(ctx, envKey, cfg)
}

// ContextWithoutEnv returns a new context that filters out environment
// variables matching the given prefix from started commands.
// Overrides set earlier with a matching key are dropped as well.
func ContextWithoutEnv(ctx context.Context, prefix string) context.Context {
	cfg := EnvConfigFromContext(ctx)
	maps.DeleteFunc(cfg.Set, func(key, _ string) bool {
		return strings.HasPrefix(key, prefix)
	})
	cfg.Filter = append(cfg.Filter, prefix)
	return context.WithValue(ctx, envKey, cfg)
}

// EnvConfigFromContext returns the environment config from the context.
// Returns a copy to avoid mutating the original.
func EnvConfigFromContext(ctx context.Context) EnvConfig {
	cfg, ok := ctx.Value(envKey).(EnvConfig)
	if !ok {
		return EnvConfig{}
	}
	return EnvConfig{
		Set:    maps.Clone(cfg.Set),
		Filter: slices.Clone(cfg.Filter),
	}
}

// applyEnvConfig applies filters and overrides to environ.
// Filtered variables are dropped, then every Set entry replaces any existing
// variable of the same key and is appended in key order.
func applyEnvConfig(environ []string, cfg EnvConfig) []string {
	if len(cfg.Set) == 0 && len(cfg.Filter) == 0 {
		return environ
	}

	result := make([]string, 0, len(environ)+len(cfg.Set))
	for _, e := range environ {
		key, _, _ := strings.Cut(e, "=")
		if _, overridden := cfg.Set[key]; overridden {
			continue
		}
		if slices.ContainsFunc(cfg.Filter, func(prefix string) bool {
			return strings.HasPrefix(key, prefix)
		}) {
			continue
		}
		result = append(result, e)
	}

	for _, key := range slices.Sorted(maps.Keys(cfg.Set)) {
		result = append(result, key+"="+cfg.Set[key])
	}
	return result
}
