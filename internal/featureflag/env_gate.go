// Package featureflag answers runtime feature flag queries from the environment or from
// a watched flags file. Flags are resolved on every call.
package featureflag

import (
	"context"
	"strings"

	"github.com/allisson/go-env"
)

// EnvGate resolves a flag from the FEATURE_<SNAKE_CASE_FLAG> environment variable each
// time it is asked.
type EnvGate struct {
	defaults map[string]bool
}

// NewEnvGate creates an EnvGate. Flags without a variable set fall back to defaults.
func NewEnvGate(defaults map[string]bool) *EnvGate {
	return &EnvGate{defaults: defaults}
}

// IsEnabled reports whether flag is enabled.
func (g *EnvGate) IsEnabled(ctx context.Context, flag string) bool {
	return env.GetBool(EnvVarName(flag), g.defaults[flag])
}

// EnvVarName maps a flag name to its variable, e.g. EnableRedisCaching to
// FEATURE_ENABLE_REDIS_CACHING.
func EnvVarName(flag string) string {
	var b strings.Builder
	b.WriteString("FEATURE_")
	for i, r := range flag {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}
