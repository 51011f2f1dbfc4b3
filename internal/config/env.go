package config

import (
	"os"
	"strings"
)

// Env is an explicit snapshot of key/value configuration. Resolvers read from
// an Env instead of the process environment so that loading stays a pure
// function of its input.
type Env map[string]string

// FromOS snapshots the current process environment.
func FromOS() Env {
	return parseEnviron(os.Environ())
}

func parseEnviron(environ []string) Env {
	env := make(Env, len(environ))
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		env[key] = value
	}
	return env
}

// Get returns the value stored for key, or "" when the key is absent.
func (e Env) Get(key string) string {
	if e == nil {
		return ""
	}
	return e[key]
}

// GetOr returns the value stored for key, falling back to def when the key is
// absent or empty.
func (e Env) GetOr(key, def string) string {
	if v := e.Get(key); v != "" {
		return v
	}
	return def
}

// Merge returns a new Env holding e overlaid with overrides. Non-empty
// override values win; neither input is modified.
func (e Env) Merge(overrides Env) Env {
	out := make(Env, len(e)+len(overrides))
	for k, v := range e {
		out[k] = v
	}
	for k, v := range overrides {
		if v == "" {
			continue
		}
		out[k] = v
	}
	return out
}
