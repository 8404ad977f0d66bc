package auth

import (
	"context"
	"errors"
	"strings"
)

// Method is the plugin interface for an authentication method. Acquire
// returns the header name and value to attach to every vendor API request.
type Method interface {
	Acquire(ctx context.Context) (header, value string, err error)
}

// Factory builds a Method instance from a loosely-typed spec map.
// Decoding into a concrete config struct is the typical responsibility of a Factory.
type Factory func(spec map[string]interface{}) (Method, error)

// In-memory registry of provider factories keyed by normalized type.
var providers = map[string]Factory{}

// normalizeKey lower-cases and trims provider type keys.
func normalizeKey(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Register registers an auth provider factory under a type key
// (e.g., "token", "oauth2"). The key is normalized to lower-case.
func Register(typ string, f Factory) {
	key := normalizeKey(typ)
	if key == "" || f == nil {
		return
	}
	providers[key] = f
}

// New builds a Method for the given provider type from its spec map.
func New(typ string, spec map[string]interface{}) (Method, error) {
	f, ok := providers[normalizeKey(typ)]
	if !ok {
		return nil, errors.New("auth: unsupported provider type: " + typ)
	}
	return f(spec)
}

func init() {
	Register("token", newTokenMethod)
	Register("oauth2", newClientCredentialsMethod)
}
