package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// APITokenHeader is the request header the vendor API expects for static
// API token authentication.
const APITokenHeader = "X-API-TOKEN"

// TokenConfig holds configuration for the static API token method.
type TokenConfig struct {
	Token string `mapstructure:"token"`
	// Header overrides the vendor default header name; rarely needed.
	Header string `mapstructure:"header"`
}

type tokenMethod struct{ c TokenConfig }

func (m tokenMethod) Acquire(_ context.Context) (string, string, error) {
	tok := strings.TrimSpace(m.c.Token)
	if tok == "" {
		return "", "", errors.New("auth: token is required for the token method")
	}
	h := strings.TrimSpace(m.c.Header)
	if h == "" {
		h = APITokenHeader
	}
	return h, tok, nil
}

func newTokenMethod(spec map[string]interface{}) (Method, error) {
	var c TokenConfig
	if err := mapstructure.Decode(spec, &c); err != nil {
		return nil, err
	}
	return tokenMethod{c: c}, nil
}
