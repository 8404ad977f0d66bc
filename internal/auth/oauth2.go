package auth

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/go-viper/mapstructure/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ClientCredentialsConfig holds configuration for the OAuth2 client
// credentials grant against the vendor token endpoint.
type ClientCredentialsConfig struct {
	ClientID  string   `mapstructure:"client_id"`
	ClientSec string   `mapstructure:"client_secret"`
	TokenURL  string   `mapstructure:"token_url"`
	Scopes    []string `mapstructure:"scopes"`
}

type clientCredentialsMethod struct {
	c ClientCredentialsConfig

	mu  sync.Mutex
	src oauth2.TokenSource
}

func (m *clientCredentialsMethod) Acquire(ctx context.Context) (string, string, error) {
	clientID := strings.TrimSpace(m.c.ClientID)
	clientSecret := strings.TrimSpace(m.c.ClientSec)
	tokenURL := strings.TrimSpace(m.c.TokenURL)
	if tokenURL == "" {
		return "", "", errors.New("oauth2: token_url is required for client_credentials grant")
	}
	if clientID == "" || clientSecret == "" {
		return "", "", errors.New("oauth2: client_id and client_secret are required for client_credentials grant")
	}

	m.mu.Lock()
	if m.src == nil {
		cc := &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			Scopes:       m.c.Scopes,
			AuthStyle:    oauth2.AuthStyleInHeader,
		}
		m.src = cc.TokenSource(ctx)
	}
	src := m.src
	m.mu.Unlock()

	tok, err := src.Token()
	if err != nil {
		return "", "", err
	}
	typ := tok.Type()
	if typ == "" {
		typ = "Bearer"
	}
	return "Authorization", typ + " " + tok.AccessToken, nil
}

func newClientCredentialsMethod(spec map[string]interface{}) (Method, error) {
	var c ClientCredentialsConfig
	if err := mapstructure.Decode(spec, &c); err != nil {
		return nil, err
	}
	return &clientCredentialsMethod{c: c}, nil
}
