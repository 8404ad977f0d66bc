package httpc

import (
	"crypto/tls"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Httpc builds resty clients honoring the configured TLS options.
type Httpc struct {
	Insecure      bool
	MinTLSVersion string
	MaxTLSVersion string
}

// New returns a resty.Client configured according to the receiver's TLS settings.
// With no options set, the resty defaults are left untouched.
func (h *Httpc) New() *resty.Client {
	c := resty.New()

	minV := ParseTLSVersion(h.MinTLSVersion)
	maxV := ParseTLSVersion(h.MaxTLSVersion)
	if !h.Insecure && minV == 0 && maxV == 0 {
		return c
	}

	cfg := &tls.Config{MinVersion: minV, MaxVersion: maxV}
	if cfg.MinVersion == 0 {
		cfg.MinVersion = tls.VersionTLS12
	}
	if h.Insecure {
		// #nosec G402 -- self-signed vendor gateways must be opted into explicitly
		cfg.InsecureSkipVerify = true
	}
	c.SetTLSClientConfig(cfg)
	return c
}

// ParseTLSVersion converts a TLS version string to the corresponding crypto/tls constant.
// Supports various formats: "1.2", "12", "tls1.2", "tls12", etc.
// Returns 0 if the version string is not recognized.
func ParseTLSVersion(version string) uint16 {
	switch strings.TrimSpace(strings.ToLower(version)) {
	case "1.0", "10", "tls1.0", "tls10":
		return tls.VersionTLS10
	case "1.1", "11", "tls1.1", "tls11":
		return tls.VersionTLS11
	case "1.2", "12", "tls1.2", "tls12":
		return tls.VersionTLS12
	case "1.3", "13", "tls1.3", "tls13":
		return tls.VersionTLS13
	default:
		return 0
	}
}
