package common

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

// SensitivePattern describes one class of sensitive data to hide from log output.
type SensitivePattern struct {
	Name        string         // Pattern name (e.g., "api_token")
	Regex       *regexp.Regexp // Regular expression matched against string values
	Replacement string         // Replacement string
	Keys        []string       // Attribute keys whose values are masked outright (case-insensitive)
}

// DefaultSensitivePatterns covers the credentials this tool handles: the vendor
// API token header, OAuth2 bearer tokens and client secrets.
var DefaultSensitivePatterns = []SensitivePattern{
	{
		Name:        "api_token",
		Regex:       regexp.MustCompile(`(?i)(x-api-token|api[_-]?token)["'\s]*[:=]["'\s]*([^"',}\]\s]+)`),
		Replacement: `${1}:***MASKED***`,
		Keys:        []string{"api_token", "apitoken", "x-api-token"},
	},
	{
		Name:        "bearer_token",
		Regex:       regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9\-._~+/]+=*`),
		Replacement: "Bearer ***MASKED***",
		Keys:        []string{"authorization", "access_token"},
	},
	{
		Name:        "client_secret",
		Regex:       regexp.MustCompile(`(?i)(client[_-]?secret)["'\s]*[:=]["'\s]*([^"',}\]\s]+)`),
		Replacement: `${1}:***MASKED***`,
		Keys:        []string{"client_secret", "client-secret"},
	},
}

// Masker hides sensitive information in log attributes.
type Masker struct {
	patterns []SensitivePattern
	enabled  bool
}

// NewMasker creates a new masker with default patterns
func NewMasker() *Masker {
	return &Masker{
		patterns: DefaultSensitivePatterns,
		enabled:  true,
	}
}

// SetEnabled enables or disables masking
func (m *Masker) SetEnabled(enabled bool) {
	m.enabled = enabled
}

// IsEnabled returns whether masking is enabled
func (m *Masker) IsEnabled() bool {
	return m.enabled
}

// MaskString masks sensitive information in a string
func (m *Masker) MaskString(input string) string {
	if !m.enabled {
		return input
	}

	result := input
	for _, pattern := range m.patterns {
		result = pattern.Regex.ReplaceAllString(result, pattern.Replacement)
	}
	return result
}

// MaskValue masks a value according to its attribute key first, then by content.
func (m *Masker) MaskValue(key, value string) string {
	if !m.enabled {
		return value
	}

	lowerKey := strings.ToLower(key)
	for _, pattern := range m.patterns {
		for _, sensitiveKey := range pattern.Keys {
			if lowerKey == sensitiveKey {
				return "***MASKED***"
			}
		}
	}
	return m.MaskString(value)
}

// Global masker instance
var globalMasker = NewMasker()

// SetGlobalMasker sets the global masker instance
func SetGlobalMasker(masker *Masker) {
	globalMasker = masker
}

// GetGlobalMasker returns the global masker instance
func GetGlobalMasker() *Masker {
	return globalMasker
}

// EnableMasking enables/disables global masking
func EnableMasking(enabled bool) {
	globalMasker.SetEnabled(enabled)
}

// MaskingHandler wraps a slog.Handler and masks string attribute values
// before they reach the underlying handler.
type MaskingHandler struct {
	inner  slog.Handler
	masker *Masker
}

// NewMaskingHandler creates a handler that masks sensitive attrs via masker.
func NewMaskingHandler(inner slog.Handler, masker *Masker) *MaskingHandler {
	return &MaskingHandler{inner: inner, masker: masker}
}

func (h *MaskingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *MaskingHandler) Handle(ctx context.Context, r slog.Record) error {
	masked := slog.NewRecord(r.Time, r.Level, h.masker.MaskString(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(h.maskAttr(a))
		return true
	})
	return h.inner.Handle(ctx, masked)
}

func (h *MaskingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, h.maskAttr(a))
	}
	return &MaskingHandler{inner: h.inner.WithAttrs(out), masker: h.masker}
}

func (h *MaskingHandler) WithGroup(name string) slog.Handler {
	return &MaskingHandler{inner: h.inner.WithGroup(name), masker: h.masker}
}

func (h *MaskingHandler) maskAttr(a slog.Attr) slog.Attr {
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return slog.String(a.Key, h.masker.MaskValue(a.Key, v.String()))
	case slog.KindGroup:
		members := v.Group()
		out := make([]any, 0, len(members))
		for _, ga := range members {
			out = append(out, h.maskAttr(ga))
		}
		return slog.Group(a.Key, out...)
	default:
		return a
	}
}
