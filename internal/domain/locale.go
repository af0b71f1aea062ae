package domain

import "strings"

// Locale is a UI locale supported by the catalog
type Locale string

const (
	LocaleDE Locale = "de"
	LocaleEN Locale = "en"
)

// DefaultLocale is used for unknown or empty locale input
const DefaultLocale = LocaleDE

// ParseLocale maps request input onto a supported locale, defaulting to German
func ParseLocale(s string) Locale {
	switch Locale(strings.ToLower(strings.TrimSpace(s))) {
	case LocaleEN:
		return LocaleEN
	default:
		return DefaultLocale
	}
}

// String implements fmt.Stringer
func (l Locale) String() string {
	return string(l)
}

// FallbackLocalized resolves a German/English pair for display.
// The German text wins when it is non-empty, otherwise the English text is used.
func FallbackLocalized(de, en string) string {
	if de != "" {
		return de
	}
	return en
}
