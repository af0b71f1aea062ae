// Package i18n resolves UI strings and field labels per locale.
package i18n

import (
	"embed"
	"fmt"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/de"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"gopkg.in/yaml.v3"

	"github.com/veganlens/backend/internal/domain"
)

//go:embed locales/*.yaml
var catalogs embed.FS

// Translator is a domain.Translator over the embedded catalogs
type Translator struct {
	uni *ut.UniversalTranslator
}

// New loads the embedded German and English catalogs
func New() (*Translator, error) {
	uni := ut.New(de.New(), de.New(), en.New())

	for _, loc := range []locales.Translator{de.New(), en.New()} {
		if err := load(uni, loc.Locale()); err != nil {
			return nil, err
		}
	}

	return &Translator{uni: uni}, nil
}

func load(uni *ut.UniversalTranslator, locale string) error {
	data, err := catalogs.ReadFile("locales/" + locale + ".yaml")
	if err != nil {
		return fmt.Errorf("read %s catalog: %w", locale, err)
	}

	var entries map[string]string
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse %s catalog: %w", locale, err)
	}

	trans, _ := uni.GetTranslator(locale)
	for key, text := range entries {
		if err := trans.Add(key, text, false); err != nil {
			return fmt.Errorf("add %s/%s: %w", locale, key, err)
		}
	}
	return nil
}

// Translate returns the text for key in locale. Unknown keys resolve to the
// key itself.
func (t *Translator) Translate(key string, locale domain.Locale) string {
	trans, _ := t.uni.GetTranslator(locale.String())
	text, err := trans.T(key)
	if err != nil || text == "" {
		return key
	}
	return text
}
