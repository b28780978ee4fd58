package i18n

import (
	"embed"
	"encoding/json"
	"fmt"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var locales embed.FS

var defaultLanguage = language.English

type Translator struct {
	bundle *goi18n.Bundle
}

// New builds a translator from the embedded locale files.
func New() (*Translator, error) {
	bundle := goi18n.NewBundle(defaultLanguage)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := locales.ReadDir("locales")
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if _, err := bundle.LoadMessageFileFS(locales, "locales/"+e.Name()); err != nil {
			return nil, fmt.Errorf("load %s: %w", e.Name(), err)
		}
	}
	return &Translator{bundle: bundle}, nil
}

// Translate renders messageID for the first matching language in langs
// (Accept-Language values are accepted as is). When no translation exists
// it returns fallback.
func (t *Translator) Translate(messageID, fallback string, data map[string]interface{}, langs ...string) string {
	if t == nil {
		return fallback
	}
	localizer := goi18n.NewLocalizer(t.bundle, langs...)
	msg, err := localizer.Localize(&goi18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil || msg == "" {
		return fallback
	}
	return msg
}
