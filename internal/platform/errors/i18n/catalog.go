// Package i18n renders localized alert text for client error codes.
package i18n

import (
	"bytes"
	"strings"
	"sync"
	"text/template"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// BaseLocale is the fallback locale for alerts.
const BaseLocale = "en-US"

// Code is a machine-readable error code (duplicated from errors package to avoid cycle).
type Code = string

var supported = []language.Tag{
	language.AmericanEnglish,
	language.BrazilianPortuguese,
}

var matcher = language.NewMatcher(supported)

var (
	buildOnce sync.Once
	builder   *catalog.Builder
)

func defaultBuilder() *catalog.Builder {
	buildOnce.Do(func() {
		builder = catalog.NewBuilder(catalog.Fallback(language.AmericanEnglish))
		register(builder, language.AmericanEnglish, enUS)
		register(builder, language.BrazilianPortuguese, ptBR)
	})
	return builder
}

func register(b *catalog.Builder, tag language.Tag, messages map[Code]string) {
	for code, text := range messages {
		// SetString only fails for malformed messages; the tables are static.
		_ = b.SetString(tag, code, text)
	}
}

// Catalog formats alert messages for one resolved locale.
type Catalog struct {
	locale  string
	printer *message.Printer
}

// GetCatalog returns the catalog for the closest supported locale.
// Unknown or empty locales fall back to en-US.
func GetCatalog(locale string) *Catalog {
	tag := resolve(locale)
	return &Catalog{
		locale:  tag.String(),
		printer: message.NewPrinter(tag, message.Catalog(defaultBuilder())),
	}
}

func resolve(locale string) language.Tag {
	requested := strings.TrimSpace(locale)
	if requested == "" {
		return language.AmericanEnglish
	}
	parsed, err := language.Parse(requested)
	if err != nil {
		return language.AmericanEnglish
	}
	_, index, confidence := matcher.Match(parsed)
	if confidence == language.No {
		return language.AmericanEnglish
	}
	return supported[index]
}

// Locale returns the resolved locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the alert for code with metadata. Codes without an entry
// render as the code itself.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	if _, known := enUS[code]; !known {
		return code
	}
	tmpl := c.printer.Sprintf(code)

	if metadata == nil {
		metadata = map[string]string{}
	}
	t, err := template.New("alert").Option("missingkey=zero").Parse(tmpl)
	if err != nil {
		return tmpl
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, metadata); err != nil {
		return tmpl
	}
	return buf.String()
}
