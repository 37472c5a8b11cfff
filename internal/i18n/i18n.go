// Package i18n хранит тексты бота и форматирует их для выбранного языка.
package i18n

import (
	"embed"
	"fmt"
	"path"
	"strings"

	"github.com/Freeeeeet/lesson_bot/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFiles embed.FS

// Params именованные параметры фразы, подставляются вместо {name}
type Params map[string]string

// Translator возвращает текст фразы на нужном языке
type Translator interface {
	Translate(locale model.Locale, key string, params Params) string
}

// Catalog словари фраз для всех поддерживаемых языков
type Catalog struct {
	phrases  map[model.Locale]map[string]string
	fallback model.Locale
}

// Load загружает встроенные словари
func Load() (*Catalog, error) {
	c := &Catalog{
		phrases:  make(map[model.Locale]map[string]string),
		fallback: model.DefaultLocale,
	}

	for _, locale := range model.Locales() {
		data, err := localeFiles.ReadFile(path.Join("locales", string(locale)+".yaml"))
		if err != nil {
			return nil, fmt.Errorf("read %s catalog: %w", locale, err)
		}

		var tree map[string]any
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("parse %s catalog: %w", locale, err)
		}

		flat := make(map[string]string)
		flatten("", tree, flat)
		c.phrases[locale] = flat
	}

	return c, nil
}

// MustLoad как Load, но паникует при ошибке. Словари встроены в бинарник,
// поэтому ошибка здесь означает битый YAML в репозитории.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Translate возвращает фразу для языка. Если фразы нет, ищет в языке по умолчанию,
// а затем возвращает сам ключ.
func (c *Catalog) Translate(locale model.Locale, key string, params Params) string {
	text, ok := c.phrases[locale][key]
	if !ok {
		text, ok = c.phrases[c.fallback][key]
	}
	if !ok {
		return key
	}
	return substitute(text, params)
}

// Has проверяет наличие фразы в конкретном языке без fallback
func (c *Catalog) Has(locale model.Locale, key string) bool {
	_, ok := c.phrases[locale][key]
	return ok
}

// Keys возвращает все ключи словаря языка
func (c *Catalog) Keys(locale model.Locale) []string {
	keys := make([]string, 0, len(c.phrases[locale]))
	for k := range c.phrases[locale] {
		keys = append(keys, k)
	}
	return keys
}

func substitute(text string, params Params) string {
	if len(params) == 0 {
		return text
	}
	pairs := make([]string, 0, len(params)*2)
	for k, v := range params {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case string:
			out[key] = val
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}
