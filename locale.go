package msgfmt

import (
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// Localizer formats messages along a fallback chain of locales.
type Localizer struct {
	store *Store
	langs []string
}

// Localizer returns a view that tries each of langs, then their parent tags,
// then the store default locale. Each step is an exact lookup.
func (s *Store) Localizer(langs ...string) *Localizer {
	return &Localizer{
		store: s,
		langs: fallbackChain(langs, s.defaultLocale),
	}
}

// Languages returns the fallback chain.
func (l *Localizer) Languages() []string {
	return slices.Clone(l.langs)
}

// Format renders key with the first locale in the chain that defines it.
func (l *Localizer) Format(key string, args Args) (string, bool, error) {
	bundles, err := l.store.load()
	if err != nil {
		return "", false, err
	}
	for _, lang := range l.langs {
		b, ok := bundles[lang]
		if !ok {
			continue
		}
		if out, ok := b.Format(key, args); ok {
			return out, true, nil
		}
	}
	return "", false, nil
}

// T is Format for call sites that only want text: the key itself is returned
// when no translation exists or the store failed to build.
func (l *Localizer) T(key string, args Args) string {
	out, ok, err := l.Format(key, args)
	if err != nil || !ok {
		return key
	}
	return out
}

func fallbackChain(langs []string, def string) []string {
	var chain []string
	add := func(tag string) {
		tag = strings.TrimSpace(tag)
		if tag == "" || slices.Contains(chain, tag) {
			return
		}
		chain = append(chain, tag)
	}

	for _, lang := range langs {
		add(lang)
		tag, err := language.Parse(strings.TrimSpace(lang))
		if err != nil {
			continue
		}
		for p := tag.Parent(); p != language.Und; p = p.Parent() {
			add(p.String())
		}
	}
	add(def)
	return chain
}

// ParseAcceptLanguage turns an Accept-Language header into locale tags
// ordered by preference. Malformed headers yield nil.
func ParseAcceptLanguage(header string) []string {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return nil
	}
	res := make([]string, 0, len(tags))
	for _, t := range tags {
		res = append(res, t.String())
	}
	return res
}
