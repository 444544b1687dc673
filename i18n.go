// Package msgfmt resolves (locale, message key, arguments) into localized text.
//
// Messages live in one resource file per locale, messages_<tag>.ftl, placed
// directly in a resource directory:
//
//	# messages_en.ftl
//	greeting = Hello, {$name}!
//	items = {$count ->
//	    [0] no items
//	    [one] one item
//	   *[other] {$count} items
//	}
//
// A Store scans and compiles the directory once, on first use, and serves
// lock-free lookups afterwards. Format on the package uses a process-wide
// store whose directory comes from I18N_DIR, then the i18n.dir configuration
// key, then DefaultResourceDir.
package msgfmt

import (
	"log/slog"
	"sync"

	"github.com/lifei6671/msgfmt/config"
)

// DefaultResourceDir is used when no resource directory is configured.
const DefaultResourceDir = "i18n"

var defaultStore = sync.OnceValues(func() (*Store, error) {
	return NewStore(ResourceDir())
})

// Default returns the process-wide store.
func Default() (*Store, error) {
	return defaultStore()
}

// Format renders key for locale with the process-wide store. It reports false
// when the locale or key has no translation, and an error only when the
// resources could not be loaded.
func Format(locale, key string, args Args) (string, bool, error) {
	s, err := Default()
	if err != nil {
		return "", false, err
	}
	return s.Format(locale, key, args)
}

// ResourceDir resolves the resource directory of the process-wide store.
func ResourceDir() string {
	e, err := config.FromEnv()
	if err == nil && e.I18nDir != "" {
		return e.I18nDir
	}
	cfg, err := config.Load()
	if err != nil {
		slog.Warn("configuration unavailable, using default resource dir",
			slog.String("dir", DefaultResourceDir), slog.Any("error", err))
		return DefaultResourceDir
	}
	return cfg.GetString("i18n.dir", DefaultResourceDir)
}
