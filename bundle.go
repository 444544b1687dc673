package msgfmt

import (
	"errors"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"slices"
	"sync"
)

// DefaultLocale is the last entry of every Localizer fallback chain unless
// WithDefaultLocale says otherwise.
const DefaultLocale = "en"

// Bundle is the compiled, immutable message set of one locale.
type Bundle struct {
	locale   string
	messages map[string]Pattern
	plural   PluralRule
}

// NewBundle wraps compiled messages. The bundle takes ownership of messages.
func NewBundle(locale string, messages map[string]Pattern, rule PluralRule) *Bundle {
	if messages == nil {
		messages = make(map[string]Pattern)
	}
	return &Bundle{locale: locale, messages: messages, plural: rule}
}

// Locale returns the locale tag the bundle was loaded for.
func (b *Bundle) Locale() string {
	return b.locale
}

// Pattern returns a copy of the compiled pattern of key. Changes to the copy
// do not affect the bundle.
func (b *Bundle) Pattern(key string) (Pattern, bool) {
	p, ok := b.messages[key]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// Keys returns the message keys in sorted order.
func (b *Bundle) Keys() []string {
	return slices.Sorted(maps.Keys(b.messages))
}

func (b *Bundle) Len() int {
	return len(b.messages)
}

// Format renders key with args. It reports false when the key is unknown or
// its pattern is empty.
func (b *Bundle) Format(key string, args Args) (string, bool) {
	p, ok := b.messages[key]
	if !ok || len(p) == 0 {
		return "", false
	}
	return p.Format(args, b.plural), true
}

// Store lazily builds the bundles of every locale found in a resource
// directory. The first access scans and compiles; concurrent callers wait for
// that single build. The result, including a build error, never changes
// afterwards.
type Store struct {
	fsys          fs.FS
	dir           string
	source        string
	defaultLocale string
	pluralRules   func(locale string) PluralRule
	logger        *slog.Logger

	load func() (map[string]*Bundle, error)
}

// Option configures a Store during construction.
type Option func(*Store) error

// WithDefaultLocale sets the locale appended to every Localizer chain.
func WithDefaultLocale(locale string) Option {
	return func(s *Store) error {
		if locale == "" {
			return ErrEmptyLocale
		}
		s.defaultLocale = locale
		return nil
	}
}

// WithPluralRules replaces the CLDR plural rules used for selector guards.
func WithPluralRules(factory func(locale string) PluralRule) Option {
	return func(s *Store) error {
		if factory == nil {
			return ErrNilPluralRule
		}
		s.pluralRules = factory
		return nil
	}
}

// WithLogger sets the logger used to report the build outcome.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger != nil {
			s.logger = logger
		}
		return nil
	}
}

// NewStore creates a store reading resources from directory dir.
func NewStore(dir string, opts ...Option) (*Store, error) {
	s, err := NewStoreFS(os.DirFS(dir), ".", opts...)
	if err != nil {
		return nil, err
	}
	s.source = dir
	return s, nil
}

// NewStoreFS creates a store reading resources from dir inside fsys.
func NewStoreFS(fsys fs.FS, dir string, opts ...Option) (*Store, error) {
	s := &Store{
		fsys:          fsys,
		dir:           dir,
		source:        dir,
		defaultLocale: DefaultLocale,
		pluralRules:   CLDRPluralRule,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.load = sync.OnceValues(s.build)
	return s, nil
}

func (s *Store) build() (map[string]*Bundle, error) {
	resources, err := ScanFS(s.fsys, s.dir)
	if err != nil {
		s.logger.Error("message bundles failed to load", slog.String("dir", s.source), slog.Any("error", err))
		return nil, err
	}

	bundles := make(map[string]*Bundle, len(resources))
	total := 0
	for _, locale := range slices.Sorted(maps.Keys(resources)) {
		res := resources[locale]
		messages, err := Compile(res.Text)
		if err != nil {
			var perr *ParseError
			if errors.As(err, &perr) {
				perr.File = res.File
			}
			s.logger.Error("message bundles failed to load", slog.String("dir", s.source), slog.Any("error", err))
			return nil, err
		}
		bundles[locale] = NewBundle(locale, messages, s.pluralRules(locale))
		total += len(messages)
	}

	s.logger.Info("message bundles loaded",
		slog.String("dir", s.source),
		slog.Int("locales", len(bundles)),
		slog.Int("messages", total),
	)
	return bundles, nil
}

// Bundles returns the bundles keyed by locale, building them on first use.
func (s *Store) Bundles() (map[string]*Bundle, error) {
	bundles, err := s.load()
	if err != nil {
		return nil, err
	}
	return maps.Clone(bundles), nil
}

// Bundle returns the bundle of locale.
func (s *Store) Bundle(locale string) (*Bundle, bool, error) {
	bundles, err := s.load()
	if err != nil {
		return nil, false, err
	}
	b, ok := bundles[locale]
	return b, ok, nil
}

// Locales returns the loaded locale tags in sorted order.
func (s *Store) Locales() ([]string, error) {
	bundles, err := s.load()
	if err != nil {
		return nil, err
	}
	return slices.Sorted(maps.Keys(bundles)), nil
}

// DefaultLocale returns the locale that ends every Localizer chain.
func (s *Store) DefaultLocale() string {
	return s.defaultLocale
}

// Format renders key in exactly locale. A missing locale, key or message value
// yields false with a nil error; the error is only set when the store failed
// to build.
func (s *Store) Format(locale, key string, args Args) (string, bool, error) {
	bundles, err := s.load()
	if err != nil {
		return "", false, err
	}
	b, ok := bundles[locale]
	if !ok {
		return "", false, nil
	}
	out, ok := b.Format(key, args)
	return out, ok, nil
}
