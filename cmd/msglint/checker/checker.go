// Package checker lints a directory of message resources: every locale is
// compiled on its own and its keys are compared with the other locales.
package checker

import (
	"errors"
	"io/fs"
	"maps"
	"os"
	"slices"

	"golang.org/x/text/language"

	"github.com/lifei6671/msgfmt"
)

// Locale is the report of one resource file.
type Locale struct {
	Tag  string `yaml:"tag"`
	File string `yaml:"file"`
	// ValidTag reports whether Tag is a well-formed BCP 47 tag.
	ValidTag bool     `yaml:"valid_tag"`
	Keys     int      `yaml:"keys"`
	Missing  []string `yaml:"missing,omitempty"`
	// Redundant keys are absent from the reference locale.
	Redundant   []string `yaml:"redundant,omitempty"`
	SyntaxError string   `yaml:"syntax_error,omitempty"`

	err *msgfmt.ParseError
}

// Err returns the parse error of the resource, if any.
func (l *Locale) Err() *msgfmt.ParseError {
	return l.err
}

func (l *Locale) hasIssues() bool {
	return !l.ValidTag || len(l.Missing) > 0 || len(l.Redundant) > 0 || l.err != nil
}

type Result struct {
	Dir       string `yaml:"dir"`
	Reference string `yaml:"reference"`
	// ReferenceFound is false when no resource exists for Reference.
	ReferenceFound bool      `yaml:"reference_found"`
	AllKeys        []string  `yaml:"all_keys"`
	Locales        []*Locale `yaml:"locales"`
}

// HasIssues reports whether any locale has a problem or the reference locale
// is absent. An empty directory has no issues.
func (r *Result) HasIssues() bool {
	if len(r.Locales) > 0 && !r.ReferenceFound {
		return true
	}
	return slices.ContainsFunc(r.Locales, (*Locale).hasIssues)
}

// Locale returns the report of tag.
func (r *Result) Locale(tag string) (*Locale, bool) {
	i := slices.IndexFunc(r.Locales, func(l *Locale) bool { return l.Tag == tag })
	if i < 0 {
		return nil, false
	}
	return r.Locales[i], true
}

// CheckDir lints the resources of directory dir against reference locale ref.
func CheckDir(dir, ref string) (*Result, error) {
	res, err := Check(os.DirFS(dir), ".", ref)
	if err != nil {
		return nil, err
	}
	res.Dir = dir
	return res, nil
}

// Check lints the resources in dir of fsys. Only I/O failures are returned as
// errors; syntax errors are part of the result.
func Check(fsys fs.FS, dir, ref string) (*Result, error) {
	resources, err := msgfmt.ScanFS(fsys, dir)
	if err != nil {
		return nil, err
	}

	keys := make(map[string]map[string]struct{}, len(resources))
	all := make(map[string]struct{})
	result := &Result{Dir: dir, Reference: ref}

	for _, tag := range slices.Sorted(maps.Keys(resources)) {
		raw := resources[tag]
		loc := &Locale{Tag: tag, File: raw.File}
		_, perr := language.Parse(tag)
		loc.ValidTag = perr == nil

		messages, err := msgfmt.Compile(raw.Text)
		if err != nil {
			var pe *msgfmt.ParseError
			if !errors.As(err, &pe) {
				return nil, err
			}
			pe.File = raw.File
			loc.err = pe
			loc.SyntaxError = pe.Error()
		} else {
			set := make(map[string]struct{}, len(messages))
			for k := range messages {
				set[k] = struct{}{}
				all[k] = struct{}{}
			}
			keys[tag] = set
			loc.Keys = len(set)
		}
		result.Locales = append(result.Locales, loc)
	}

	result.AllKeys = slices.Sorted(maps.Keys(all))
	refKeys, refOK := keys[ref]
	_, result.ReferenceFound = resources[ref]

	for _, loc := range result.Locales {
		set, ok := keys[loc.Tag]
		if !ok {
			// Keys of a file that failed to compile are unknown.
			continue
		}
		for _, k := range result.AllKeys {
			if _, ok := set[k]; !ok {
				loc.Missing = append(loc.Missing, k)
			}
		}
		if !refOK || loc.Tag == ref {
			continue
		}
		for _, k := range slices.Sorted(maps.Keys(set)) {
			if _, ok := refKeys[k]; !ok {
				loc.Redundant = append(loc.Redundant, k)
			}
		}
	}
	return result, nil
}
