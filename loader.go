package msgfmt

import (
	"io/fs"
	"os"
	"path"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Resource files are named messages_<tag>.ftl and live directly in the
// resource directory.
const (
	ResourcePrefix = "messages_"
	ResourceExt    = ".ftl"
)

// RawResource is the unparsed content of one locale resource file.
type RawResource struct {
	Locale string
	File   string
	Text   string
}

// Scan reads every locale resource file found directly in dir.
func Scan(dir string) (map[string]RawResource, error) {
	return ScanFS(os.DirFS(dir), ".")
}

// ScanFS reads every locale resource file found directly in dir of fsys.
// Subdirectories and files that do not follow the naming convention are
// skipped. Any read failure aborts the whole scan.
func ScanFS(fsys fs.FS, dir string) (map[string]RawResource, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, &IOError{Path: dir, Err: err}
	}

	var matched []RawResource
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		locale, ok := LocaleFromFileName(e.Name())
		if !ok {
			continue
		}
		matched = append(matched, RawResource{Locale: locale, File: e.Name()})
	}

	var g errgroup.Group
	for i := range matched {
		g.Go(func() error {
			p := path.Join(dir, matched[i].File)
			data, err := fs.ReadFile(fsys, p)
			if err != nil {
				return &IOError{Path: p, Err: err}
			}
			matched[i].Text = string(data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := make(map[string]RawResource, len(matched))
	for _, r := range matched {
		res[r.Locale] = r
	}
	return res, nil
}

// LocaleFromFileName extracts the locale tag from a resource file name.
// The tag is taken verbatim; an empty tag does not match.
func LocaleFromFileName(name string) (string, bool) {
	if !strings.HasPrefix(name, ResourcePrefix) || !strings.HasSuffix(name, ResourceExt) {
		return "", false
	}
	if len(name) <= len(ResourcePrefix)+len(ResourceExt) {
		return "", false
	}
	return name[len(ResourcePrefix) : len(name)-len(ResourceExt)], true
}
