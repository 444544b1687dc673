// Command msglint checks a directory of messages_<tag>.ftl resources for
// syntax errors, invalid locale tags and keys that differ between locales.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/yaml.v3"

	"github.com/lifei6671/msgfmt"
	"github.com/lifei6671/msgfmt/cmd/msglint/checker"
)

func main() {
	dir := flag.String("d", msgfmt.DefaultResourceDir, "directory of messages_<tag>.ftl files")
	ref := flag.String("ref", msgfmt.DefaultLocale, "reference locale for redundant keys")
	format := flag.String("format", "text", "report format: text or yaml")
	failOnError := flag.Bool("fail", false, "exit with code 1 if any issue found")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})))

	slog.Debug("checking resources", slog.String("dir", *dir), slog.String("ref", *ref))
	res, err := checker.CheckDir(*dir, *ref)
	if err != nil {
		slog.Error("check failed", tint.Err(err))
		os.Exit(1)
	}

	switch *format {
	case "yaml":
		err = writeYAML(os.Stdout, res)
	case "text":
		err = writeText(os.Stdout, res)
	default:
		slog.Error("unknown report format", slog.String("format", *format))
		os.Exit(2)
	}
	if err != nil {
		slog.Error("write report", tint.Err(err))
		os.Exit(1)
	}

	if *failOnError && res.HasIssues() {
		os.Exit(1)
	}
}

func writeYAML(w io.Writer, res *checker.Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(res); err != nil {
		return err
	}
	return enc.Close()
}

func writeText(w io.Writer, res *checker.Result) error {
	var b strings.Builder
	b.WriteString("=== MESSAGE CHECK RESULT ===\n")
	fmt.Fprintf(&b, "Directory: %s\n", res.Dir)
	tags := make([]string, 0, len(res.Locales))
	for _, l := range res.Locales {
		tags = append(tags, l.Tag)
	}
	fmt.Fprintf(&b, "Locales: %s\n", strings.Join(tags, ", "))
	fmt.Fprintf(&b, "Total keys: %d\n", len(res.AllKeys))
	if len(res.Locales) > 0 && !res.ReferenceFound {
		fmt.Fprintf(&b, "Reference locale %q not found\n", res.Reference)
	}

	for _, l := range res.Locales {
		fmt.Fprintf(&b, "\n--- [%s] %s ---\n", l.Tag, l.File)
		if !l.ValidTag {
			b.WriteString("Invalid locale tag\n")
		}
		writeKeys(&b, "Missing keys", l.Missing)
		writeKeys(&b, "Redundant keys", l.Redundant)
		if l.SyntaxError != "" {
			fmt.Fprintf(&b, "Syntax error: %s\n", l.SyntaxError)
		} else {
			b.WriteString("Syntax error: None\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeKeys(b *strings.Builder, title string, keys []string) {
	if len(keys) == 0 {
		fmt.Fprintf(b, "%s: None\n", title)
		return
	}
	fmt.Fprintf(b, "%s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(b, "  - %s\n", k)
	}
}
