package msgfmt

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
)

// PluralRule maps a number to a plural category name. Selector guards that
// are category names match a numeric argument through the bundle's rule.
type PluralRule func(n float64) string

// Plural category names usable as selector guards.
const (
	PluralZero  = "zero"
	PluralOne   = "one"
	PluralTwo   = "two"
	PluralFew   = "few"
	PluralMany  = "many"
	PluralOther = "other"
)

func isPluralCategory(s string) bool {
	switch s {
	case PluralZero, PluralOne, PluralTwo, PluralFew, PluralMany, PluralOther:
		return true
	}
	return false
}

// CLDRPluralRule returns the cardinal plural rule of locale. Tags that do not
// parse get a rule that always answers "other".
func CLDRPluralRule(locale string) PluralRule {
	tag, err := language.Parse(locale)
	if err != nil {
		return func(float64) string { return PluralOther }
	}
	return func(n float64) string {
		i, v, w, f, t, ok := operands(n)
		if !ok {
			return PluralOther
		}
		return formName(plural.Cardinal.MatchPlural(tag, i, v, w, f, t))
	}
}

// operands computes the CLDR plural operands of n from its shortest decimal
// representation.
func operands(n float64) (i, v, w, f, t int, ok bool) {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, 0, 0, 0, 0, false
	}
	s := strconv.FormatFloat(math.Abs(n), 'f', -1, 64)
	intPart, frac, _ := strings.Cut(s, ".")
	if len(intPart) > 18 || len(frac) > 18 {
		return 0, 0, 0, 0, 0, false
	}

	i, _ = strconv.Atoi(intPart)
	if frac != "" {
		v = len(frac)
		f, _ = strconv.Atoi(frac)
		trimmed := strings.TrimRight(frac, "0")
		w = len(trimmed)
		if trimmed != "" {
			t, _ = strconv.Atoi(trimmed)
		}
	}
	return i, v, w, f, t, true
}

func formName(f plural.Form) string {
	switch f {
	case plural.Zero:
		return PluralZero
	case plural.One:
		return PluralOne
	case plural.Two:
		return PluralTwo
	case plural.Few:
		return PluralFew
	case plural.Many:
		return PluralMany
	}
	return PluralOther
}
