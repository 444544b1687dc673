package msgfmt

import (
	"fmt"
	"strconv"
	"strings"
)

// Args holds named format arguments. Strings are compared as text by
// selectors, Go integer and float values as numbers. Any other value is
// rendered with fmt.Sprint and compared as text.
type Args map[string]any

// Format evaluates the pattern against args. rule resolves plural category
// guards for numeric arguments and may be nil.
func (p Pattern) Format(args Args, rule PluralRule) string {
	var sb strings.Builder
	p.render(&sb, args, rule)
	return sb.String()
}

func (p Pattern) render(sb *strings.Builder, args Args, rule PluralRule) {
	for _, seg := range p {
		switch s := seg.(type) {
		case *Literal:
			sb.WriteString(s.Text)
		case *Placeholder:
			v, ok := args[s.Name]
			if !ok || v == nil {
				// an absent argument renders as its reference
				sb.WriteString("{$" + s.Name + "}")
				continue
			}
			sb.WriteString(formatValue(v))
		case *Selector:
			s.choose(args, rule).render(sb, args, rule)
		}
	}
}

func (s *Selector) choose(args Args, rule PluralRule) Pattern {
	if v, ok := args[s.Name]; ok && v != nil {
		for _, b := range s.Branches {
			if b.Guard.matches(v, rule) {
				return b.Pattern
			}
		}
	}
	return s.Branches[s.Default].Pattern
}

func (g Guard) matches(v any, rule PluralRule) bool {
	if g.IsNumber {
		if eq, ok := intEqual(v, g.Text); ok {
			return eq
		}
	}
	if n, ok := toNumber(v); ok {
		if g.IsNumber {
			return g.Number == n
		}
		return rule != nil && isPluralCategory(g.Text) && rule(n) == g.Text
	}
	return formatValue(v) == g.Text
}

// intEqual compares an integer argument with an integer guard without going
// through float64. ok is false when v is not an integer or text is not an
// integer literal.
func intEqual(v any, text string) (eq, ok bool) {
	var (
		signed   int64
		unsigned uint64
		isSigned bool
	)
	switch n := v.(type) {
	case int:
		signed, isSigned = int64(n), true
	case int8:
		signed, isSigned = int64(n), true
	case int16:
		signed, isSigned = int64(n), true
	case int32:
		signed, isSigned = int64(n), true
	case int64:
		signed, isSigned = n, true
	case uint:
		unsigned = uint64(n)
	case uint8:
		unsigned = uint64(n)
	case uint16:
		unsigned = uint64(n)
	case uint32:
		unsigned = uint64(n)
	case uint64:
		unsigned = n
	default:
		return false, false
	}

	if gi, err := strconv.ParseInt(text, 10, 64); err == nil {
		if isSigned {
			return gi == signed, true
		}
		return gi >= 0 && uint64(gi) == unsigned, true
	}
	if gu, err := strconv.ParseUint(text, 10, 64); err == nil {
		// gu is above math.MaxInt64 here.
		return !isSigned && gu == unsigned, true
	}
	return false, false
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// formatValue renders numbers without grouping or locale-specific symbols.
func formatValue(v any) string {
	switch n := v.(type) {
	case string:
		return n
	case int:
		return strconv.Itoa(n)
	case int8:
		return strconv.FormatInt(int64(n), 10)
	case int16:
		return strconv.FormatInt(int64(n), 10)
	case int32:
		return strconv.FormatInt(int64(n), 10)
	case int64:
		return strconv.FormatInt(n, 10)
	case uint:
		return strconv.FormatUint(uint64(n), 10)
	case uint8:
		return strconv.FormatUint(uint64(n), 10)
	case uint16:
		return strconv.FormatUint(uint64(n), 10)
	case uint32:
		return strconv.FormatUint(uint64(n), 10)
	case uint64:
		return strconv.FormatUint(n, 10)
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
