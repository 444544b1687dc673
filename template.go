package msgfmt

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

///////////////////////////////////////////////////////////////////////////////
// AST DEFINITIONS
///////////////////////////////////////////////////////////////////////////////

// Segment is one piece of a compiled Pattern: *Literal, *Placeholder or *Selector.
type Segment interface {
	segment()
}

// Pattern is the compiled form of one message value.
type Pattern []Segment

// Literal is verbatim output text.
type Literal struct {
	Text string
}

// Placeholder is replaced by the named argument.
type Placeholder struct {
	Name string
}

// Selector picks one branch by comparing the named argument with each guard.
// Default indexes the branch marked with '*'.
type Selector struct {
	Name     string
	Branches []Branch
	Default  int
}

// Branch is one variant of a Selector.
type Branch struct {
	Guard   Guard
	Pattern Pattern
}

// Guard is the key of a selector variant: a number or a plain string.
type Guard struct {
	Text     string
	Number   float64
	IsNumber bool
}

func (*Literal) segment()     {}
func (*Placeholder) segment() {}
func (*Selector) segment()    {}

// Clone returns a deep copy of p.
func (p Pattern) Clone() Pattern {
	if p == nil {
		return nil
	}
	cp := make(Pattern, len(p))
	for i, seg := range p {
		switch s := seg.(type) {
		case *Literal:
			cp[i] = &Literal{Text: s.Text}
		case *Placeholder:
			cp[i] = &Placeholder{Name: s.Name}
		case *Selector:
			sel := &Selector{Name: s.Name, Default: s.Default, Branches: make([]Branch, len(s.Branches))}
			for j, b := range s.Branches {
				sel.Branches[j] = Branch{Guard: b.Guard, Pattern: b.Pattern.Clone()}
			}
			cp[i] = sel
		}
	}
	return cp
}

///////////////////////////////////////////////////////////////////////////////
// RESOURCE COMPILER
///////////////////////////////////////////////////////////////////////////////

// entry is one "key = pattern" definition with its continuation lines joined
// by '\n'. lines holds the source line number of each joined line.
type entry struct {
	key   string
	text  string
	lines []int
}

// Compile parses resource text into its messages.
//
// Each entry is "key = pattern". A line starting with whitespace continues
// the previous entry, and so does every line while a '{' of the entry is
// still open. Blank lines and lines starting with '#' are skipped. When a key
// is defined twice the later definition wins.
func Compile(src string) (map[string]Pattern, error) {
	entries, err := splitEntries(src)
	if err != nil {
		return nil, err
	}

	messages := make(map[string]Pattern, len(entries))
	for _, e := range entries {
		p := &parser{src: []rune(e.text), lines: e.lines}
		p.skipBlank()
		pattern, err := p.parsePattern(false)
		if err != nil {
			return nil, err
		}
		messages[e.key] = trimPattern(pattern)
	}
	return messages, nil
}

func splitEntries(src string) ([]*entry, error) {
	src = strings.TrimPrefix(src, "\uFEFF")

	var (
		entries []*entry
		cur     *entry
		depth   int
	)
	for i, raw := range strings.Split(src, "\n") {
		n := i + 1
		line := strings.TrimRight(raw, "\r")
		if !utf8.ValidString(line) {
			return nil, &ParseError{Line: n, Reason: "invalid UTF-8"}
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		indented := line[0] == ' ' || line[0] == '\t'
		if !indented && line[0] == '#' {
			continue
		}

		if indented || (cur != nil && depth > 0) {
			if cur == nil {
				return nil, &ParseError{Line: n, Reason: "continuation line without a message"}
			}
			text := strings.TrimLeft(line, " \t")
			cur.text += "\n" + text
			cur.lines = append(cur.lines, n)
			depth += braceDelta(text)
			continue
		}

		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			return nil, &ParseError{Line: n, Reason: "expected '=' after message key"}
		}
		key := strings.TrimSpace(line[:eq])
		if !validKey(key) {
			return nil, &ParseError{Line: n, Reason: fmt.Sprintf("invalid message key %q", key)}
		}
		value := strings.TrimLeft(line[eq+1:], " \t")
		cur = &entry{key: key, text: value, lines: []int{n}}
		entries = append(entries, cur)
		depth = braceDelta(value)
	}
	return entries, nil
}

// braceDelta counts unescaped '{' minus unescaped '}'.
func braceDelta(s string) int {
	d := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '{':
			d++
		case '}':
			d--
		}
	}
	return d
}

func validKey(key string) bool {
	if key == "" {
		return false
	}
	for _, r := range key {
		if !isNameRune(r) && r != '.' {
			return false
		}
	}
	return true
}

func isNameRune(r rune) bool {
	return r == '_' || r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

///////////////////////////////////////////////////////////////////////////////
// PATTERN PARSER
///////////////////////////////////////////////////////////////////////////////

type parser struct {
	src   []rune
	pos   int
	lines []int
}

func (p *parser) errorf(format string, args ...any) error {
	nl := 0
	for i := 0; i < p.pos && i < len(p.src); i++ {
		if p.src[i] == '\n' {
			nl++
		}
	}
	if nl >= len(p.lines) {
		nl = len(p.lines) - 1
	}
	return &ParseError{Line: p.lines[nl], Reason: fmt.Sprintf(format, args...)}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) skipInline() {
	for !p.eof() && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) skipBlank() {
	for !p.eof() && unicode.IsSpace(p.src[p.pos]) {
		p.pos++
	}
}

// variantAhead reports whether the newline at pos starts a new variant or
// closes the enclosing selector.
func (p *parser) variantAhead() bool {
	i := p.pos + 1
	for i < len(p.src) && (p.src[i] == ' ' || p.src[i] == '\t') {
		i++
	}
	if i >= len(p.src) {
		return false
	}
	switch p.src[i] {
	case '[', '*', '}':
		return true
	}
	return false
}

// parsePattern reads segments until the end of input or, inside a selector
// variant, until the next variant or the closing '}'. The terminator is not
// consumed.
func (p *parser) parsePattern(inVariant bool) (Pattern, error) {
	var (
		segs Pattern
		buf  strings.Builder
	)
	flush := func() {
		if buf.Len() > 0 {
			segs = append(segs, &Literal{Text: buf.String()})
			buf.Reset()
		}
	}

	for !p.eof() {
		c := p.src[p.pos]
		switch {
		case c == '\\':
			if p.pos+1 >= len(p.src) {
				return nil, p.errorf("unterminated escape")
			}
			switch esc := p.src[p.pos+1]; esc {
			case '{', '}', '\\', '[', '*':
				buf.WriteRune(esc)
				p.pos += 2
			default:
				return nil, p.errorf("unknown escape \\%c", esc)
			}
		case c == '{':
			flush()
			seg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			segs = append(segs, seg)
		case c == '}':
			if inVariant {
				flush()
				return segs, nil
			}
			return nil, p.errorf("unbalanced '}'")
		case c == '\n' && inVariant && p.variantAhead():
			flush()
			return segs, nil
		default:
			buf.WriteRune(c)
			p.pos++
		}
	}

	if inVariant {
		return nil, p.errorf("unterminated selector")
	}
	flush()
	return segs, nil
}

// parseExpression parses "{$name}" or "{$name -> variants}" starting at '{'.
func (p *parser) parseExpression() (Segment, error) {
	p.pos++
	p.skipBlank()
	if p.eof() {
		return nil, p.errorf("unterminated placeholder")
	}
	if p.src[p.pos] != '$' {
		return nil, p.errorf("expected '$' after '{', found %q", p.src[p.pos])
	}
	p.pos++

	start := p.pos
	for !p.eof() && isNameRune(p.src[p.pos]) {
		if p.src[p.pos] == '-' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '>' {
			break
		}
		p.pos++
	}
	name := string(p.src[start:p.pos])
	if name == "" {
		return nil, p.errorf("missing variable name")
	}

	p.skipBlank()
	switch {
	case p.eof():
		return nil, p.errorf("unterminated placeholder")
	case p.src[p.pos] == '}':
		p.pos++
		return &Placeholder{Name: name}, nil
	case p.src[p.pos] == '-' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '>':
		p.pos += 2
		return p.parseSelector(name)
	default:
		return nil, p.errorf("unexpected %q in placeholder", p.src[p.pos])
	}
}

func (p *parser) parseSelector(name string) (Segment, error) {
	sel := &Selector{Name: name, Default: -1}

	for {
		p.skipBlank()
		if p.eof() {
			return nil, p.errorf("unterminated selector")
		}
		if p.src[p.pos] == '}' {
			p.pos++
			break
		}

		isDefault := false
		if p.src[p.pos] == '*' {
			if sel.Default >= 0 {
				return nil, p.errorf("selector $%s has more than one default branch", name)
			}
			isDefault = true
			p.pos++
		}
		if p.eof() || p.src[p.pos] != '[' {
			return nil, p.errorf("expected '[' to open a variant")
		}
		p.pos++

		guard, err := p.parseGuard()
		if err != nil {
			return nil, err
		}

		p.skipInline()
		if !p.eof() && p.src[p.pos] == '\n' && !p.variantAhead() {
			p.pos++
		}
		pattern, err := p.parsePattern(true)
		if err != nil {
			return nil, err
		}

		if isDefault {
			sel.Default = len(sel.Branches)
		}
		sel.Branches = append(sel.Branches, Branch{Guard: guard, Pattern: trimPattern(pattern)})
	}

	if sel.Default < 0 {
		return nil, p.errorf("selector $%s has no default branch", name)
	}
	return sel, nil
}

func (p *parser) parseGuard() (Guard, error) {
	start := p.pos
	for !p.eof() && p.src[p.pos] != ']' {
		if p.src[p.pos] == '\n' || p.src[p.pos] == '{' || p.src[p.pos] == '}' {
			return Guard{}, p.errorf("unterminated variant key")
		}
		p.pos++
	}
	if p.eof() {
		return Guard{}, p.errorf("unterminated variant key")
	}
	text := strings.TrimSpace(string(p.src[start:p.pos]))
	p.pos++
	if text == "" {
		return Guard{}, p.errorf("empty variant key")
	}

	g := Guard{Text: text}
	if n, err := strconv.ParseFloat(text, 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
		g.Number = n
		g.IsNumber = true
	}
	return g, nil
}

// trimPattern drops trailing whitespace of the last literal.
func trimPattern(p Pattern) Pattern {
	if len(p) == 0 {
		return nil
	}
	lit, ok := p[len(p)-1].(*Literal)
	if !ok {
		return p
	}
	text := strings.TrimRight(lit.Text, " \t\n")
	if text == "" {
		return trimPattern(p[:len(p)-1])
	}
	p[len(p)-1] = &Literal{Text: text}
	return p
}
