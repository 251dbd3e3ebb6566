package dom

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSelector is wrapped by every selector parse error.
var ErrSelector = errors.New("invalid selector")

type attrMatcher struct {
	name     string
	value    string
	hasValue bool
}

type compound struct {
	tag     string
	id      string
	classes []string
	attrs   []attrMatcher
}

type combinator int

const (
	descendant combinator = iota
	child
)

// complexSel is a chain of compounds; combinators[i] joins parts[i] and
// parts[i+1].
type complexSel struct {
	parts       []compound
	combinators []combinator
}

// Selector is a parsed selector list. Supported: type, #id, .class,
// [attr], [attr=value] with optional quotes, compound selectors, the
// descendant and child (>) combinators, and comma-separated lists.
type Selector struct {
	source string
	groups []complexSel
}

// String returns the source text.
func (s *Selector) String() string { return s.source }

// ParseSelector parses source.
func ParseSelector(source string) (*Selector, error) {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty selector", ErrSelector)
	}

	sel := &Selector{source: source}
	for _, group := range strings.Split(trimmed, ",") {
		cs, err := parseComplex(strings.TrimSpace(group))
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrSelector, source, err)
		}
		sel.groups = append(sel.groups, cs)
	}
	return sel, nil
}

func parseComplex(src string) (complexSel, error) {
	if src == "" {
		return complexSel{}, errors.New("empty group")
	}

	var cs complexSel
	pending := descendant
	expectCompound := true

	for i := 0; i < len(src); {
		switch c := src[i]; {
		case c == ' ' || c == '\t' || c == '\n':
			i++
		case c == '>':
			if expectCompound {
				return cs, errors.New("unexpected '>'")
			}
			pending = child
			expectCompound = true
			i++
		default:
			if !expectCompound && pending == descendant && i > 0 && !isSpace(src[i-1]) {
				return cs, fmt.Errorf("unexpected %q", c)
			}
			comp, n, err := parseCompound(src[i:])
			if err != nil {
				return cs, err
			}
			if len(cs.parts) > 0 {
				cs.combinators = append(cs.combinators, pending)
			}
			cs.parts = append(cs.parts, comp)
			pending = descendant
			expectCompound = false
			i += n
		}
	}

	if expectCompound {
		return cs, errors.New("dangling combinator")
	}
	return cs, nil
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' }

func isIdent(c byte) bool {
	return c == '-' || c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func readIdent(src string) string {
	i := 0
	for i < len(src) && isIdent(src[i]) {
		i++
	}
	return src[:i]
}

func parseCompound(src string) (compound, int, error) {
	var comp compound
	i := 0

	if i < len(src) && src[i] == '*' {
		i++
	} else if ident := readIdent(src); ident != "" {
		comp.tag = strings.ToLower(ident)
		i += len(ident)
	}

	for i < len(src) {
		switch src[i] {
		case '#':
			ident := readIdent(src[i+1:])
			if ident == "" {
				return comp, i, errors.New("empty id")
			}
			comp.id = ident
			i += 1 + len(ident)
		case '.':
			ident := readIdent(src[i+1:])
			if ident == "" {
				return comp, i, errors.New("empty class")
			}
			comp.classes = append(comp.classes, ident)
			i += 1 + len(ident)
		case '[':
			end := strings.IndexByte(src[i:], ']')
			if end < 0 {
				return comp, i, errors.New("unterminated attribute selector")
			}
			m, err := parseAttr(src[i+1 : i+end])
			if err != nil {
				return comp, i, err
			}
			comp.attrs = append(comp.attrs, m)
			i += end + 1
		default:
			if i == 0 {
				return comp, i, fmt.Errorf("unexpected %q", src[i])
			}
			return comp, i, nil
		}
	}
	return comp, i, nil
}

func parseAttr(body string) (attrMatcher, error) {
	name, value, hasValue := strings.Cut(body, "=")
	name = strings.TrimSpace(name)
	if name == "" || readIdent(name) != name {
		return attrMatcher{}, fmt.Errorf("bad attribute name %q", name)
	}

	m := attrMatcher{name: foldName(name), hasValue: hasValue}
	if hasValue {
		value = strings.TrimSpace(value)
		if len(value) >= 2 && (value[0] == '"' || value[0] == '\'') && value[len(value)-1] == value[0] {
			value = value[1 : len(value)-1]
		}
		m.value = value
	}
	return m, nil
}

func (c compound) match(n *Node) bool {
	if c.tag != "" && c.tag != n.Tag() {
		return false
	}
	if c.id != "" && c.id != n.ID() {
		return false
	}
	for _, class := range c.classes {
		if !n.HasClass(class) {
			return false
		}
	}
	for _, a := range c.attrs {
		v, ok := n.GetAttribute(a.name)
		if !ok || a.hasValue && v != a.value {
			return false
		}
	}
	return true
}

// Match reports whether n matches any group of the selector.
func (s *Selector) Match(n *Node) bool {
	for _, g := range s.groups {
		if g.match(n, len(g.parts)-1) {
			return true
		}
	}
	return false
}

func (cs complexSel) match(n *Node, idx int) bool {
	if !cs.parts[idx].match(n) {
		return false
	}
	if idx == 0 {
		return true
	}

	switch cs.combinators[idx-1] {
	case child:
		parent := n.Parent()
		return parent != nil && cs.match(parent, idx-1)
	default:
		for anc := n.Parent(); anc != nil; anc = anc.Parent() {
			if cs.match(anc, idx-1) {
				return true
			}
		}
		return false
	}
}
