package pathspec

import (
	"path/filepath"
	"strings"
)

// Kind identifies how a Segment selects a child entry.
type Kind int

const (
	KindLiteral Kind = iota
	KindWildcard
	KindAlternatives
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindWildcard:
		return "wildcard"
	case KindAlternatives:
		return "alternatives"
	default:
		return "unknown"
	}
}

// Segment is one step of a Pattern.
type Segment struct {
	kind  Kind
	names []string
}

// Literal matches the child called name. An empty name selects any entry,
// the same as Wildcard.
func Literal(name string) Segment {
	if name == "" {
		return Wildcard()
	}
	return Segment{kind: KindLiteral, names: []string{name}}
}

// Wildcard matches the first entry of a directory listing.
func Wildcard() Segment {
	return Segment{kind: KindWildcard}
}

// Alternatives tries each name in order; the first existing directory that
// lets the rest of the pattern resolve wins.
func Alternatives(names ...string) Segment {
	cp := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		cp = append(cp, name)
	}
	return Segment{kind: KindAlternatives, names: cp}
}

// Kind reports the segment variant.
func (s Segment) Kind() Kind {
	return s.kind
}

// Names returns the candidate names. Wildcards have none.
func (s Segment) Names() []string {
	if len(s.names) == 0 {
		return nil
	}
	cp := make([]string, len(s.names))
	copy(cp, s.names)
	return cp
}

func (s Segment) String() string {
	switch s.kind {
	case KindLiteral:
		return s.names[0]
	case KindAlternatives:
		return "{" + strings.Join(s.names, ",") + "}"
	default:
		return "*"
	}
}

// Pattern is an ordered sequence of segments.
type Pattern []Segment

// Literals builds a pattern made only of literal segments. Empty names become
// wildcards.
func Literals(names ...string) Pattern {
	p := make(Pattern, 0, len(names))
	for _, name := range names {
		p = append(p, Literal(name))
	}
	return p
}

// Join renders root followed by every segment, used to report the full
// requested path when resolution fails.
func (p Pattern) Join(root string) string {
	parts := make([]string, 0, len(p)+1)
	parts = append(parts, root)
	for _, seg := range p {
		parts = append(parts, seg.String())
	}
	return filepath.Join(parts...)
}

func (p Pattern) String() string {
	parts := make([]string, 0, len(p))
	for _, seg := range p {
		parts = append(parts, seg.String())
	}
	return strings.Join(parts, "/")
}
