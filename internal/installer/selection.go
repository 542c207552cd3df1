package installer

import (
	"sort"
	"strings"
)

// TokenKind classifies a single command-line selection token.
type TokenKind int

const (
	// TokenAgent is an "agent:<name>" token.
	TokenAgent TokenKind = iota
	// TokenSkill is a "skill:<name>" token.
	TokenSkill
	// TokenCommand is a "command:<name>" token.
	TokenCommand
	// TokenUnknown is anything that matches no recognized prefix.
	TokenUnknown
)

// Token is the typed parse result for one argument.
type Token struct {
	Kind TokenKind
	Name string // selection name; empty for TokenUnknown
	Raw  string // the original argument
}

// Category returns the category a recognized token selects into.
// Returns false for TokenUnknown.
func (t Token) Category() (Category, bool) {
	switch t.Kind {
	case TokenAgent:
		return Agents, true
	case TokenSkill:
		return Skills, true
	case TokenCommand:
		return Commands, true
	default:
		return "", false
	}
}

// ParseToken classifies a single argument by its category prefix.
// An empty name after a recognized prefix (e.g. "skill:") is unknown.
func ParseToken(raw string) Token {
	for _, c := range Categories {
		prefix := c.Singular() + ":"
		if name, ok := strings.CutPrefix(raw, prefix); ok && name != "" {
			kind := map[Category]TokenKind{
				Agents:   TokenAgent,
				Skills:   TokenSkill,
				Commands: TokenCommand,
			}[c]
			return Token{Kind: kind, Name: name, Raw: raw}
		}
	}
	return Token{Kind: TokenUnknown, Raw: raw}
}

// Selection is the immutable outcome of parsing all arguments. All is true
// only when zero arguments were supplied; a single argument, even an
// unrecognized one, switches the run to selective mode.
type Selection struct {
	All     bool
	names   map[Category]map[string]bool
	Unknown []string // raw unrecognized tokens, in argument order
}

// ParseArgs folds the argument list into a Selection.
func ParseArgs(args []string) Selection {
	sel := Selection{
		All:   len(args) == 0,
		names: make(map[Category]map[string]bool),
	}

	for _, raw := range args {
		tok := ParseToken(raw)
		c, ok := tok.Category()
		if !ok {
			sel.Unknown = append(sel.Unknown, tok.Raw)
			continue
		}
		if sel.names[c] == nil {
			sel.names[c] = make(map[string]bool)
		}
		sel.names[c][tok.Name] = true
	}

	return sel
}

// Wants reports whether the selection covers the named entry in a category.
func (s Selection) Wants(c Category, name string) bool {
	if s.All {
		return true
	}
	return s.names[c][name]
}

// Names returns the sorted requested names for a category.
func (s Selection) Names(c Category) []string {
	names := make([]string, 0, len(s.names[c]))
	for n := range s.names[c] {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// InScope reports whether a category participates in the run: always in
// install-all mode, otherwise only when at least one name was requested.
func (s Selection) InScope(c Category) bool {
	return s.All || len(s.names[c]) > 0
}

// Empty reports whether the selection names nothing and is not install-all.
// This is the state after a run of exclusively malformed tokens.
func (s Selection) Empty() bool {
	if s.All {
		return false
	}
	for _, c := range Categories {
		if len(s.names[c]) > 0 {
			return false
		}
	}
	return true
}

// ValidPrefixes returns the recognized token prefixes for warning messages.
func ValidPrefixes() []string {
	prefixes := make([]string, len(Categories))
	for i, c := range Categories {
		prefixes[i] = c.Singular() + ":<name>"
	}
	return prefixes
}
