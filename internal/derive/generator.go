package derive

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"grammarlab/internal/grammar"
)

// GeneratedString is a member of the language. Value is "ε" for the empty
// string; Length counts the characters of the real string.
type GeneratedString struct {
	Value  string `json:"value"`
	Length int    `json:"length"`
}

type Generator struct {
	g      *grammar.Grammar
	Limits Limits
}

func NewGenerator(g *grammar.Grammar) *Generator {
	return &Generator{g: g, Limits: DefaultGenerateLimits}
}

// GenerateStrings returns up to count of the shortest strings of g.
func GenerateStrings(g *grammar.Grammar, count int) []GeneratedString {
	return NewGenerator(g).Generate(count)
}

// GenerateUpToLength returns the strings of g no longer than maxLength.
func GenerateUpToLength(g *grammar.Grammar, maxLength int) []GeneratedString {
	return NewGenerator(g).GenerateUpToLength(maxLength)
}

// Generate collects up to count distinct strings, exploring shorter
// expansions first, and returns them sorted by length then value.
func (gen *Generator) Generate(count int) []GeneratedString {
	if count <= 0 {
		return nil
	}
	c := newCollector()
	Search(gen.g, Policy{
		Order: ShortestFirst,
		Goal:  gen.terminal,
		Accept: func(s *State) bool {
			c.add(s.Form)
			return len(c.out) < count
		},
	}, gen.Limits)
	return c.sorted()
}

// GenerateUpToLength collects every distinct string of at most maxLength
// characters found within the iteration limit. Forms longer than
// LengthFactor × maxLength tokens are dropped; the depth limit does not
// apply here.
func (gen *Generator) GenerateUpToLength(maxLength int) []GeneratedString {
	if maxLength < 0 {
		return nil
	}
	lim := gen.Limits
	lim.MaxDepth = 0
	// a factor too large to multiply out leaves forms unbounded
	bounded := lim.LengthFactor > 0 && maxLength <= math.MaxInt/lim.LengthFactor
	maxForm := 0
	if bounded {
		maxForm = lim.LengthFactor * maxLength
	}

	c := newCollector()
	Search(gen.g, Policy{
		Order: ShortestFirst,
		Goal:  gen.terminal,
		Prune: func(form []string) bool {
			return bounded && len(form) > maxForm
		},
		Accept: func(s *State) bool {
			if utf8.RuneCountInString(grammar.Join(s.Form)) <= maxLength {
				c.add(s.Form)
			}
			return true
		},
	}, lim)
	return c.sorted()
}

func (gen *Generator) terminal(form []string) bool {
	return AllTerminal(gen.g, form)
}

type collector struct {
	seen map[string]bool
	out  []GeneratedString
}

func newCollector() *collector {
	return &collector{seen: map[string]bool{}}
}

func (c *collector) add(form []string) {
	s := grammar.Join(form)
	value := s
	if s == "" {
		value = grammar.Epsilon
	}
	if c.seen[value] {
		return
	}
	c.seen[value] = true
	c.out = append(c.out, GeneratedString{Value: value, Length: utf8.RuneCountInString(s)})
}

// sorted orders by length, then byte-wise by value. Search depth only
// approximates string length, so the final order is established here.
func (c *collector) sorted() []GeneratedString {
	slices.SortFunc(c.out, func(a, b GeneratedString) int {
		if n := cmp.Compare(a.Length, b.Length); n != 0 {
			return n
		}
		return strings.Compare(a.Value, b.Value)
	})
	return c.out
}
