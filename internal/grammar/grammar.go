// Package grammar holds the immutable grammar model shared by the parser,
// the generator and the automaton builder, together with its persisted
// formats (JSON, text notation, EBNF) and the symbol tokenizer.
package grammar

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"
)

// Epsilon marks the empty string on the right side of a production and in
// parser input.
const Epsilon = "ε"

var ErrInvalidGrammar = errors.New("invalid grammar")

type Class int

const (
	ContextFree Class = iota // Tipo 2
	Regular                  // Tipo 3
)

func (c Class) String() string {
	switch c {
	case ContextFree:
		return "Tipo 2"
	case Regular:
		return "Tipo 3"
	}
	return fmt.Sprintf("Class(%d)", int(c))
}

// ParseClass accepts the persisted names plus a few spellings used in
// grammar files.
func ParseClass(s string) (Class, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tipo 2", "type 2", "2", "context-free", "cfg":
		return ContextFree, nil
	case "tipo 3", "type 3", "3", "regular":
		return Regular, nil
	}
	return 0, fmt.Errorf("unknown grammar type %q, want \"Tipo 2\" or \"Tipo 3\"", s)
}

type Production struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// IsEmpty reports whether the production rewrites to the empty string.
func (p Production) IsEmpty() bool {
	r := strings.TrimSpace(p.Right)
	return r == "" || r == Epsilon
}

func (p Production) String() string {
	if p.IsEmpty() {
		return p.Left + " → " + Epsilon
	}
	return p.Left + " → " + p.Right
}

// Definition is the persisted grammar record. It carries no derived state
// and can be edited freely; New turns it into a Grammar.
type Definition struct {
	Name         string       `json:"name"`
	Type         string       `json:"type"`
	NonTerminals []string     `json:"nonTerminals"`
	Terminals    []string     `json:"terminals"`
	Productions  []Production `json:"productions"`
	StartSymbol  string       `json:"startSymbol"`
}

// ValidationError lists every structural problem found in a definition.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid grammar: " + e.Problems[0]
	}
	return fmt.Sprintf("invalid grammar: %d problems: %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidGrammar }

// Grammar is a validated, read-only grammar. All accessors return copies.
type Grammar struct {
	name    string
	class   Class
	start   string
	nonTerm []string
	term    []string
	prods   []Production

	isNonTerm map[string]bool
	isTerm    map[string]bool
	rights    [][]string
	byLeft    map[string][]int

	tok *Tokenizer
}

// New validates def and compiles it into a Grammar.
func New(def Definition) (*Grammar, error) {
	class, err := ParseClass(def.Type)
	if err != nil {
		return nil, &ValidationError{Problems: []string{err.Error()}}
	}

	var problems []string
	g := &Grammar{
		name:      def.Name,
		class:     class,
		start:     def.StartSymbol,
		nonTerm:   append([]string(nil), def.NonTerminals...),
		term:      append([]string(nil), def.Terminals...),
		prods:     append([]Production(nil), def.Productions...),
		isNonTerm: make(map[string]bool, len(def.NonTerminals)),
		isTerm:    make(map[string]bool, len(def.Terminals)),
		byLeft:    make(map[string][]int),
	}

	if len(g.nonTerm) == 0 {
		problems = append(problems, "no non-terminals declared")
	}
	for _, s := range g.nonTerm {
		if msg := checkSymbol(s); msg != "" {
			problems = append(problems, "non-terminal "+msg)
			continue
		}
		if g.isNonTerm[s] {
			problems = append(problems, fmt.Sprintf("non-terminal %q declared twice", s))
		}
		g.isNonTerm[s] = true
	}
	for _, s := range g.term {
		if msg := checkSymbol(s); msg != "" {
			problems = append(problems, "terminal "+msg)
			continue
		}
		if g.isTerm[s] {
			problems = append(problems, fmt.Sprintf("terminal %q declared twice", s))
		}
		if g.isNonTerm[s] {
			problems = append(problems, fmt.Sprintf("symbol %q is both terminal and non-terminal", s))
		}
		g.isTerm[s] = true
	}
	if !g.isNonTerm[g.start] {
		problems = append(problems, fmt.Sprintf("start symbol %q is not a non-terminal", g.start))
	}
	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	g.tok, err = NewTokenizer(g.term, g.nonTerm)
	if err != nil {
		return nil, err
	}

	g.rights = make([][]string, len(g.prods))
	for i, p := range g.prods {
		if !g.isNonTerm[p.Left] {
			problems = append(problems, fmt.Sprintf("production %s: left side must be a single non-terminal", p))
			continue
		}
		g.byLeft[p.Left] = append(g.byLeft[p.Left], i)
		if p.IsEmpty() {
			g.rights[i] = []string{}
			continue
		}
		right, err := g.tok.TokenizeFields(p.Right)
		if err != nil {
			problems = append(problems, fmt.Sprintf("production %s: %v", p, err))
			continue
		}
		g.rights[i] = right
		if class == Regular {
			if msg := g.checkRegular(right); msg != "" {
				problems = append(problems, fmt.Sprintf("production %s: %s", p, msg))
			}
		}
	}
	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	return g, nil
}

// MustNew is New for package-level presets and tests.
func MustNew(def Definition) *Grammar {
	g, err := New(def)
	if err != nil {
		panic(err)
	}
	return g
}

func checkSymbol(s string) string {
	if s == "" {
		return "name is empty"
	}
	if s == Epsilon {
		return fmt.Sprintf("%q is reserved for the empty string", s)
	}
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return fmt.Sprintf("%q contains whitespace or control characters", s)
		}
	}
	return ""
}

// checkRegular enforces the Tipo 3 shapes: a, aB or Ba.
func (g *Grammar) checkRegular(right []string) string {
	switch len(right) {
	case 0:
		return ""
	case 1:
		if !g.isTerm[right[0]] {
			return "a single symbol must be a terminal for Tipo 3"
		}
		return ""
	case 2:
		a, b := right[0], right[1]
		if (g.isTerm[a] && g.isNonTerm[b]) || (g.isNonTerm[a] && g.isTerm[b]) {
			return ""
		}
		return "must be (terminal)(non-terminal) or (non-terminal)(terminal) for Tipo 3"
	}
	return "too long for Tipo 3"
}

func (g *Grammar) Name() string  { return g.name }
func (g *Grammar) Class() Class  { return g.class }
func (g *Grammar) Start() string { return g.start }

func (g *Grammar) NonTerminals() []string { return append([]string(nil), g.nonTerm...) }
func (g *Grammar) Terminals() []string    { return append([]string(nil), g.term...) }

func (g *Grammar) Productions() []Production { return append([]Production(nil), g.prods...) }

func (g *Grammar) Production(i int) Production { return g.prods[i] }

func (g *Grammar) IsTerminal(sym string) bool    { return g.isTerm[sym] }
func (g *Grammar) IsNonTerminal(sym string) bool { return g.isNonTerm[sym] }

// Right returns the tokenized right side of production i; empty for ε.
func (g *Grammar) Right(i int) []string { return append([]string(nil), g.rights[i]...) }

// RightLen is len(Right(i)) without the copy.
func (g *Grammar) RightLen(i int) int { return len(g.rights[i]) }

// Alternatives returns the indices of the productions of nt in declaration order.
func (g *Grammar) Alternatives(nt string) []int { return append([]int(nil), g.byLeft[nt]...) }

// HasEmpty reports whether nt has a direct ε production.
func (g *Grammar) HasEmpty(nt string) bool {
	for _, i := range g.byLeft[nt] {
		if len(g.rights[i]) == 0 {
			return true
		}
	}
	return false
}

// DisplayRight renders the right side of production i as it appears in
// derivation steps. Whitespace between fields separates symbols, so it is
// kept (collapsed to single spaces) to tell "a b" from a terminal "ab".
func (g *Grammar) DisplayRight(i int) string {
	if len(g.rights[i]) == 0 {
		return Epsilon
	}
	fields := slices.DeleteFunc(strings.Fields(g.prods[i].Right), func(f string) bool { return f == Epsilon })
	return strings.Join(fields, " ")
}

// Step renders production i as a derivation step, "A → rhs".
func (g *Grammar) Step(i int) string {
	return g.prods[i].Left + " → " + g.DisplayRight(i)
}

// Tokenize splits input into grammar symbols, see Tokenizer.Tokenize.
func (g *Grammar) Tokenize(text string) ([]string, error) { return g.tok.Tokenize(text) }

// Definition returns the persisted record of g.
func (g *Grammar) Definition() Definition {
	return Definition{
		Name:         g.name,
		Type:         g.class.String(),
		NonTerminals: g.NonTerminals(),
		Terminals:    g.Terminals(),
		Productions:  g.Productions(),
		StartSymbol:  g.start,
	}
}
