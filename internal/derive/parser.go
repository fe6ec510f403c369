package derive

import (
	"fmt"
	"slices"

	"grammarlab/internal/grammar"
)

type Status int

const (
	StatusAccepted Status = iota
	StatusNotInLanguage
	StatusLimitReached
	StatusUntokenizable
)

func (s Status) String() string {
	switch s {
	case StatusAccepted:
		return "accepted"
	case StatusNotInLanguage:
		return "not in language"
	case StatusLimitReached:
		return "limit reached"
	case StatusUntokenizable:
		return "untokenizable"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

const (
	msgAccepted      = "string accepted"
	msgEmptyAccepted = "empty string accepted"
	msgEmptyRejected = "empty string not accepted by this grammar"
	msgNotInLanguage = "string does not belong to the language"
	msgLimitReached  = "search limit reached"
)

// Result of a membership test. Tree, Steps and Derivation are set only
// when Accepted; Steps[0] is the start symbol, each further step reads
// "A → rhs".
type Result struct {
	Accepted   bool                 `json:"accepted"`
	Status     Status               `json:"-"`
	Tree       *Node                `json:"derivationTree,omitempty"`
	Steps      []string             `json:"steps,omitempty"`
	Derivation []grammar.Production `json:"-"`
	Message    string               `json:"message"`
	Iterations int                  `json:"-"`
}

type Parser struct {
	g      *grammar.Grammar
	Limits Limits
}

func NewParser(g *grammar.Grammar) *Parser {
	return &Parser{g: g, Limits: DefaultParseLimits}
}

// Parse decides membership of input with the default limits.
func Parse(g *grammar.Grammar, input string) *Result {
	return NewParser(g).Parse(input)
}

func (p *Parser) Parse(input string) *Result {
	target, err := p.g.Tokenize(input)
	if err != nil {
		return &Result{Status: StatusUntokenizable, Message: err.Error()}
	}
	if len(target) == 0 {
		return p.parseEmpty()
	}
	for _, sym := range target {
		if p.g.IsNonTerminal(sym) {
			return &Result{
				Status:  StatusNotInLanguage,
				Message: fmt.Sprintf("input contains non-terminal %q", sym),
			}
		}
	}

	var found *State
	out := Search(p.g, Policy{
		Order: DeclarationOrder,
		Goal:  func(form []string) bool { return slices.Equal(form, target) },
		Prune: p.pruner(target),
		Accept: func(s *State) bool {
			found = s
			return false
		},
	}, p.Limits)

	switch {
	case found != nil:
		res := p.accept(found.Tree, found.Applied(), msgAccepted)
		res.Iterations = out.Iterations
		return res
	case out.Limited:
		return &Result{Status: StatusLimitReached, Message: msgLimitReached, Iterations: out.Iterations}
	}
	return &Result{Status: StatusNotInLanguage, Message: msgNotInLanguage, Iterations: out.Iterations}
}

// parseEmpty accepts the empty input only through a direct ε production
// of the start symbol.
func (p *Parser) parseEmpty() *Result {
	start := p.g.Start()
	for _, i := range p.g.Alternatives(start) {
		if p.g.RightLen(i) != 0 {
			continue
		}
		tree := &Node{Symbol: start, Children: []*Node{epsilonLeaf()}}
		return p.accept(tree, []int{i}, msgEmptyAccepted)
	}
	return &Result{Status: StatusNotInLanguage, Message: msgEmptyRejected}
}

func (p *Parser) accept(tree *Node, applied []int, msg string) *Result {
	res := &Result{
		Accepted:   true,
		Status:     StatusAccepted,
		Tree:       tree,
		Steps:      make([]string, 0, len(applied)+1),
		Derivation: make([]grammar.Production, 0, len(applied)),
		Message:    msg,
	}
	res.Steps = append(res.Steps, p.g.Start())
	for _, i := range applied {
		res.Steps = append(res.Steps, p.g.Step(i))
		res.Derivation = append(res.Derivation, p.g.Production(i))
	}
	return res
}

// pruner drops forms that can no longer derive target. Terminals never
// disappear and those left of the leftmost non-terminal never change, so
// a wrong prefix or too many terminals is final. Context-free forms are
// additionally capped at twice the target length.
func (p *Parser) pruner(target []string) func([]string) bool {
	regular := p.g.Class() == grammar.Regular
	return func(form []string) bool {
		terminals := 0
		prefix := true
		for i, sym := range form {
			if p.g.IsNonTerminal(sym) {
				prefix = false
				continue
			}
			terminals++
			if prefix && (i >= len(target) || target[i] != sym) {
				return true
			}
		}
		if terminals > len(target) {
			return true
		}
		return !regular && len(form) > 2*len(target)
	}
}
