package grammar

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/exp/ebnf"
)

// EBNF renders g in the notation read by golang.org/x/exp/ebnf. Non-terminal
// names that are not exported Go identifiers are renamed N0, N1, ... by
// their declaration index; terminals become quoted tokens.
func EBNF(g *Grammar) string {
	names := ebnfNames(g)
	var b strings.Builder
	for _, nt := range g.nonTerm {
		var alts []string
		empty := false
		for _, i := range g.byLeft[nt] {
			if len(g.rights[i]) == 0 {
				empty = true
				continue
			}
			terms := make([]string, len(g.rights[i]))
			for k, sym := range g.rights[i] {
				if g.isNonTerm[sym] {
					terms[k] = names[sym]
				} else {
					terms[k] = strconv.Quote(sym)
				}
			}
			alts = append(alts, strings.Join(terms, " "))
		}
		expr := strings.Join(alts, " | ")
		switch {
		case empty && expr != "":
			expr = "[ " + expr + " ] "
		case expr != "":
			expr += " "
		case !empty:
			// no productions at all; leave it undefined so Verify reports it
			continue
		}
		fmt.Fprintf(&b, "%s = %s.\n", names[nt], expr)
	}
	return b.String()
}

// VerifyEBNF parses the EBNF rendering of g and checks that every
// non-terminal is defined and reachable from the start symbol.
func VerifyEBNF(g *Grammar) error {
	src := EBNF(g)
	parsed, err := ebnf.Parse(g.name+".ebnf", strings.NewReader(src))
	if err != nil {
		return fmt.Errorf("ebnf: %w", err)
	}
	if err := ebnf.Verify(parsed, ebnfNames(g)[g.start]); err != nil {
		return fmt.Errorf("ebnf: %w", err)
	}
	return nil
}

func ebnfNames(g *Grammar) map[string]string {
	names := make(map[string]string, len(g.nonTerm))
	used := make(map[string]bool, len(g.nonTerm))
	for _, nt := range g.nonTerm {
		if isExportedIdent(nt) {
			names[nt] = nt
			used[nt] = true
		}
	}
	for i, nt := range g.nonTerm {
		if _, ok := names[nt]; ok {
			continue
		}
		name := fmt.Sprintf("N%d", i)
		for used[name] {
			name += "_"
		}
		names[nt] = name
		used[name] = true
	}
	return names
}

func isExportedIdent(s string) bool {
	for i, r := range s {
		switch {
		case i == 0 && !unicode.IsUpper(r):
			return false
		case !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_':
			return false
		}
	}
	return s != ""
}
