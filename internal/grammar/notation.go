package grammar

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Text notation:
//
//	# comment
//	%name "Binary numbers"
//	%type 3
//	%start S
//	%terminals 0 1
//	S -> 0 A | 1 A
//	A -> 0 A | 1 A | ε
//
// Symbols containing '-', '>', '|', '#', '"' or whitespace must be quoted.
type notationFile struct {
	Entries []*notationEntry `parser:"( @@ | EOL )*"`
}

type notationEntry struct {
	Directive *notationDirective `parser:"  @@"`
	Rule      *notationRule      `parser:"| @@"`
}

type notationDirective struct {
	Key    string   `parser:"@Directive"`
	Values []string `parser:"@(Symbol | String)*"`
}

type notationRule struct {
	Left         string                 `parser:"@(Symbol | String) Arrow"`
	Alternatives []*notationAlternative `parser:"@@ ( Bar @@ )*"`
}

type notationAlternative struct {
	Items []string `parser:"@(Symbol | String | Epsilon)+"`
}

var notationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Directive", Pattern: `%[a-zA-Z]+`},
	{Name: "Arrow", Pattern: `->|→`},
	{Name: "Bar", Pattern: `\|`},
	{Name: "Epsilon", Pattern: `ε`},
	{Name: "EOL", Pattern: `[\n;]+`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
	{Name: "Symbol", Pattern: `[^\s|#"\->→ε;]+`},
})

var notationParser = participle.MustBuild[notationFile](
	participle.Lexer(notationLexer),
	participle.Elide("Comment", "Whitespace"),
	participle.Unquote("String"),
)

// ParseNotation reads a grammar written in the text notation. Omitted
// directives are inferred: non-terminals from the left sides, terminals
// from every other right-side item, start from the first rule, type 2.
func ParseNotation(name string, r io.Reader) (Definition, error) {
	file, err := notationParser.Parse(name, r)
	if err != nil {
		return Definition{}, err
	}

	def := Definition{Type: ContextFree.String()}
	var declaredNT, declaredT bool
	for _, e := range file.Entries {
		d := e.Directive
		if d == nil {
			continue
		}
		switch strings.ToLower(d.Key) {
		case "%name":
			def.Name = strings.Join(d.Values, " ")
		case "%type":
			class, err := ParseClass(strings.Join(d.Values, " "))
			if err != nil {
				return Definition{}, fmt.Errorf("%s: %w", name, err)
			}
			def.Type = class.String()
		case "%start":
			if len(d.Values) != 1 {
				return Definition{}, fmt.Errorf("%s: %%start takes exactly one symbol", name)
			}
			def.StartSymbol = d.Values[0]
		case "%nonterminals":
			def.NonTerminals = append(def.NonTerminals, d.Values...)
			declaredNT = true
		case "%terminals":
			def.Terminals = append(def.Terminals, d.Values...)
			declaredT = true
		default:
			return Definition{}, fmt.Errorf("%s: unknown directive %s", name, d.Key)
		}
	}

	for _, e := range file.Entries {
		if e.Rule == nil {
			continue
		}
		if !declaredNT && !slices.Contains(def.NonTerminals, e.Rule.Left) {
			def.NonTerminals = append(def.NonTerminals, e.Rule.Left)
		}
		if def.StartSymbol == "" {
			def.StartSymbol = e.Rule.Left
		}
	}

	for _, e := range file.Entries {
		if e.Rule == nil {
			continue
		}
		for _, alt := range e.Rule.Alternatives {
			var items []string
			for _, it := range alt.Items {
				if it == Epsilon {
					continue
				}
				items = append(items, it)
				if !declaredT && !slices.Contains(def.NonTerminals, it) && !slices.Contains(def.Terminals, it) {
					def.Terminals = append(def.Terminals, it)
				}
			}
			right := strings.Join(items, " ")
			if right == "" {
				right = Epsilon
			}
			def.Productions = append(def.Productions, Production{Left: e.Rule.Left, Right: right})
		}
	}
	if def.Name == "" {
		def.Name = name
	}
	if def.Terminals == nil {
		def.Terminals = []string{}
	}
	return def, nil
}

// FormatNotation writes def in the text notation, one rule per left side
// in order of first appearance. Right sides are emitted as tokenized by g so
// that ParseNotation reads back the same symbols.
func FormatNotation(w io.Writer, g *Grammar) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%%name %s\n", strconv.Quote(g.name))
	fmt.Fprintf(&b, "%%type %d\n", 2+int(g.class))
	fmt.Fprintf(&b, "%%start %s\n", quoteSymbol(g.start))
	writeList(&b, "%nonterminals", g.nonTerm)
	writeList(&b, "%terminals", g.term)

	var order []string
	for _, p := range g.prods {
		if !slices.Contains(order, p.Left) {
			order = append(order, p.Left)
		}
	}
	for _, left := range order {
		b.WriteString(quoteSymbol(left))
		b.WriteString(" ->")
		for n, i := range g.byLeft[left] {
			if n > 0 {
				b.WriteString(" |")
			}
			if len(g.rights[i]) == 0 {
				b.WriteString(" " + Epsilon)
				continue
			}
			for _, sym := range g.rights[i] {
				b.WriteString(" " + quoteSymbol(sym))
			}
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeList(b *strings.Builder, key string, syms []string) {
	b.WriteString(key)
	for _, s := range syms {
		b.WriteString(" " + quoteSymbol(s))
	}
	b.WriteByte('\n')
}

func quoteSymbol(s string) string {
	if strings.ContainsAny(s, "|#\"->→ε;%") {
		return strconv.Quote(s)
	}
	return s
}
