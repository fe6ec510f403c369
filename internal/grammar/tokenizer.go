package grammar

import (
	"errors"
	"fmt"
	"strings"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

var ErrUntokenizable = errors.New("could not tokenize")

// Tokenizer splits flat text into grammar symbols. Every symbol is added to
// a lexmachine lexer as a literal pattern, so the compiled DFA always takes
// the longest declared symbol at each position ("10" before "1").
type Tokenizer struct {
	lexer *lexmachine.Lexer
}

func NewTokenizer(terminals, nonTerminals []string) (*Tokenizer, error) {
	lx := lexmachine.NewLexer()
	n := 0
	for _, set := range [][]string{terminals, nonTerminals} {
		for _, sym := range set {
			lx.Add(symbolPattern(sym), symbolAction(sym))
			n++
		}
	}
	if n == 0 {
		return &Tokenizer{}, nil
	}
	if err := lx.Compile(); err != nil {
		return nil, fmt.Errorf("compile tokenizer: %w", err)
	}
	return &Tokenizer{lexer: lx}, nil
}

// Tokenize strips all whitespace from text and segments the rest. The lone
// ε marker and the empty string both yield an empty sequence.
func (t *Tokenizer) Tokenize(text string) ([]string, error) {
	text = stripSpace(text)
	if text == "" || text == Epsilon {
		return []string{}, nil
	}
	return t.scan(text)
}

// TokenizeFields treats whitespace as an explicit symbol boundary: each
// field is segmented on its own. Used for production right sides.
func (t *Tokenizer) TokenizeFields(text string) ([]string, error) {
	out := []string{}
	for _, field := range strings.Fields(text) {
		if field == Epsilon {
			continue
		}
		toks, err := t.scan(field)
		if err != nil {
			return nil, err
		}
		out = append(out, toks...)
	}
	return out, nil
}

func (t *Tokenizer) scan(text string) ([]string, error) {
	if t.lexer == nil {
		return nil, untokenizable(text, 0)
	}
	scanner, err := t.lexer.Scanner([]byte(text))
	if err != nil {
		return nil, err
	}
	var out []string
	for tok, err, eof := scanner.Next(); !eof; tok, err, eof = scanner.Next() {
		if err != nil {
			var ui *machines.UnconsumedInput
			if errors.As(err, &ui) {
				return nil, untokenizable(text, ui.StartTC)
			}
			return nil, err
		}
		out = append(out, tok.(string))
	}
	return out, nil
}

func untokenizable(text string, off int) error {
	return fmt.Errorf("%w %q: no symbol matches %q at offset %d", ErrUntokenizable, text, text[off:], off)
}

// Join concatenates tokens without a separator.
func Join(tokens []string) string {
	return strings.Join(tokens, "")
}

func stripSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func symbolAction(sym string) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return sym, nil
	}
}

// symbolPattern quotes sym for the lexmachine regex syntax. Punctuation is
// wrapped in a one-byte class such as "[+]".
func symbolPattern(sym string) []byte {
	var b strings.Builder
	for i := 0; i < len(sym); i++ {
		c := sym[i]
		switch {
		case c >= 0x80, c == '_',
			c >= '0' && c <= '9', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
			b.WriteByte(c)
		case c == ']':
			b.WriteString(`[]]`)
		case c == '[', c == '\\', c == '^':
			b.WriteString(`[\`)
			b.WriteByte(c)
			b.WriteByte(']')
		case c == '-':
			b.WriteByte(c)
		default:
			b.WriteByte('[')
			b.WriteByte(c)
			b.WriteByte(']')
		}
	}
	return []byte(b.String())
}
