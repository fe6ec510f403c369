package grammar

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
)

// WriteJSON stores def in the persisted format with two-space indentation.
func WriteJSON(w io.Writer, def Definition) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(def)
}

// ReadJSON decodes a persisted grammar and performs the import checks:
// required fields, a known type, the start symbol and production lefts
// among the non-terminals. Full structural validation is left to New.
func ReadJSON(r io.Reader) (Definition, error) {
	var raw struct {
		Name         string     `json:"name"`
		Type         string     `json:"type"`
		NonTerminals []string   `json:"nonTerminals"`
		Terminals    []string   `json:"terminals"`
		Productions  []struct {
			Left  string  `json:"left"`
			Right *string `json:"right"`
		} `json:"productions"`
		StartSymbol string `json:"startSymbol"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Definition{}, fmt.Errorf("import grammar: %w", err)
	}
	if raw.Name == "" || raw.Type == "" || raw.NonTerminals == nil ||
		raw.Terminals == nil || raw.Productions == nil || raw.StartSymbol == "" {
		return Definition{}, errors.New("import grammar: invalid grammar structure")
	}
	if raw.Type != ContextFree.String() && raw.Type != Regular.String() {
		return Definition{}, fmt.Errorf("import grammar: type must be %q or %q", ContextFree, Regular)
	}
	if !slices.Contains(raw.NonTerminals, raw.StartSymbol) {
		return Definition{}, errors.New("import grammar: start symbol must be among the non-terminals")
	}

	def := Definition{
		Name:         raw.Name,
		Type:         raw.Type,
		NonTerminals: raw.NonTerminals,
		Terminals:    raw.Terminals,
		StartSymbol:  raw.StartSymbol,
		Productions:  make([]Production, 0, len(raw.Productions)),
	}
	for _, p := range raw.Productions {
		if p.Left == "" || p.Right == nil {
			return Definition{}, errors.New(`import grammar: production must have "left" and "right"`)
		}
		if !slices.Contains(raw.NonTerminals, p.Left) {
			return Definition{}, fmt.Errorf("import grammar: left side %q is not a non-terminal", p.Left)
		}
		def.Productions = append(def.Productions, Production{Left: p.Left, Right: *p.Right})
	}
	return def, nil
}
