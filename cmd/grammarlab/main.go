package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"grammarlab/internal/automaton"
	"grammarlab/internal/derive"
	"grammarlab/internal/grammar"
)

const usage = `usage: grammarlab <command> [flags]

commands:
  parse      test membership of a string and print its derivation
  generate   list the shortest strings of the language
  upto       list every string up to a given length
  export     write the grammar as json, text or ebnf
  automaton  build the finite automaton of a Tipo 3 grammar
  presets    list the built-in grammars

run "grammarlab <command> -h" for the flags of a command`

func main() {
	log.SetFlags(0)
	log.SetPrefix("grammarlab: ")

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err := run(os.Args[1], os.Args[2:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

func run(cmd string, args []string, stdout io.Writer) error {
	switch cmd {
	case "parse":
		return runParse(args, stdout)
	case "generate":
		return runGenerate(args, stdout)
	case "upto":
		return runUpTo(args, stdout)
	case "export":
		return runExport(args, stdout)
	case "automaton":
		return runAutomaton(args, stdout)
	case "presets":
		for _, def := range grammar.Presets {
			fmt.Fprintf(stdout, "%-24s %s\n", def.Name, def.Type)
		}
		return nil
	}
	return fmt.Errorf("unknown command %q\n%s", cmd, usage)
}

// source holds the flags every command uses to pick a grammar.
type source struct {
	file   *string
	preset *string
}

func grammarFlags(fs *flag.FlagSet) source {
	return source{
		file:   fs.String("g", "", "grammar file (.json or text notation)"),
		preset: fs.String("preset", "", "built-in grammar name"),
	}
}

func (s source) load() (*grammar.Grammar, error) {
	def, err := s.definition()
	if err != nil {
		return nil, err
	}
	return grammar.New(def)
}

func (s source) definition() (grammar.Definition, error) {
	switch {
	case *s.file != "" && *s.preset != "":
		return grammar.Definition{}, errors.New("use either -g or -preset, not both")
	case *s.preset != "":
		def, ok := grammar.Preset(*s.preset)
		if !ok {
			return grammar.Definition{}, fmt.Errorf("no preset named %q", *s.preset)
		}
		return def, nil
	case *s.file == "":
		return grammar.Definition{}, errors.New("a grammar is required: -g file or -preset name")
	}

	f, err := os.Open(*s.file)
	if err != nil {
		return grammar.Definition{}, err
	}
	defer f.Close()
	if strings.EqualFold(filepath.Ext(*s.file), ".json") {
		return grammar.ReadJSON(f)
	}
	name := strings.TrimSuffix(filepath.Base(*s.file), filepath.Ext(*s.file))
	return grammar.ParseNotation(name, f)
}

func runParse(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	src := grammarFlags(fs)
	maxIter := fs.Int("iterations", derive.DefaultParseLimits.MaxIterations, "search iteration limit")
	maxDepth := fs.Int("depth", derive.DefaultParseLimits.MaxDepth, "derivation depth limit")
	asJSON := fs.Bool("json", false, "print the result as json")
	dot := fs.String("dot", "", "write the derivation tree as DOT to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("parse: exactly one input string expected")
	}
	g, err := src.load()
	if err != nil {
		return err
	}

	p := derive.NewParser(g)
	p.Limits.MaxIterations, p.Limits.MaxDepth = *maxIter, *maxDepth
	res := p.Parse(fs.Arg(0))

	if *dot != "" && res.Tree != nil {
		var buf bytes.Buffer
		if err := derive.WriteDOT(&buf, res.Tree); err != nil {
			return err
		}
		if err := writeOutput(*dot, &buf, false, stdout); err != nil {
			return err
		}
	}
	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(res)
	}

	fmt.Fprintf(stdout, "%s (%d iterations)\n", res.Message, res.Iterations)
	if !res.Accepted {
		return nil
	}
	fmt.Fprintln(stdout, strings.Join(res.Steps, "\n  ⇒ "))
	fmt.Fprintln(stdout)
	fmt.Fprint(stdout, res.Tree.String())
	return nil
}

func runGenerate(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	src := grammarFlags(fs)
	n := fs.Int("n", 10, "number of strings")
	maxIter := fs.Int("iterations", derive.DefaultGenerateLimits.MaxIterations, "search iteration limit")
	maxDepth := fs.Int("depth", derive.DefaultGenerateLimits.MaxDepth, "derivation depth limit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	g, err := src.load()
	if err != nil {
		return err
	}
	gen := derive.NewGenerator(g)
	gen.Limits.MaxIterations, gen.Limits.MaxDepth = *maxIter, *maxDepth
	printStrings(stdout, gen.Generate(*n))
	return nil
}

func runUpTo(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("upto", flag.ContinueOnError)
	src := grammarFlags(fs)
	maxLen := fs.Int("len", 4, "maximum string length")
	maxIter := fs.Int("iterations", derive.DefaultGenerateLimits.MaxIterations, "search iteration limit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	g, err := src.load()
	if err != nil {
		return err
	}
	gen := derive.NewGenerator(g)
	gen.Limits.MaxIterations = *maxIter
	printStrings(stdout, gen.GenerateUpToLength(*maxLen))
	return nil
}

func printStrings(w io.Writer, out []derive.GeneratedString) {
	for _, s := range out {
		fmt.Fprintf(w, "%3d  %s\n", s.Length, s.Value)
	}
}

func runExport(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	src := grammarFlags(fs)
	format := fs.String("format", "json", "json, text or ebnf")
	verify := fs.Bool("verify", false, "with -format ebnf, check the grammar for unreachable or undefined rules")
	if err := fs.Parse(args); err != nil {
		return err
	}
	g, err := src.load()
	if err != nil {
		return err
	}

	switch *format {
	case "json":
		return grammar.WriteJSON(stdout, g.Definition())
	case "text":
		return grammar.FormatNotation(stdout, g)
	case "ebnf":
		if *verify {
			if err := grammar.VerifyEBNF(g); err != nil {
				return err
			}
		}
		_, err := io.WriteString(stdout, grammar.EBNF(g))
		return err
	}
	return fmt.Errorf("export: unknown format %q", *format)
}

func runAutomaton(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("automaton", flag.ContinueOnError)
	src := grammarFlags(fs)
	nfaFlag := fs.Bool("nfa", false, "export the NFA")
	rawFlag := fs.Bool("rawdfa", false, "export the DFA before minimization")
	outFile := fs.String("o", "-", "DOT output file, - for stdout")
	pngFlag := fs.Bool("png", false, "render PNG via dot -Tpng")
	if err := fs.Parse(args); err != nil {
		return err
	}
	g, err := src.load()
	if err != nil {
		return err
	}
	a, err := automaton.FromGrammar(g)
	if err != nil {
		return err
	}

	// remaining arguments are matched against the automaton
	for _, in := range fs.Args() {
		ok, err := a.Match(in)
		if err != nil {
			fmt.Fprintf(stdout, "%q: %v\n", in, err)
			continue
		}
		fmt.Fprintf(stdout, "%q: %v\n", in, ok)
	}
	if fs.NArg() > 0 && *outFile == "-" {
		return nil
	}

	var buf bytes.Buffer
	switch {
	case *nfaFlag:
		err = automaton.ExportDOT(&buf, a.NFA)
	case *rawFlag:
		err = automaton.ExportDOT(&buf, a.Raw)
	default:
		err = automaton.ExportDOT(&buf, a.DFA)
	}
	if err != nil {
		return err
	}
	return writeOutput(*outFile, &buf, *pngFlag, stdout)
}

// writeOutput copies a DOT graph to path ("-" is stdout), optionally
// rendering it to PNG with Graphviz.
func writeOutput(path string, buf *bytes.Buffer, png bool, stdout io.Writer) error {
	if png {
		if path == "-" {
			return errors.New("-png needs an output file")
		}
		cmd := exec.Command("dot", "-Tpng", "-o", path)
		cmd.Stdin = bytes.NewReader(buf.Bytes())
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("dot failed: %w", err)
		}
		fmt.Fprintf(stdout, "PNG written to %s\n", path)
		return nil
	}
	if path == "-" {
		_, err := io.Copy(stdout, buf)
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "DOT written to %s\n", path)
	return nil
}
