package terminal

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/inkmath/gram2d/grammar"
	mlcompiler "github.com/nihei9/maleeni/compiler"
	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrNoTerminalType     = errors.New("a terminal set needs at least one type")
	ErrEmptyTypeName      = errors.New("a terminal type needs a name")
	ErrDuplicateType      = errors.New("duplicate terminal type")
	ErrExactTypeDeclared  = errors.New("exact types must not be declared")
	ErrEmptyTypeDef       = errors.New("a terminal type needs at least one token or pattern")
	ErrInvalidTypePattern = errors.New("invalid terminal type pattern")
)

// kindTerm is the only kind of every per-type lexical specification.
const kindTerm = "term"

// TypeDef declares one terminal type.
type TypeDef struct {
	Name     string   `json:"name"`
	Patterns []string `json:"patterns,omitempty"`
	Tokens   []string `json:"tokens,omitempty"`
}

type terminalType struct {
	def  *TypeDef
	spec *mlspec.CompiledLexSpec
}

// accepts reports whether the whole of text is one lexeme of the type.
func (t *terminalType) accepts(text string) bool {
	if text == "" {
		return false
	}
	lex, err := mldriver.NewLexer(mldriver.NewLexSpec(t.spec), strings.NewReader(text))
	if err != nil {
		tracer().Errorf("cannot lex %q as %v: %v", text, t.def.Name, err)
		return false
	}
	tok, err := lex.Next()
	if err != nil || tok.EOF || tok.Invalid {
		return false
	}
	if string(tok.Lexeme) != text {
		return false
	}
	tok, err = lex.Next()
	return err == nil && tok.EOF
}

// Set is a TerminalTypeOracle. A Set is immutable; matching results are
// memoized and the Set is safe for concurrent use.
type Set struct {
	names []string
	types map[string]*terminalType
	memo  sync.Map
}

var _ grammar.TerminalTypeOracle = (*Set)(nil)

func NewSet(defs []*TypeDef) (*Set, error) {
	if len(defs) == 0 {
		return nil, ErrNoTerminalType
	}

	s := &Set{
		types: map[string]*terminalType{},
	}
	for _, def := range defs {
		if def == nil || def.Name == "" {
			return nil, ErrEmptyTypeName
		}
		if grammar.IsExactType(def.Name) {
			return nil, fmt.Errorf("%w: %v", ErrExactTypeDeclared, def.Name)
		}
		if _, ok := s.types[def.Name]; ok {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateType, def.Name)
		}
		t, err := compileType(def)
		if err != nil {
			return nil, err
		}
		s.types[def.Name] = t
		s.names = append(s.names, def.Name)
	}
	sort.Strings(s.names)

	tracer().Infof("terminal set: %v types", len(s.names))

	return s, nil
}

func compileType(def *TypeDef) (*terminalType, error) {
	var alts []string
	for _, tok := range def.Tokens {
		tok = norm.NFC.String(tok)
		if tok == "" {
			continue
		}
		alts = append(alts, mlspec.EscapePattern(tok))
	}
	for _, pat := range def.Patterns {
		if pat == "" {
			continue
		}
		alts = append(alts, "("+pat+")")
	}
	if len(alts) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrEmptyTypeDef, def.Name)
	}

	ls := &mlspec.LexSpec{
		Name: "terminal",
		Entries: []*mlspec.LexEntry{
			{
				Kind:    mlspec.LexKindName(kindTerm),
				Pattern: mlspec.LexPattern(strings.Join(alts, "|")),
			},
		},
	}
	cls, err, cErrs := mlcompiler.Compile(ls, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err != nil {
		if len(cErrs) > 0 {
			var b strings.Builder
			writeCompileError(&b, cErrs[0])
			for _, cerr := range cErrs[1:] {
				fmt.Fprintf(&b, "; ")
				writeCompileError(&b, cerr)
			}
			return nil, fmt.Errorf("%w: %v: %v", ErrInvalidTypePattern, def.Name, b.String())
		}
		return nil, fmt.Errorf("%w: %v: %v", ErrInvalidTypePattern, def.Name, err)
	}

	tracer().Debugf("terminal type %v: %v", def.Name, strings.Join(alts, "|"))

	return &terminalType{
		def:  def,
		spec: cls,
	}, nil
}

func writeCompileError(w io.Writer, cErr *mlcompiler.CompileError) {
	if cErr.Fragment {
		fmt.Fprintf(w, "fragment ")
	}
	fmt.Fprintf(w, "%v", cErr.Cause)
	if cErr.Detail != "" {
		fmt.Fprintf(w, ": %v", cErr.Detail)
	}
}

// Names returns the declared type names in ascending order.
func (s *Set) Names() []string {
	names := make([]string, len(s.names))
	copy(names, s.names)
	return names
}

// IsTerminalType reports whether name is a declared type or an exact type.
func (s *Set) IsTerminalType(name string) bool {
	if grammar.IsExactType(name) {
		return true
	}
	_, ok := s.types[name]
	return ok
}

// Match reports whether text belongs to the type typeName. Unknown types
// match nothing.
func (s *Set) Match(text string, typeName string) bool {
	text = norm.NFC.String(text)
	if grammar.IsExactType(typeName) {
		return norm.NFC.String(exactText(typeName)) == text
	}
	t, ok := s.types[typeName]
	if !ok {
		return false
	}

	key := typeName + "\x00" + text
	if v, ok := s.memo.Load(key); ok {
		return v.(bool)
	}
	m := t.accepts(text)
	s.memo.Store(key, m)
	return m
}

// TypeListContains reports whether text belongs to at least one of types.
func (s *Set) TypeListContains(types []string, text string) bool {
	for _, t := range types {
		if s.Match(text, t) {
			return true
		}
	}
	return false
}

// TypesOf returns the declared types text belongs to, in ascending order.
func (s *Set) TypesOf(text string) []string {
	var types []string
	for _, name := range s.names {
		if s.Match(text, name) {
			types = append(types, name)
		}
	}
	return types
}

func exactText(name string) string {
	return name[len(grammar.ExactTypePrefix) : len(name)-1]
}
