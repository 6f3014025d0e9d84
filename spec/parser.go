package spec

import (
	"bufio"
	"io"
	"strings"

	verr "github.com/inkmath/gram2d/error"
	"github.com/inkmath/gram2d/grammar"
)

const (
	commentMarker   = "#"
	separatorMarker = "---"
)

// Line is a trimmed source line. Row is 1-based.
type Line struct {
	Row  int
	Text string
}

// Block is the group of lines describing one production.
type Block struct {
	Lines []*Line
}

// Row returns the row of the first line of b.
func (b *Block) Row() int {
	if len(b.Lines) == 0 {
		return 0
	}
	return b.Lines[0].Row
}

// BlockParser turns one block into a production. Symbols the oracle knows
// as terminal types are terminal.
type BlockParser interface {
	ParseBlock(b *Block, oracle grammar.TerminalTypeOracle) (*grammar.Production, error)
}

// readLines reads src, trims every line and drops comment lines and
// trailing empty lines.
func readLines(src io.Reader) ([]*Line, error) {
	var lines []*Line
	s := bufio.NewScanner(src)
	row := 0
	for s.Scan() {
		row++
		text := strings.TrimSpace(s.Text())
		if strings.HasPrefix(text, commentMarker) {
			continue
		}
		lines = append(lines, &Line{
			Row:  row,
			Text: text,
		})
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	for len(lines) > 0 && lines[len(lines)-1].Text == "" {
		lines = lines[:len(lines)-1]
	}
	return lines, nil
}

// splitBlocks groups lines into blocks separated by empty lines. A leading
// separator line of a block is dropped.
func splitBlocks(lines []*Line) []*Block {
	var blocks []*Block
	var cur *Block
	for _, l := range lines {
		if l.Text == "" {
			cur = nil
			continue
		}
		if cur == nil {
			if strings.HasPrefix(l.Text, separatorMarker) {
				cur = &Block{}
				blocks = append(blocks, cur)
				continue
			}
			cur = &Block{}
			blocks = append(blocks, cur)
		}
		cur.Lines = append(cur.Lines, l)
	}

	nonEmpty := blocks[:0]
	for _, b := range blocks {
		if len(b.Lines) > 0 {
			nonEmpty = append(nonEmpty, b)
		}
	}
	return nonEmpty
}

// DefaultBlockParser reads blocks of the form
//
//	SUM -> TERM TERMINAL(+) TERM
//	geometry: bipartite west-east
//	summary: sum
//
// The header comes first; the attribute lines are optional.
type DefaultBlockParser struct{}

func (DefaultBlockParser) ParseBlock(b *Block, oracle grammar.TerminalTypeOracle) (*grammar.Production, error) {
	if len(b.Lines) == 0 {
		return nil, &verr.SpecError{
			Cause: synErrNoLHS,
		}
	}

	lhs, rhs, err := parseHeader(b.Lines[0])
	if err != nil {
		return nil, err
	}

	var geometry grammar.GeometryHint
	var summary string
	seen := map[string]struct{}{}
	for _, l := range b.Lines[1:] {
		name, value, ok := strings.Cut(l.Text, ":")
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if !ok || name == "" || strings.ContainsAny(name, " \t") {
			return nil, &verr.SpecError{
				Cause:  synErrNoAttrName,
				Detail: l.Text,
				Row:    l.Row,
			}
		}
		if _, dup := seen[name]; dup {
			return nil, &verr.SpecError{
				Cause:  synErrDuplicateAttr,
				Detail: name,
				Row:    l.Row,
			}
		}
		seen[name] = struct{}{}

		switch name {
		case "geometry":
			geometry, err = parseGeometry(value, l.Row)
			if err != nil {
				return nil, err
			}
		case "summary":
			if value == "" {
				return nil, &verr.SpecError{
					Cause: synErrEmptySummary,
					Row:   l.Row,
				}
			}
			summary = value
		default:
			return nil, &verr.SpecError{
				Cause:  synErrUnknownAttr,
				Detail: name,
				Row:    l.Row,
			}
		}
	}

	if err := checkGeometryArity(geometry, len(rhs)); err != nil {
		err.Row = b.Row()
		return nil, err
	}

	isTerm := make([]bool, len(rhs))
	for i, sym := range rhs {
		isTerm[i] = oracle.IsTerminalType(sym)
	}
	prod, err := grammar.NewProduction(lhs, rhs, isTerm, geometry, summary)
	if err != nil {
		return nil, &verr.SpecError{
			Cause:  synErrInvalidProduction,
			Detail: err.Error(),
			Row:    b.Row(),
		}
	}
	return prod, nil
}

func parseHeader(l *Line) (string, []string, error) {
	lex, err := newLineLexer(l)
	if err != nil {
		return "", nil, err
	}

	raise := func(cause *SyntaxError, tok *token) error {
		return &verr.SpecError{
			Cause:  cause,
			Detail: tok.text,
			Row:    tok.pos.Row,
			Col:    tok.pos.Col,
		}
	}

	tok, err := lex.next()
	if err != nil {
		return "", nil, err
	}
	if tok.kind == tokenKindInvalid {
		return "", nil, raise(synErrInvalidToken, tok)
	}
	if tok.kind != tokenKindSymbol {
		return "", nil, raise(synErrNoLHS, tok)
	}
	lhs := tok.text

	tok, err = lex.next()
	if err != nil {
		return "", nil, err
	}
	if tok.kind == tokenKindInvalid {
		return "", nil, raise(synErrInvalidToken, tok)
	}
	if tok.kind != tokenKindArrow {
		return "", nil, raise(synErrNoArrow, tok)
	}

	var rhs []string
	for {
		tok, err := lex.next()
		if err != nil {
			return "", nil, err
		}
		switch tok.kind {
		case tokenKindSymbol:
			rhs = append(rhs, tok.text)
			continue
		case tokenKindArrow:
			return "", nil, raise(synErrArrowInRHS, tok)
		case tokenKindInvalid:
			return "", nil, raise(synErrInvalidToken, tok)
		}
		if len(rhs) == 0 {
			return "", nil, raise(synErrNoRHS, tok)
		}
		return lhs, rhs, nil
	}
}

var geometryKinds = map[string]grammar.GeometryKind{
	"none":       grammar.GeometryNone,
	"bipartite":  grammar.GeometryBipartite,
	"tripartite": grammar.GeometryTripartite,
}

var directions = map[string]grammar.Direction{
	"west-east":   grammar.DirWestEast,
	"east-west":   grammar.DirEastWest,
	"north-south": grammar.DirNorthSouth,
	"south-north": grammar.DirSouthNorth,
}

func parseGeometry(value string, row int) (grammar.GeometryHint, error) {
	fields := strings.Fields(value)
	if len(fields) == 0 || len(fields) > 2 {
		return grammar.GeometryHint{}, &verr.SpecError{
			Cause:  synErrGeometryParams,
			Detail: value,
			Row:    row,
		}
	}
	kind, ok := geometryKinds[fields[0]]
	if !ok {
		return grammar.GeometryHint{}, &verr.SpecError{
			Cause:  synErrInvalidGeometry,
			Detail: fields[0],
			Row:    row,
		}
	}
	hint := grammar.GeometryHint{
		Kind: kind,
	}
	if len(fields) == 2 {
		if kind == grammar.GeometryNone {
			return grammar.GeometryHint{}, &verr.SpecError{
				Cause:  synErrGeometryParams,
				Detail: value,
				Row:    row,
			}
		}
		dir, ok := directions[fields[1]]
		if !ok {
			return grammar.GeometryHint{}, &verr.SpecError{
				Cause:  synErrInvalidDirection,
				Detail: fields[1],
				Row:    row,
			}
		}
		hint.Direction = dir
	}
	return hint, nil
}

// checkGeometryArity rejects hints the engine could never apply: a
// bipartite hint splits two RHS symbols, a tripartite hint three.
func checkGeometryArity(hint grammar.GeometryHint, rhsLen int) *verr.SpecError {
	want := 0
	switch hint.Kind {
	case grammar.GeometryBipartite:
		want = 2
	case grammar.GeometryTripartite:
		want = 3
	default:
		return nil
	}
	if rhsLen != want {
		return &verr.SpecError{
			Cause:  synErrGeometryArity,
			Detail: hint.String(),
		}
	}
	return nil
}
