package spec

import (
	"fmt"
	"io"
	"strings"
	"sync"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"
)

type tokenKind string

const (
	tokenKindSymbol  = tokenKind("symbol")
	tokenKindArrow   = tokenKind("arrow")
	tokenKindEOF     = tokenKind("eof")
	tokenKindInvalid = tokenKind("invalid")
)

type Position struct {
	Row int
	Col int
}

func newPosition(row, col int) Position {
	return Position{
		Row: row,
		Col: col,
	}
}

type token struct {
	kind tokenKind
	text string
	pos  Position
}

func newSymbolToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindSymbol,
		text: text,
		pos:  pos,
	}
}

func newArrowToken(pos Position) *token {
	return &token{
		kind: tokenKindArrow,
		pos:  pos,
	}
}

func newEOFToken(pos Position) *token {
	return &token{
		kind: tokenKindEOF,
		pos:  pos,
	}
}

func newInvalidToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindInvalid,
		text: text,
		pos:  pos,
	}
}

// Entries listed first win ties between equally long lexemes, so `->` is
// an arrow rather than a symbol.
var headerLexSpec = &mlspec.LexSpec{
	Name: "header",
	Entries: []*mlspec.LexEntry{
		{
			Kind:    mlspec.LexKindName("white_space"),
			Pattern: mlspec.LexPattern(`[\u{0009}\u{0020}]+`),
		},
		{
			Kind:    mlspec.LexKindName("arrow"),
			Pattern: mlspec.LexPattern(`--?>`),
		},
		{
			Kind:    mlspec.LexKindName("symbol"),
			Pattern: mlspec.LexPattern(`[^\u{0009}\u{0020}]+`),
		},
	},
}

var compiledHeader struct {
	once sync.Once
	spec *mlspec.CompiledLexSpec
	err  error
}

func compiledHeaderLexSpec() (*mlspec.CompiledLexSpec, error) {
	compiledHeader.once.Do(func() {
		cls, err, cErrs := mlcompiler.Compile(headerLexSpec, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
		if err != nil {
			if len(cErrs) > 0 {
				err = fmt.Errorf("%v: %v", cErrs[0].Kind, cErrs[0].Cause)
			}
			compiledHeader.err = fmt.Errorf("cannot compile the header lexical specification: %w", err)
			return
		}
		compiledHeader.spec = cls
	})
	return compiledHeader.spec, compiledHeader.err
}

// lexer splits one production header line. Rows of the tokens are the row
// of the line in its source.
type lexer struct {
	s   *mlspec.CompiledLexSpec
	d   *mldriver.Lexer
	row int
	buf *token
}

func newLexer(src io.Reader, row int) (*lexer, error) {
	s, err := compiledHeaderLexSpec()
	if err != nil {
		return nil, err
	}
	d, err := mldriver.NewLexer(mldriver.NewLexSpec(s), src)
	if err != nil {
		return nil, err
	}
	return &lexer{
		s:   s,
		d:   d,
		row: row,
	}, nil
}

func newLineLexer(l *Line) (*lexer, error) {
	return newLexer(strings.NewReader(l.Text), l.Row)
}

func (l *lexer) peek() (*token, error) {
	if l.buf != nil {
		return l.buf, nil
	}
	tok, err := l.next()
	if err != nil {
		return nil, err
	}
	l.buf = tok
	return tok, nil
}

func (l *lexer) next() (*token, error) {
	if l.buf != nil {
		tok := l.buf
		l.buf = nil
		return tok, nil
	}

	var tok *mldriver.Token
	for {
		var err error
		tok, err = l.d.Next()
		if err != nil {
			return nil, err
		}
		if tok.Invalid {
			return newInvalidToken(string(tok.Lexeme), newPosition(l.row, tok.Col+1)), nil
		}
		if tok.EOF {
			return newEOFToken(newPosition(l.row, tok.Col+1)), nil
		}
		if l.s.KindNames[tok.KindID] == "white_space" {
			continue
		}
		break
	}

	pos := newPosition(l.row, tok.Col+1)
	switch l.s.KindNames[tok.KindID] {
	case "arrow":
		return newArrowToken(pos), nil
	case "symbol":
		return newSymbolToken(string(tok.Lexeme), pos), nil
	}
	return newInvalidToken(string(tok.Lexeme), pos), nil
}
