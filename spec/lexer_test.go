package spec

import (
	"testing"
)

func TestLexer_Run(t *testing.T) {
	symTok := func(text string) *token {
		return newSymbolToken(text, newPosition(7, 0))
	}
	arrowTok := func() *token {
		return newArrowToken(newPosition(7, 0))
	}

	tests := []struct {
		caption string
		src     string
		tokens  []*token
	}{
		{
			caption: "the lexer can recognize a production header",
			src:     "SUM -> TERM TERMINAL(+) TERM",
			tokens: []*token{
				symTok("SUM"),
				arrowTok(),
				symTok("TERM"),
				symTok("TERMINAL(+)"),
				symTok("TERM"),
				newEOFToken(newPosition(7, 0)),
			},
		},
		{
			caption: "the lexer can recognize the long arrow and tabs",
			src:     "ROOT\t-->\t\tEXPR",
			tokens: []*token{
				symTok("ROOT"),
				arrowTok(),
				symTok("EXPR"),
				newEOFToken(newPosition(7, 0)),
			},
		},
		{
			caption: "a longer lexeme containing an arrow is a symbol",
			src:     "A->B TERMINAL(->)",
			tokens: []*token{
				symTok("A->B"),
				symTok("TERMINAL(->)"),
				newEOFToken(newPosition(7, 0)),
			},
		},
		{
			caption: "non-ASCII symbols",
			src:     "INT -> TERMINAL(∫) EXPR",
			tokens: []*token{
				symTok("INT"),
				arrowTok(),
				symTok("TERMINAL(∫)"),
				symTok("EXPR"),
				newEOFToken(newPosition(7, 0)),
			},
		},
		{
			caption: "an empty line",
			src:     "",
			tokens: []*token{
				newEOFToken(newPosition(7, 0)),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			l, err := newLineLexer(&Line{Row: 7, Text: tt.src})
			if err != nil {
				t.Fatal(err)
			}
			first, err := l.peek()
			if err != nil {
				t.Fatal(err)
			}
			for n, eTok := range tt.tokens {
				tok, err := l.next()
				if err != nil {
					t.Fatal(err)
				}
				if n == 0 && tok != first {
					t.Fatal("next must return the peeked token first")
				}
				testToken(t, tok, eTok)
			}
		})
	}
}

func testToken(t *testing.T, tok, expected *token) {
	t.Helper()
	if tok.kind != expected.kind || tok.text != expected.text || tok.pos.Row != expected.pos.Row {
		t.Fatalf("unexpected token; want: %+v, got: %+v", expected, tok)
	}
}
