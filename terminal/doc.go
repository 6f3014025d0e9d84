// Package terminal decides which recognized token texts belong to which
// terminal types.
//
// A terminal type is declared with literal token names, maleeni regular
// expressions, or both, and is compiled to one DFA. Names of the form
// `TERMINAL(x)` are exact types: they are terminal without being declared
// and match the text x only. Texts are NFC-normalized before matching so
// that composed and decomposed forms of a symbol are the same token.
package terminal

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return gtrace.CoreTracer
}
