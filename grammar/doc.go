// Package grammar matches spatially arranged token collections against the
// productions of a two-dimensional grammar.
//
// A ProductionSet owns the productions, their enabled flags and the
// analyses derived from them once at construction time: the terminal types
// every match of a production requires, the terminal types a production can
// produce at all, and the productions transitively reachable from each
// production. Match and ValidProductions answer, per production, whether a
// token collection can instantiate it and which token indices can form the
// head.
package grammar

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
)

func init() {
	if gtrace.CoreTracer == nil {
		gtrace.CoreTracer = gologadapter.New()
	}
}

// tracer traces to the core tracer.
func tracer() tracing.Trace {
	return gtrace.CoreTracer
}
