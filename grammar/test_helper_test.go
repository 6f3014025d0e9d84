package grammar

import (
	"testing"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func setupTracing(t *testing.T) func() {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelError)
	return teardown
}

// testOracle maps terminal types to the token texts they accept.
type testOracle struct {
	types map[string]map[string]struct{}
}

func newTestOracle(types map[string][]string) *testOracle {
	o := &testOracle{
		types: map[string]map[string]struct{}{},
	}
	for name, texts := range types {
		o.types[name] = map[string]struct{}{}
		for _, text := range texts {
			o.types[name][text] = struct{}{}
		}
	}
	return o
}

func (o *testOracle) IsTerminalType(name string) bool {
	if IsExactType(name) {
		return true
	}
	_, ok := o.types[name]
	return ok
}

func (o *testOracle) Match(text string, typeName string) bool {
	if IsExactType(typeName) {
		return typeName[len(ExactTypePrefix):len(typeName)-1] == text
	}
	_, ok := o.types[typeName][text]
	return ok
}

func (o *testOracle) TypeListContains(types []string, text string) bool {
	for _, t := range types {
		if o.Match(text, t) {
			return true
		}
	}
	return false
}

func newCalcOracle() *testOracle {
	return newTestOracle(map[string][]string{
		"DIGIT":    {"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"},
		"VARIABLE": {"x", "y"},
	})
}

type testProductionGenerator func(lhs string, rhs ...string) *Production

func newTestProductionGenerator(t *testing.T, o TerminalTypeOracle, geometry GeometryHint) testProductionGenerator {
	return func(lhs string, rhs ...string) *Production {
		t.Helper()

		isTerm := make([]bool, len(rhs))
		for i, sym := range rhs {
			isTerm[i] = o.IsTerminalType(sym)
		}
		prod, err := NewProduction(lhs, rhs, isTerm, geometry, "")
		if err != nil {
			t.Fatalf("failed to create a production: %v", err)
		}
		return prod
	}
}

func newTestProductionSet(t *testing.T, o TerminalTypeOracle, prods ...*Production) *ProductionSet {
	t.Helper()

	ps, err := NewProductionSet(prods, o)
	if err != nil {
		t.Fatalf("failed to create a production set: %v", err)
	}
	return ps
}

// genCalcProductionSet builds:
//
//	#0 ROOT -> EXPR
//	#1 EXPR -> SUM
//	#2 EXPR -> TERM
//	#3 SUM  -> TERM TERMINAL(+) TERM
//	#4 TERM -> DIGIT
//	#5 TERM -> VARIABLE
func genCalcProductionSet(t *testing.T) *ProductionSet {
	t.Helper()

	o := newCalcOracle()
	genProd := newTestProductionGenerator(t, o, GeometryHint{})
	return newTestProductionSet(t, o,
		genProd("ROOT", "EXPR"),
		genProd("EXPR", "SUM"),
		genProd("EXPR", "TERM"),
		genProd("SUM", "TERM", "TERMINAL(+)", "TERM"),
		genProd("TERM", "DIGIT"),
		genProd("TERM", "VARIABLE"),
	)
}

func leaves(texts ...string) TokenSet {
	ts := make(TokenSet, len(texts))
	for i, text := range texts {
		x := float64(i * 10)
		ts[i] = NewLeaf(text, Bounds{MinX: x, MinY: 0, MaxX: x + 8, MaxY: 10})
	}
	return ts
}

func leafAt(text string, minX, minY, maxX, maxY float64) *Leaf {
	return NewLeaf(text, Bounds{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY})
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalHeads(a, b []HeadSet) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalInts(a[i], b[i]) {
			return false
		}
	}
	return true
}

func containsHead(heads []HeadSet, h HeadSet) bool {
	for _, e := range heads {
		if equalInts(e, h) {
			return true
		}
	}
	return false
}
