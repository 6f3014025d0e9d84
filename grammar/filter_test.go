package grammar

import (
	"context"
	"errors"
	"testing"
)

func TestProductionSet_ValidProductions(t *testing.T) {
	tests := []struct {
		caption    string
		specs      [][]string
		oracle     map[string][]string
		disableLHS []string
		tokens     TokenSet
		lhs        string
		matched    []int
		structural []int
	}{
		{
			caption: "a single digit",
			specs: [][]string{
				{"ROOT", "EXPR"},
				{"EXPR", "SUM"},
				{"EXPR", "TERM"},
				{"SUM", "TERM", "TERMINAL(+)", "TERM"},
				{"TERM", "DIGIT"},
				{"TERM", "VARIABLE"},
			},
			tokens:     leaves("5"),
			matched:    []int{0, 2, 4},
			structural: []int{0, 1, 2, 3, 4},
		},
		{
			caption: "an alias chain down to a terminal head",
			specs: [][]string{
				{"ROOT", "EXPR"},
				{"EXPR", "DIGIT"},
			},
			tokens:     leaves("5"),
			matched:    []int{0, 1},
			structural: []int{0, 1},
		},
		{
			caption: "a token no production can produce",
			specs: [][]string{
				{"EXPR", "TERM"},
				{"TERM", "DIGIT"},
				{"TERM", "VARIABLE"},
			},
			tokens:     leaves("5", "q"),
			matched:    nil,
			structural: []int{0, 1},
		},
		{
			caption: "exact types are paired before class types",
			specs: [][]string{
				{"ONE", "TERMINAL(1)", "DIGIT"},
			},
			tokens:     leaves("1", "5"),
			matched:    []int{0},
			structural: []int{0},
		},
		{
			caption: "the LHS filter",
			specs: [][]string{
				{"ROOT", "EXPR"},
				{"EXPR", "SUM"},
				{"EXPR", "TERM"},
				{"SUM", "TERM", "TERMINAL(+)", "TERM"},
				{"TERM", "DIGIT"},
				{"TERM", "VARIABLE"},
			},
			tokens:     leaves("5", "+", "7"),
			lhs:        "EXPR",
			matched:    []int{1},
			structural: []int{1, 2},
		},
		{
			caption: "disabled productions are never reported",
			specs: [][]string{
				{"ROOT", "EXPR"},
				{"EXPR", "DIGIT"},
				{"DIGIT", "NUM"},
				{"DIGIT", "TERMINAL(0)"},
			},
			oracle: map[string][]string{
				"NUM": {"5"},
			},
			disableLHS: []string{"DIGIT"},
			tokens:     leaves("5"),
			matched:    []int{0, 1},
			structural: []int{0, 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			teardown := setupTracing(t)
			defer teardown()

			o := newCalcOracle()
			if tt.oracle != nil {
				o = newTestOracle(tt.oracle)
			}
			genProd := newTestProductionGenerator(t, o, GeometryHint{})
			prods := make([]*Production, len(tt.specs))
			for i, s := range tt.specs {
				prods[i] = genProd(s[0], s[1:]...)
			}
			ps := newTestProductionSet(t, o, prods...)
			for _, lhs := range tt.disableLHS {
				if _, err := ps.DisableByLHS(lhs); err != nil {
					t.Fatal(err)
				}
			}

			v, err := ps.ValidProductions(context.Background(), tt.tokens, tt.lhs)
			if err != nil {
				t.Fatal(err)
			}
			if got := v.MatchedIndices(); !equalInts(got, tt.matched) {
				t.Errorf("unexpected matched productions\nwant: %v\ngot: %v", tt.matched, got)
			}
			if !equalInts(v.Structural, tt.structural) {
				t.Errorf("unexpected structural matches\nwant: %v\ngot: %v", tt.structural, v.Structural)
			}
			for _, lhs := range tt.disableLHS {
				for _, p := range ps.LookupByLHS(lhs) {
					for _, m := range v.Structural {
						if m == p {
							t.Errorf("disabled production #%v was tested", p)
						}
					}
				}
			}
		})
	}
}

func TestProductionSet_ValidProductionsHeads(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()

	ps := genCalcProductionSet(t)
	v, err := ps.ValidProductions(context.Background(), leaves("5", "+", "7"), "SUM")
	if err != nil {
		t.Fatal(err)
	}
	if len(v.Matched) != 1 || v.Matched[0].Production != 3 {
		t.Fatalf("only SUM must match; got: %v", v.MatchedIndices())
	}
	heads := v.Matched[0].Heads
	for _, h := range []HeadSet{{0}, {2}} {
		if !containsHead(heads, h) {
			t.Errorf("head %v is missing: %v", h, heads)
		}
	}
	for _, h := range []HeadSet{{}, {0, 1, 2}} {
		if containsHead(heads, h) {
			t.Errorf("head %v leaves a symbol without tokens: %v", h, heads)
		}
	}
	for _, h := range heads {
		for _, i := range h {
			if i == 1 {
				t.Errorf("head %v leaves no token for TERMINAL(+)", h)
			}
		}
	}

	structural, err := ps.Match(context.Background(), 3, leaves("5", "+", "7"))
	if err != nil {
		t.Fatal(err)
	}
	if len(heads) >= len(structural) {
		t.Fatalf("the filter must narrow the structural heads; structural: %v, filtered: %v", structural, heads)
	}
}

func TestProductionSet_ValidProductionsNodeBenefitOfDoubt(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()

	ps := genCalcProductionSet(t)
	tokens := TokenSet{
		NewNode(leaves("5", "+", "7"), []int{3}),
		leafAt("7", 40, 0, 48, 10),
	}
	v, err := ps.ValidProductions(context.Background(), tokens, "SUM")
	if err != nil {
		t.Fatal(err)
	}
	if !equalInts(v.MatchedIndices(), []int{3}) {
		t.Fatalf("a node wrapping several tokens must not exclude SUM; got: %v", v.MatchedIndices())
	}
	if !equalHeads(v.Matched[0].Heads, []HeadSet{{1}}) {
		t.Fatalf("unexpected heads: %v", v.Matched[0].Heads)
	}
}

func TestProductionSet_ValidProductionsErrors(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()

	ps := genCalcProductionSet(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ps.ValidProductions(ctx, leaves("5", "+", "7"), ""); !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled; got: %v", err)
	}
	if _, err := ps.ValidProductions(context.Background(), TokenSet{foreignToken{}}, ""); !errors.Is(err, ErrUnsupportedToken) {
		t.Fatalf("expected ErrUnsupportedToken; got: %v", err)
	}

	v, err := ps.ValidProductions(context.Background(), TokenSet{}, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(v.Matched) != 0 || len(v.Structural) != 0 {
		t.Fatalf("an empty collection must match nothing; got: %v, %v", v.MatchedIndices(), v.Structural)
	}
}

// cancellingOracle cancels a matching pass the first time it is asked about
// typeName.
type cancellingOracle struct {
	*testOracle
	typeName string
	cancel   context.CancelFunc
}

func (o *cancellingOracle) Match(text string, typeName string) bool {
	if typeName == o.typeName {
		o.cancel()
	}
	return o.testOracle.Match(text, typeName)
}

func TestProductionSet_ValidProductionsCancelledWhileFiltering(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The structural match of S enumerates 2^12 heads; the context is
	// cancelled by the required-type check that follows it.
	o := &cancellingOracle{
		testOracle: newCalcOracle(),
		typeName:   "TERMINAL(+)",
		cancel:     cancel,
	}
	genProd := newTestProductionGenerator(t, o, GeometryHint{})
	ps := newTestProductionSet(t, o,
		genProd("A", "DIGIT"),
		genProd("S", "A", "TERMINAL(+)"),
	)

	texts := []string{"+"}
	for i := 0; i < 11; i++ {
		texts = append(texts, "5")
	}
	tokens := leaves(texts...)

	v, err := ps.ValidProductions(ctx, tokens, "")
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled; got: %v, %v", v, err)
	}

	v, err = ps.ValidProductions(context.Background(), tokens, "")
	if err != nil {
		t.Fatal(err)
	}
	if !equalInts(v.MatchedIndices(), []int{1}) {
		t.Fatalf("unexpected matched productions: %v", v.MatchedIndices())
	}
	for _, h := range v.Matched[0].Heads {
		if len(h) == 0 || len(h) == len(tokens) {
			t.Fatalf("head %v leaves a symbol without tokens", h)
		}
	}
}
