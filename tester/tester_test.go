package tester

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/inkmath/gram2d/grammar"
	"github.com/inkmath/gram2d/spec"
	"github.com/inkmath/gram2d/terminal"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/testconfig"
	"github.com/npillmayer/schuko/tracing"
)

const testTerminals = `{
  "types": [
    {"name": "DIGIT", "patterns": ["[0-9]"]},
    {"name": "VARIABLE", "tokens": ["x", "y"]}
  ]
}`

const testGrammar = `ROOT -> EXPR

EXPR -> SUM
summary: expression from a sum

EXPR -> TERM

SUM -> TERM TERMINAL(+) TERM

FRAC -> EXPR EXPR
geometry: bipartite north-south

TERM -> DIGIT

TERM -> VARIABLE
`

const testTokens = `[
  {"text": "5", "bounds": [0, 0, 10, 10]},
  {"text": "+", "bounds": [12, 0, 22, 10]},
  {"text": "x", "bounds": [24, 0, 34, 10]}
]`

func genProductionSet(t *testing.T) *grammar.ProductionSet {
	t.Helper()

	o, err := terminal.Load(strings.NewReader(testTerminals))
	if err != nil {
		t.Fatal(err)
	}
	ps, err := spec.Load(strings.NewReader(testGrammar), o)
	if err != nil {
		t.Fatal(err)
	}
	return ps
}

func genTestCase(desc, expected string) string {
	return desc + "\n---\n" + testTokens + "\n---\n" + expected
}

func TestTester_Run(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelError)

	tests := []struct {
		caption string
		src     string
		passed  bool
		diffs   []string
	}{
		{
			caption: "every matched production is expected",
			src: genTestCase("a sum", `ROOT -> EXPR
expression from a sum
SUM -> TERM TERMINAL(+) TERM @ {0}
`),
			passed: true,
		},
		{
			caption: "an lhs filter restricts the productions compared",
			src: genTestCase("a sum", `lhs: SUM
SUM -> TERM TERMINAL(+) TERM @ {0} {2}
`),
			passed: true,
		},
		{
			caption: "missing and unexpected productions are reported",
			src: genTestCase("a sum", `expression from a sum
EXPR -> TERM
SUM -> TERM TERMINAL(+) TERM
`),
			diffs: []string{
				"missing production: EXPR -> TERM",
				"unexpected production: ROOT -> EXPR",
			},
		},
		{
			caption: "a head that is not offered is reported",
			src: genTestCase("a sum", `lhs: SUM
SUM -> TERM TERMINAL(+) TERM @ {1}
`),
			diffs: []string{
				"SUM -> TERM TERMINAL(+) TERM: head {1} is not offered",
			},
		},
	}
	ps := genProductionSet(t)
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "case.txt")
			if err := os.WriteFile(path, []byte(tt.src), 0644); err != nil {
				t.Fatal(err)
			}
			cases := ListTestCases(path)
			if len(cases) != 1 || cases[0].Error != nil {
				t.Fatalf("failed to read the test case: %v", cases)
			}

			tester := &Tester{
				Productions: ps,
				Cases:       cases,
				Timeout:     time.Minute,
			}
			rs := tester.Run(context.Background())
			if len(rs) != 1 {
				t.Fatalf("unexpected result count: %v", len(rs))
			}
			r := rs[0]
			if tt.passed {
				if r.Error != nil {
					t.Fatalf("unexpected failure: %v", r)
				}
				if !strings.HasPrefix(r.String(), "Passed ") {
					t.Fatalf("unexpected report: %v", r)
				}
				return
			}
			if r.Error == nil {
				t.Fatal("the test case must fail")
			}
			if len(r.Diffs) != len(tt.diffs) {
				t.Fatalf("unexpected diffs; want: %v, got: %v", tt.diffs, r.Diffs)
			}
			for i, d := range tt.diffs {
				if !strings.HasPrefix(r.Diffs[i], d) {
					t.Fatalf("unexpected diff #%v; want: %v, got: %v", i, d, r.Diffs[i])
				}
			}
			if !strings.HasPrefix(r.String(), "Failed "+path+":") {
				t.Fatalf("unexpected report: %v", r)
			}
		})
	}
}

func TestListTestCases(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelError)

	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		filepath.Join(dir, "a.txt"): genTestCase("a", "ROOT -> EXPR\n"),
		filepath.Join(dir, "b.txt"): "only a description\n",
		filepath.Join(sub, "c.txt"): genTestCase("c", "lhs: SUM\n"),
	}
	for path, src := range files {
		if err := os.WriteFile(path, []byte(src), 0644); err != nil {
			t.Fatal(err)
		}
	}

	cases := ListTestCases(dir)
	if len(cases) != 3 {
		t.Fatalf("unexpected case count: %v", len(cases))
	}
	if cases[0].Error != nil || cases[2].Error != nil {
		t.Fatalf("well-formed cases must be read: %v, %v", cases[0].Error, cases[2].Error)
	}
	if cases[1].Error == nil {
		t.Fatal("a malformed case must carry an error")
	}
	if cases[2].FilePath != filepath.Join(sub, "c.txt") {
		t.Fatalf("unexpected path: %v", cases[2].FilePath)
	}

	rs := (&Tester{
		Productions: genProductionSet(t),
		Cases:       cases[1:2],
	}).Run(context.Background())
	if rs[0].Error == nil || !strings.HasPrefix(rs[0].String(), "Failed ") {
		t.Fatalf("a malformed case must fail: %v", rs[0])
	}

	missing := ListTestCases(filepath.Join(dir, "missing"))
	if len(missing) != 1 || !os.IsNotExist(missing[0].Error) {
		t.Fatalf("a missing path must carry an error: %v", missing)
	}
}
