package tester

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/inkmath/gram2d/grammar"
	tspec "github.com/inkmath/gram2d/spec/test"
)

type TestResult struct {
	TestCasePath string
	Error        error
	Diffs        []string
}

func (r *TestResult) String() string {
	if r.Error != nil {
		const indent1 = "    "
		const indent2 = indent1 + indent1

		msgLines := strings.Split(r.Error.Error(), "\n")
		msg := fmt.Sprintf("Failed %v:\n%v%v", r.TestCasePath, indent1, strings.Join(msgLines, "\n"+indent1))
		if len(r.Diffs) == 0 {
			return msg
		}
		return fmt.Sprintf("%v\n%v%v", msg, indent2, strings.Join(r.Diffs, "\n"+indent2))
	}
	return fmt.Sprintf("Passed %v", r.TestCasePath)
}

type TestCaseWithMetadata struct {
	TestCase *tspec.TestCase
	FilePath string
	Error    error
}

func ListTestCases(testPath string) []*TestCaseWithMetadata {
	fi, err := os.Stat(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	if !fi.IsDir() {
		c, err := parseTestCase(testPath)
		return []*TestCaseWithMetadata{
			{
				TestCase: c,
				FilePath: testPath,
				Error:    err,
			},
		}
	}

	es, err := os.ReadDir(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	var cases []*TestCaseWithMetadata
	for _, e := range es {
		cs := ListTestCases(filepath.Join(testPath, e.Name()))
		cases = append(cases, cs...)
	}
	return cases
}

func parseTestCase(testCasePath string) (*tspec.TestCase, error) {
	f, err := os.Open(testCasePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return tspec.ParseTestCase(f)
}

// Tester runs test cases against a production set. A positive Timeout
// bounds each case.
type Tester struct {
	Productions *grammar.ProductionSet
	Cases       []*TestCaseWithMetadata
	Timeout     time.Duration
}

func (t *Tester) Run(ctx context.Context) []*TestResult {
	var rs []*TestResult
	for _, c := range t.Cases {
		rs = append(rs, t.runTest(ctx, c))
	}
	return rs
}

func (t *Tester) runTest(ctx context.Context, c *TestCaseWithMetadata) *TestResult {
	if c.Error != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        c.Error,
		}
	}

	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}
	v, err := t.Productions.ValidProductions(ctx, c.TestCase.Tokens, c.TestCase.LHS)
	if err != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        err,
		}
	}

	diffs := diffCandidates(t.Productions, v.Matched, c.TestCase.Expected)
	if len(diffs) > 0 {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        fmt.Errorf("output mismatch"),
			Diffs:        diffs,
		}
	}
	return &TestResult{
		TestCasePath: c.FilePath,
	}
}

// diffCandidates compares the matched productions with the expected ones by
// summary. The matched set must equal the expected set; the expected head
// sets must be among the heads offered.
func diffCandidates(ps *grammar.ProductionSet, matched []*grammar.Candidate, expected []*tspec.Expectation) []string {
	actual := map[string][]grammar.HeadSet{}
	for _, c := range matched {
		p, err := ps.Production(c.Production)
		if err != nil {
			return []string{err.Error()}
		}
		actual[p.Summary()] = append(actual[p.Summary()], c.Heads...)
	}

	var diffs []string
	seen := map[string]struct{}{}
	for _, e := range expected {
		seen[e.Summary] = struct{}{}
		heads, ok := actual[e.Summary]
		if !ok {
			diffs = append(diffs, fmt.Sprintf("missing production: %v", e.Summary))
			continue
		}
		for _, h := range e.Heads {
			if !containsHead(heads, h) {
				diffs = append(diffs, fmt.Sprintf("%v: head %v is not offered; offered: %v", e.Summary, formatHead(h), formatHeads(heads)))
			}
		}
	}

	var unexpected []string
	for summary := range actual {
		if _, ok := seen[summary]; !ok {
			unexpected = append(unexpected, summary)
		}
	}
	sort.Strings(unexpected)
	for _, summary := range unexpected {
		diffs = append(diffs, fmt.Sprintf("unexpected production: %v", summary))
	}
	return diffs
}

func containsHead(heads []grammar.HeadSet, h grammar.HeadSet) bool {
	for _, k := range heads {
		if len(k) != len(h) {
			continue
		}
		eq := true
		for i := range k {
			if k[i] != h[i] {
				eq = false
				break
			}
		}
		if eq {
			return true
		}
	}
	return false
}

func formatHead(h grammar.HeadSet) string {
	idxs := make([]string, len(h))
	for i, idx := range h {
		idxs[i] = fmt.Sprint(idx)
	}
	return "{" + strings.Join(idxs, ",") + "}"
}

func formatHeads(heads []grammar.HeadSet) string {
	fs := make([]string, len(heads))
	for i, h := range heads {
		fs[i] = formatHead(h)
	}
	return strings.Join(fs, " ")
}
