// Package test reads test cases for two-dimensional grammars.
//
// A test case has three parts separated by --- lines: a description, a JSON
// token collection and the expected productions, one summary per line. A
// summary may be followed by @ and the head sets the production must
// offer, e.g.
//
//	SUM -> TERM TERMINAL(+) TERM @ {0} {2}
//
// A line `lhs: NAME` in the expected part restricts matching to the
// productions of NAME.
package test

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/inkmath/gram2d/grammar"
	"github.com/inkmath/gram2d/spec"
)

type Expectation struct {
	Summary string
	Heads   []grammar.HeadSet
}

type TestCase struct {
	Description string
	Tokens      grammar.TokenSet
	LHS         string
	Expected    []*Expectation
}

func ParseTestCase(r io.Reader) (*TestCase, error) {
	parts, err := splitIntoParts(r)
	if err != nil {
		return nil, err
	}
	if len(parts) != 3 {
		return nil, fmt.Errorf("too many or too few part delimiters: a test case consists of just three parts: %v parts found", len(parts))
	}

	tokens, err := spec.ReadTokens(bytes.NewReader(parts[1].buf))
	if err != nil {
		return nil, fmt.Errorf("line %v: %w", parts[0].lineCount+2, err)
	}

	lineOffset := parts[0].lineCount + parts[1].lineCount + 2
	lhs, expected, err := parseExpected(parts[2].buf, lineOffset)
	if err != nil {
		return nil, err
	}

	return &TestCase{
		Description: string(parts[0].buf),
		Tokens:      tokens,
		LHS:         lhs,
		Expected:    expected,
	}, nil
}

var (
	reHeadSet   = regexp.MustCompile(`^\{\s*([0-9]+(\s*,\s*[0-9]+)*)?\s*\}$`)
	reHeadSplit = regexp.MustCompile(`\}\s*`)
)

func parseExpected(src []byte, lineOffset int) (string, []*Expectation, error) {
	var lhs string
	var expected []*Expectation
	s := bufio.NewScanner(bytes.NewReader(src))
	row := lineOffset
	for s.Scan() {
		row++
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		if name, ok := cutPrefix(line, "lhs:"); ok {
			if lhs != "" {
				return "", nil, fmt.Errorf("line %v: duplicate lhs filter", row)
			}
			lhs = strings.TrimSpace(name)
			if lhs == "" {
				return "", nil, fmt.Errorf("line %v: an lhs filter needs a name", row)
			}
			continue
		}

		summary, heads, hasHeads := strings.Cut(line, " @")
		e := &Expectation{
			Summary: strings.TrimSpace(summary),
		}
		if hasHeads {
			hs, err := parseHeadSets(heads)
			if err != nil {
				return "", nil, fmt.Errorf("line %v: %w", row, err)
			}
			e.Heads = hs
		}
		expected = append(expected, e)
	}
	if err := s.Err(); err != nil {
		return "", nil, err
	}
	return lhs, expected, nil
}

func cutPrefix(s, prefix string) (string, bool) {
	if !strings.HasPrefix(s, prefix) {
		return s, false
	}
	return s[len(prefix):], true
}

// parseHeadSets reads a sequence like `{0} {1, 2} {}`.
func parseHeadSets(src string) ([]grammar.HeadSet, error) {
	var hs []grammar.HeadSet
	for _, f := range reHeadSplit.Split(strings.TrimSpace(src), -1) {
		if f == "" {
			continue
		}
		f += "}"
		m := reHeadSet.FindStringSubmatch(f)
		if m == nil {
			return nil, fmt.Errorf("invalid head set: %v", f)
		}
		h := grammar.HeadSet{}
		if m[1] != "" {
			for _, n := range strings.Split(m[1], ",") {
				i, err := strconv.Atoi(strings.TrimSpace(n))
				if err != nil {
					return nil, err
				}
				h = append(h, i)
			}
		}
		sort.Ints(h)
		hs = append(hs, h)
	}
	if len(hs) == 0 {
		return nil, fmt.Errorf("@ must be followed by at least one head set")
	}
	return hs, nil
}

type testCasePart struct {
	buf       []byte
	lineCount int
}

func splitIntoParts(r io.Reader) ([]*testCasePart, error) {
	var bufs []*testCasePart
	s := bufio.NewScanner(r)
	delimited := false
	for {
		buf, lineCount, ok, err := readPart(s)
		if err != nil {
			return nil, err
		}
		if buf == nil {
			// A trailing delimiter opens one more, empty part.
			if delimited {
				bufs = append(bufs, &testCasePart{
					buf: []byte{},
				})
			}
			break
		}
		bufs = append(bufs, &testCasePart{
			buf:       buf,
			lineCount: lineCount,
		})
		delimited = ok
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return bufs, nil
}

var reDelim = regexp.MustCompile(`^\s*---+\s*$`)

// readPart reads lines up to the next delimiter. delimited reports whether
// a delimiter ended the part.
func readPart(s *bufio.Scanner) (buf []byte, lineCount int, delimited bool, err error) {
	if !s.Scan() {
		return nil, 0, false, s.Err()
	}
	b := &bytes.Buffer{}
	line := s.Bytes()
	if reDelim.Match(line) {
		// An empty part; (*bytes.Buffer).Bytes() would be nil.
		return []byte{}, 0, true, nil
	}
	b.Write(line)
	lineCount = 1
	for s.Scan() {
		line := s.Bytes()
		if reDelim.Match(line) {
			return b.Bytes(), lineCount, true, nil
		}
		b.WriteByte('\n')
		b.Write(line)
		lineCount++
	}
	if err := s.Err(); err != nil {
		return nil, 0, false, err
	}
	return b.Bytes(), lineCount, false, nil
}
