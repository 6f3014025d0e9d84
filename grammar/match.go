package grammar

import (
	"context"
	"fmt"
)

// HeadSet holds the ascending indices of the tokens forming a head. The
// remaining indices of the collection are the non-head tokens.
type HeadSet []int

func fullHeadSet(n int) HeadSet {
	h := make(HeadSet, n)
	for i := range h {
		h[i] = i
	}
	return h
}

// maxEnumeratedTokens is the widest collection whose head/non-head
// assignments fit into a 64-bit mask.
const maxEnumeratedTokens = 63

// cancelCheckInterval is the number of enumerated assignments between two
// cancellation checks.
const cancelCheckInterval = 1 << 10

type matcher struct {
	ctx context.Context
	ps  *ProductionSet

	// aliasPath holds the single-symbol productions currently being expanded
	// over the same collection.
	aliasPath map[int]struct{}
}

func newMatcher(ctx context.Context, ps *ProductionSet) *matcher {
	return &matcher{
		ctx:       ctx,
		ps:        ps,
		aliasPath: map[int]struct{}{},
	}
}

// Match returns every structurally plausible head of production idx within
// tokens. A nil result means the production cannot match. Terminal types
// of non-head tokens are not checked here; see ValidProductions.
func (ps *ProductionSet) Match(ctx context.Context, idx int, tokens TokenSet) ([]HeadSet, error) {
	if err := ps.checkIndex(idx); err != nil {
		return nil, err
	}
	if err := tokens.validate(); err != nil {
		return nil, err
	}
	return newMatcher(ctx, ps).match(idx, tokens)
}

func (m *matcher) checkCancel() error {
	return checkCancel(m.ctx)
}

func checkCancel(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCancelled, err)
	}
	return nil
}

func (m *matcher) match(idx int, tokens TokenSet) ([]HeadSet, error) {
	if err := m.checkCancel(); err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, nil
	}

	prod := m.ps.prods[idx]
	switch {
	case prod.HeadIsTerminal():
		return m.matchTerminalHead(prod, tokens)
	case len(prod.rhs) == 1:
		return m.matchAlias(idx, prod, tokens)
	}
	return m.matchPartitions(prod, tokens)
}

// matchTerminalHead yields one singleton head for every token whose text
// matches the head type.
func (m *matcher) matchTerminalHead(prod *Production, tokens TokenSet) ([]HeadSet, error) {
	var heads []HeadSet
	for i, tok := range tokens {
		text, ok, err := leafText(tok)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if m.ps.oracle.Match(text, prod.Head()) {
			heads = append(heads, HeadSet{i})
		}
	}
	return heads, nil
}

// matchAlias handles productions whose RHS is a single non-terminal. On
// success the whole collection is the head.
func (m *matcher) matchAlias(idx int, prod *Production, tokens TokenSet) ([]HeadSet, error) {
	if tokens.hasNode() {
		children := m.ps.children[idx]
		for _, tok := range tokens {
			n, ok := tok.(*Node)
			if !ok {
				continue
			}
			if !children.containsAny(n.prods) {
				return nil, nil
			}
		}
		return []HeadSet{fullHeadSet(len(tokens))}, nil
	}

	m.aliasPath[idx] = struct{}{}
	defer delete(m.aliasPath, idx)

	for _, alt := range m.ps.lhsIndex[prod.Head()] {
		if _, ok := m.aliasPath[alt]; ok {
			continue
		}
		heads, err := m.match(alt, tokens)
		if err != nil {
			return nil, err
		}
		if len(heads) > 0 {
			return []HeadSet{fullHeadSet(len(tokens))}, nil
		}
	}
	return nil, nil
}

// matchPartitions handles productions with a non-terminal head and further
// RHS symbols. Without a geometry hint every head/non-head assignment is a
// candidate.
func (m *matcher) matchPartitions(prod *Production, tokens TokenSet) ([]HeadSet, error) {
	switch prod.geometry.Kind {
	case GeometryBipartite:
		return bipartiteHeads(tokens, prod.geometry.Direction), nil
	case GeometryTripartite:
		return tripartiteHeads(tokens, prod.geometry.Direction), nil
	}
	return m.enumerateHeads(len(tokens))
}

// enumerateHeads returns all 2^n assignments in ascending mask order; bit j
// of a mask puts token j into the head.
func (m *matcher) enumerateHeads(n int) ([]HeadSet, error) {
	if n > maxEnumeratedTokens {
		return nil, fmt.Errorf("%w: %v tokens (max: %v)", ErrCollectionTooLarge, n, maxEnumeratedTokens)
	}

	total := uint64(1) << uint(n)
	capacity := total
	if capacity > cancelCheckInterval {
		capacity = cancelCheckInterval
	}
	heads := make([]HeadSet, 0, capacity)
	for mask := uint64(0); mask < total; mask++ {
		if mask%cancelCheckInterval == 0 {
			if err := m.checkCancel(); err != nil {
				return nil, err
			}
		}
		h := HeadSet{}
		for j := 0; j < n; j++ {
			if mask&(uint64(1)<<uint(j)) != 0 {
				h = append(h, j)
			}
		}
		heads = append(heads, h)
	}
	return heads, nil
}
