package grammar

import (
	"context"
)

// Candidate is a production that survived all filters, with its heads.
type Candidate struct {
	Production int
	Heads      []HeadSet
}

// Validity is the result of ValidProductions. Structural lists every
// production with at least one structural head, in search order; Matched is
// the subset that also passed the terminal type filters.
type Validity struct {
	Matched    []*Candidate
	Structural []int
}

// MatchedIndices returns the production indices of v.Matched.
func (v *Validity) MatchedIndices() []int {
	idxs := make([]int, len(v.Matched))
	for i, c := range v.Matched {
		idxs[i] = c.Production
	}
	return idxs
}

// ValidProductions tests every enabled production, restricted to LHS lhs
// unless lhs is empty, against tokens.
func (ps *ProductionSet) ValidProductions(ctx context.Context, tokens TokenSet, lhs string) (*Validity, error) {
	if err := tokens.validate(); err != nil {
		return nil, err
	}

	v := &Validity{}
	for _, idx := range ps.snapshot().index {
		prod := ps.prods[idx]
		if lhs != "" && prod.lhs != lhs {
			continue
		}

		heads, err := newMatcher(ctx, ps).match(idx, tokens)
		if err != nil {
			return nil, err
		}
		if len(heads) == 0 {
			continue
		}
		v.Structural = append(v.Structural, idx)

		missing, err := ps.missesTypes(ps.requiredTypes[idx], tokens, nil)
		if err != nil {
			return nil, err
		}
		if missing {
			tracer().Debugf("#%v %v excluded: a required type is missing", idx, prod)
			continue
		}
		foreign, err := ps.hasForeignType(idx, tokens)
		if err != nil {
			return nil, err
		}
		if foreign {
			tracer().Debugf("#%v %v excluded: a token cannot be produced", idx, prod)
			continue
		}
		heads, err = ps.feasibleHeads(ctx, idx, tokens, heads)
		if err != nil {
			return nil, err
		}
		if len(heads) == 0 {
			tracer().Debugf("#%v %v excluded: no head leaves the rest of the RHS satisfiable", idx, prod)
			continue
		}

		v.Matched = append(v.Matched, &Candidate{
			Production: idx,
			Heads:      heads,
		})
	}
	return v, nil
}

// missesTypes pairs each type of required with a distinct token among those
// selected by in (all tokens when in is nil). Exact types are paired first,
// since a token matching an exact type often matches a broader class type as
// well. A node that cannot be collapsed to a single token stops the check
// without reporting a miss.
func (ps *ProductionSet) missesTypes(required *TypeSet, tokens TokenSet, in func(i int) bool) (bool, error) {
	if required.IsEmpty() {
		return false, nil
	}

	s := borrowScratch()
	defer s.release()
	names := required.Names()
	for _, t := range names {
		if IsExactType(t) {
			s.pending = append(s.pending, t)
		}
	}
	for _, t := range names {
		if !IsExactType(t) {
			s.pending = append(s.pending, t)
		}
	}

	for i, tok := range tokens {
		if in != nil && !in(i) {
			continue
		}
		text, ok, err := leafText(tok)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		for k, t := range s.pending {
			if ps.oracle.Match(text, t) {
				s.pending = append(s.pending[:k], s.pending[k+1:]...)
				break
			}
		}
		if len(s.pending) == 0 {
			break
		}
	}
	return len(s.pending) > 0, nil
}

// hasForeignType reports whether a token's text belongs to none of the
// terminal types production idx can produce.
func (ps *ProductionSet) hasForeignType(idx int, tokens TokenSet) (bool, error) {
	for _, tok := range tokens {
		text, ok, err := leafText(tok)
		if err != nil {
			return false, err
		}
		if !ok {
			continue
		}
		if !ps.oracle.TypeListContains(ps.possibleNames[idx], text) {
			return true, nil
		}
	}
	return false, nil
}

// feasibleHeads drops the heads that leave a symbol of production idx
// without tokens: the empty and the full head when the RHS has more than one
// symbol. It also drops the heads whose tokens miss a type required by the
// head symbol, or whose remaining tokens miss a type required by the other
// RHS symbols.
func (ps *ProductionSet) feasibleHeads(ctx context.Context, idx int, tokens TokenSet, heads []HeadSet) ([]HeadSet, error) {
	split := len(ps.prods[idx].rhs) > 1
	headReq := ps.headRequired[idx]
	tailReq := ps.tailRequired[idx]
	checkTypes := !headReq.IsEmpty() || !tailReq.IsEmpty()
	if !split && !checkTypes {
		return heads, nil
	}

	inHead := make([]bool, len(tokens))
	var feasible []HeadSet
	for k, h := range heads {
		if k%cancelCheckInterval == 0 {
			if err := checkCancel(ctx); err != nil {
				return nil, err
			}
		}
		if split && (len(h) == 0 || len(h) == len(tokens)) {
			continue
		}
		if !checkTypes {
			feasible = append(feasible, h)
			continue
		}

		for i := range inHead {
			inHead[i] = false
		}
		for _, i := range h {
			inHead[i] = true
		}

		missing, err := ps.missesTypes(headReq, tokens, func(i int) bool {
			return inHead[i]
		})
		if err != nil {
			return nil, err
		}
		if missing {
			continue
		}
		missing, err = ps.missesTypes(tailReq, tokens, func(i int) bool {
			return !inHead[i]
		})
		if err != nil {
			return nil, err
		}
		if missing {
			continue
		}
		feasible = append(feasible, h)
	}
	return feasible, nil
}
