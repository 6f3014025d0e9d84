package grammar

import (
	"github.com/emirpasic/gods/lists/arraylist"
)

// requiredTypeComContext computes, per production, the terminal types every
// match of the production must contain. A non-terminal contributes the
// intersection of the required types of its alternatives.
//
// Alternatives on the in-progress stack are skipped to cut cycles. An
// alternative with a lower index than the production being computed that
// has no result yet contributes nothing; this under-constrains some mutually
// recursive rules but never rejects a valid match.
type requiredTypeComContext struct {
	ps      *ProductionSet
	results []*TypeSet
	stack   *arraylist.List
}

func genRequiredTypes(ps *ProductionSet) []*TypeSet {
	cc := &requiredTypeComContext{
		ps:      ps,
		results: make([]*TypeSet, len(ps.prods)),
		stack:   arraylist.New(),
	}
	for i := range ps.prods {
		cc.compute(i)
		if !cc.stack.Empty() {
			panic("required type stack is not empty after a top-level computation")
		}
	}
	return cc.results
}

func (cc *requiredTypeComContext) push(idx int) {
	cc.stack.Add(idx)
}

func (cc *requiredTypeComContext) pop() {
	cc.stack.Remove(cc.stack.Size() - 1)
}

func (cc *requiredTypeComContext) inProgress(idx int) bool {
	return cc.stack.Contains(idx)
}

func (cc *requiredTypeComContext) compute(idx int) *TypeSet {
	if r := cc.results[idx]; r != nil {
		return r
	}

	cc.push(idx)
	defer cc.pop()

	prod := cc.ps.prods[idx]
	acc := newTypeSet()
	for i, sym := range prod.rhs {
		if prod.rhsIsTerminal[i] {
			acc.add(sym)
			continue
		}

		var alts []*TypeSet
		for _, alt := range cc.ps.lhsIndex[sym] {
			if cc.inProgress(alt) {
				continue
			}
			if r := cc.results[alt]; r != nil {
				alts = append(alts, r)
				continue
			}
			if alt < idx {
				continue
			}
			alts = append(alts, cc.compute(alt))
		}
		acc.addAll(intersectTypeSets(alts))
	}

	cc.results[idx] = acc
	tracer().Debugf("required types of #%v %v: %v", idx, prod, acc)

	return acc
}
