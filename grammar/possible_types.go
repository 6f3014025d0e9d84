package grammar

// genPossibleTypes computes, per production, every terminal type that can
// appear when the production is fully expanded. Each production gets its
// own visited marks so that cyclic grammars terminate.
func genPossibleTypes(ps *ProductionSet) []*TypeSet {
	results := make([]*TypeSet, len(ps.prods))
	for i := range ps.prods {
		visited := make([]bool, len(ps.prods))
		results[i] = collectPossibleTypes(ps, i, visited)
		tracer().Debugf("possible types of #%v %v: %v", i, ps.prods[i], results[i])
	}
	return results
}

func collectPossibleTypes(ps *ProductionSet, idx int, visited []bool) *TypeSet {
	visited[idx] = true

	prod := ps.prods[idx]
	acc := newTypeSet()
	for i, sym := range prod.rhs {
		if prod.rhsIsTerminal[i] {
			acc.add(sym)
			continue
		}
		for _, alt := range ps.lhsIndex[sym] {
			if visited[alt] {
				continue
			}
			acc.addAll(collectPossibleTypes(ps, alt, visited))
		}
	}
	return acc
}
