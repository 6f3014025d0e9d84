package grammar

// childrenComContext computes the productions transitively reachable from
// each production. visited is reset for every top-level production; results
// of productions still in progress when a cycle is cut are not completed
// afterwards.
type childrenComContext struct {
	ps      *ProductionSet
	results []*indexSet
	visited map[int]struct{}
}

func genTransitiveChildren(ps *ProductionSet) []*indexSet {
	cc := &childrenComContext{
		ps:      ps,
		results: make([]*indexSet, len(ps.prods)),
	}
	for i := range ps.prods {
		cc.visited = map[int]struct{}{}
		cc.compute(i)
		tracer().Debugf("transitive children of #%v %v: %v", i, ps.prods[i], cc.results[i].values())
	}
	return cc.results
}

func (cc *childrenComContext) compute(idx int) *indexSet {
	cc.visited[idx] = struct{}{}

	res := newIndexSet()
	nts := map[string]struct{}{}
	for _, nt := range cc.ps.prods[idx].nonTerminals() {
		nts[nt] = struct{}{}
	}
	if len(nts) == 0 {
		cc.results[idx] = res
		return res
	}

	for i, p := range cc.ps.prods {
		if _, ok := nts[p.lhs]; !ok {
			continue
		}
		res.add(i)
		if _, ok := cc.visited[i]; ok {
			continue
		}
		if r := cc.results[i]; r != nil {
			res.addAll(r)
			continue
		}
		res.addAll(cc.compute(i))
	}

	cc.results[idx] = res
	return res
}
