package grammar

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// TerminalTypeOracle decides which token texts belong to which terminal
// types.
type TerminalTypeOracle interface {
	IsTerminalType(name string) bool
	Match(text string, typeName string) bool
	TypeListContains(types []string, text string) bool
}

// searchState is an immutable snapshot of the enabled flags and the indices
// of the enabled productions in ascending order.
type searchState struct {
	enabled []bool
	index   []int
}

func newSearchState(enabled []bool) *searchState {
	index := make([]int, 0, len(enabled))
	for i, e := range enabled {
		if e {
			index = append(index, i)
		}
	}
	return &searchState{
		enabled: enabled,
		index:   index,
	}
}

// ProductionSet is the production registry. The productions and the
// analyses derived from them never change after NewProductionSet returns;
// only the enabled flags do. Writers are serialized and publish a fresh
// searchState, so matching passes may run concurrently with them.
type ProductionSet struct {
	prods         []*Production
	oracle        TerminalTypeOracle
	lhsIndex      map[string][]int
	requiredTypes []*TypeSet
	possibleTypes []*TypeSet
	possibleNames [][]string
	headRequired  []*TypeSet
	tailRequired  []*TypeSet
	children      []*indexSet

	mu    sync.Mutex
	state atomic.Pointer[searchState]
}

func NewProductionSet(prods []*Production, oracle TerminalTypeOracle) (*ProductionSet, error) {
	if len(prods) == 0 {
		return nil, ErrNoProduction
	}
	if oracle == nil {
		return nil, fmt.Errorf("a terminal type oracle is required")
	}
	for i, p := range prods {
		if p == nil {
			return nil, fmt.Errorf("%w: production #%v is nil", ErrInvalidProduction, i)
		}
	}

	ps := &ProductionSet{
		prods:  append([]*Production(nil), prods...),
		oracle: oracle,
	}

	ps.lhsIndex = map[string][]int{}
	for i, p := range ps.prods {
		ps.lhsIndex[p.lhs] = append(ps.lhsIndex[p.lhs], i)
	}
	for _, p := range ps.prods {
		for _, nt := range p.nonTerminals() {
			if _, ok := ps.lhsIndex[nt]; !ok {
				tracer().Errorf("undefined non-terminal %v in production %v", nt, p)
			}
		}
	}

	ps.requiredTypes = genRequiredTypes(ps)
	ps.possibleTypes = genPossibleTypes(ps)
	ps.possibleNames = make([][]string, len(prods))
	for i, s := range ps.possibleTypes {
		ps.possibleNames[i] = s.Names()
	}
	ps.headRequired = make([]*TypeSet, len(prods))
	ps.tailRequired = make([]*TypeSet, len(prods))
	for i, p := range ps.prods {
		ps.headRequired[i] = ps.symbolRequired(p, 0)
		tail := newTypeSet()
		for j := 1; j < len(p.rhs); j++ {
			tail.addAll(ps.symbolRequired(p, j))
		}
		ps.tailRequired[i] = tail
	}
	ps.children = genTransitiveChildren(ps)

	enabled := make([]bool, len(prods))
	for i := range enabled {
		enabled[i] = true
	}
	ps.state.Store(newSearchState(enabled))

	tracer().Infof("production set: %v productions, %v left-hand sides", len(prods), len(ps.lhsIndex))

	return ps, nil
}

// symbolRequired returns the types required by RHS symbol pos of p alone.
func (ps *ProductionSet) symbolRequired(p *Production, pos int) *TypeSet {
	if p.rhsIsTerminal[pos] {
		return newTypeSet(p.rhs[pos])
	}
	var alts []*TypeSet
	for _, alt := range ps.lhsIndex[p.rhs[pos]] {
		alts = append(alts, ps.requiredTypes[alt])
	}
	return intersectTypeSets(alts)
}

func (ps *ProductionSet) Len() int {
	return len(ps.prods)
}

func (ps *ProductionSet) checkIndex(idx int) error {
	if idx < 0 || idx >= len(ps.prods) {
		return fmt.Errorf("%w: %v (production count: %v)", ErrInvalidIndex, idx, len(ps.prods))
	}
	return nil
}

func (ps *ProductionSet) Production(idx int) (*Production, error) {
	if err := ps.checkIndex(idx); err != nil {
		return nil, err
	}
	return ps.prods[idx], nil
}

// LookupByLHS returns the indices of the productions whose LHS is name. An
// unknown name yields an empty result.
func (ps *ProductionSet) LookupByLHS(name string) []int {
	idxs := ps.lhsIndex[name]
	res := make([]int, len(idxs))
	copy(res, idxs)
	return res
}

func (ps *ProductionSet) NumNonHeadSymbols(idx int) (int, error) {
	if err := ps.checkIndex(idx); err != nil {
		return 0, err
	}
	return ps.prods[idx].NumNonHeadSymbols(), nil
}

func (ps *ProductionSet) RequiredTypes(idx int) (*TypeSet, error) {
	if err := ps.checkIndex(idx); err != nil {
		return nil, err
	}
	s := newTypeSet()
	s.addAll(ps.requiredTypes[idx])
	return s, nil
}

func (ps *ProductionSet) PossibleTypes(idx int) (*TypeSet, error) {
	if err := ps.checkIndex(idx); err != nil {
		return nil, err
	}
	s := newTypeSet()
	s.addAll(ps.possibleTypes[idx])
	return s, nil
}

// TransitiveChildren returns the indices of the productions reachable from
// production idx by substituting its non-terminal RHS symbols.
func (ps *ProductionSet) TransitiveChildren(idx int) ([]int, error) {
	if err := ps.checkIndex(idx); err != nil {
		return nil, err
	}
	return ps.children[idx].values(), nil
}

func (ps *ProductionSet) snapshot() *searchState {
	return ps.state.Load()
}

// Enabled returns a copy of the enabled flags.
func (ps *ProductionSet) Enabled() []bool {
	s := ps.snapshot()
	enabled := make([]bool, len(s.enabled))
	copy(enabled, s.enabled)
	return enabled
}

func (ps *ProductionSet) IsEnabled(idx int) (bool, error) {
	if err := ps.checkIndex(idx); err != nil {
		return false, err
	}
	return ps.snapshot().enabled[idx], nil
}

// SearchIndex returns the indices of the enabled productions in ascending
// order.
func (ps *ProductionSet) SearchIndex() []int {
	s := ps.snapshot()
	index := make([]int, len(s.index))
	copy(index, s.index)
	return index
}

func (ps *ProductionSet) EnabledCount() int {
	return len(ps.snapshot().index)
}

// update applies f to a copy of the enabled flags and publishes the result.
// It returns the number of productions f reports as affected.
func (ps *ProductionSet) update(f func(enabled []bool) int) int {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	cur := ps.snapshot()
	enabled := make([]bool, len(cur.enabled))
	copy(enabled, cur.enabled)
	n := f(enabled)
	if n > 0 {
		ps.state.Store(newSearchState(enabled))
	}
	return n
}

func (ps *ProductionSet) setEnabled(idx int, v bool) error {
	if err := ps.checkIndex(idx); err != nil {
		return err
	}
	ps.update(func(enabled []bool) int {
		enabled[idx] = v
		return 1
	})
	return nil
}

// Disable excludes a production from matching. Disabling a disabled
// production is a no-op.
func (ps *ProductionSet) Disable(idx int) error {
	return ps.setEnabled(idx, false)
}

// Enable includes a production in matching again. Enabling an enabled
// production is a no-op.
func (ps *ProductionSet) Enable(idx int) error {
	return ps.setEnabled(idx, true)
}

func (ps *ProductionSet) EnableAll() {
	ps.update(func(enabled []bool) int {
		for i := range enabled {
			enabled[i] = true
		}
		return len(enabled)
	})
}

func (ps *ProductionSet) disableWhere(pred func(p *Production) bool) int {
	return ps.update(func(enabled []bool) int {
		n := 0
		for i, p := range ps.prods {
			if pred(p) {
				enabled[i] = false
				n++
			}
		}
		return n
	})
}

// DisableBySummary disables every production with the given summary and
// returns their count.
func (ps *ProductionSet) DisableBySummary(summary string) (int, error) {
	n := ps.disableWhere(func(p *Production) bool {
		return p.summary == summary
	})
	if n == 0 {
		return 0, fmt.Errorf("%w: summary %q", ErrNotFound, summary)
	}
	tracer().Debugf("disabled %v production(s) with summary %q", n, summary)
	return n, nil
}

// DisableByLHS disables every production whose LHS is lhs and returns their
// count.
func (ps *ProductionSet) DisableByLHS(lhs string) (int, error) {
	n := ps.disableWhere(func(p *Production) bool {
		return p.lhs == lhs
	})
	if n == 0 {
		return 0, fmt.Errorf("%w: LHS %q", ErrNotFound, lhs)
	}
	tracer().Debugf("disabled %v production(s) with LHS %q", n, lhs)
	return n, nil
}

// DisableByGrammarNode disables every production that mentions name on
// either side and returns their count.
func (ps *ProductionSet) DisableByGrammarNode(name string) (int, error) {
	n := ps.disableWhere(func(p *Production) bool {
		return p.mentions(name)
	})
	if n == 0 {
		return 0, fmt.Errorf("%w: grammar node %q", ErrNotFound, name)
	}
	tracer().Debugf("disabled %v production(s) mentioning %q", n, name)
	return n, nil
}
