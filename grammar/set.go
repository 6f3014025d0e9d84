package grammar

import (
	"github.com/emirpasic/gods/sets/treeset"
)

// TypeSet is an ordered set of terminal type names.
type TypeSet struct {
	set *treeset.Set
}

func newTypeSet(names ...string) *TypeSet {
	s := &TypeSet{
		set: treeset.NewWithStringComparator(),
	}
	for _, name := range names {
		s.set.Add(name)
	}
	return s
}

func (s *TypeSet) add(name string) {
	s.set.Add(name)
}

func (s *TypeSet) addAll(t *TypeSet) {
	if t == nil {
		return
	}
	s.set.Add(t.set.Values()...)
}

func (s *TypeSet) Contains(name string) bool {
	return s.set.Contains(name)
}

func (s *TypeSet) Len() int {
	return s.set.Size()
}

func (s *TypeSet) IsEmpty() bool {
	return s.set.Empty()
}

// Names returns the type names in ascending order.
func (s *TypeSet) Names() []string {
	vs := s.set.Values()
	names := make([]string, len(vs))
	for i, v := range vs {
		names[i] = v.(string)
	}
	return names
}

func (s *TypeSet) IsSubsetOf(t *TypeSet) bool {
	for _, v := range s.set.Values() {
		if !t.set.Contains(v) {
			return false
		}
	}
	return true
}

func (s *TypeSet) String() string {
	return s.set.String()
}

// intersectTypeSets returns the types common to all sets. The intersection
// of no sets is empty.
func intersectTypeSets(sets []*TypeSet) *TypeSet {
	acc := newTypeSet()
	if len(sets) == 0 {
		return acc
	}
	acc.addAll(sets[0])
	for _, s := range sets[1:] {
		for _, v := range acc.set.Values() {
			if !s.set.Contains(v) {
				acc.set.Remove(v)
			}
		}
	}
	return acc
}

// indexSet is an ordered set of production indices.
type indexSet struct {
	set *treeset.Set
}

func newIndexSet() *indexSet {
	return &indexSet{
		set: treeset.NewWithIntComparator(),
	}
}

func (s *indexSet) add(idx int) {
	s.set.Add(idx)
}

func (s *indexSet) addAll(t *indexSet) {
	if t == nil {
		return
	}
	s.set.Add(t.set.Values()...)
}

func (s *indexSet) contains(idx int) bool {
	return s.set.Contains(idx)
}

func (s *indexSet) containsAny(idxs []int) bool {
	for _, idx := range idxs {
		if s.set.Contains(idx) {
			return true
		}
	}
	return false
}

func (s *indexSet) values() []int {
	vs := s.set.Values()
	idxs := make([]int, len(vs))
	for i, v := range vs {
		idxs[i] = v.(int)
	}
	return idxs
}
