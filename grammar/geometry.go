package grammar

import (
	"sort"
)

// axisPosition projects the center of b onto the reading axis of dir so
// that leading tokens get smaller values.
func axisPosition(b Bounds, dir Direction) float64 {
	cx, cy := b.center()
	switch dir {
	case DirEastWest:
		return -cx
	case DirNorthSouth:
		return cy
	case DirSouthNorth:
		return -cy
	}
	return cx
}

// orderAlong returns the token indices sorted along dir together with their
// axis positions.
func orderAlong(tokens TokenSet, dir Direction) ([]int, []float64) {
	order := make([]int, len(tokens))
	pos := make([]float64, len(tokens))
	for i, tok := range tokens {
		order[i] = i
		pos[i] = axisPosition(tok.Bounds(), dir)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return pos[order[i]] < pos[order[j]]
	})
	return order, pos
}

func newHeadSet(idxs []int) HeadSet {
	h := make(HeadSet, len(idxs))
	copy(h, idxs)
	sort.Ints(h)
	return h
}

// bipartiteHeads splits the tokens into a leading and a trailing group along
// the hint's direction. Every cut between two tokens with distinct positions
// yields the leading group as a head candidate.
func bipartiteHeads(tokens TokenSet, dir Direction) []HeadSet {
	if len(tokens) < 2 {
		return nil
	}
	order, pos := orderAlong(tokens, dir)
	var heads []HeadSet
	for k := 1; k < len(order); k++ {
		if pos[order[k-1]] >= pos[order[k]] {
			continue
		}
		heads = append(heads, newHeadSet(order[:k]))
	}
	return heads
}

// tripartiteHeads handles the NT T1 T2 layout: the first token along the
// hint's direction is T1, the last one is T2 and the tokens in between form
// the head.
func tripartiteHeads(tokens TokenSet, dir Direction) []HeadSet {
	n := len(tokens)
	if n < 3 {
		return nil
	}
	order, pos := orderAlong(tokens, dir)
	if pos[order[0]] >= pos[order[1]] || pos[order[n-2]] >= pos[order[n-1]] {
		return nil
	}
	return []HeadSet{
		newHeadSet(order[1 : n-1]),
	}
}
