package grammar

import (
	"fmt"
	"math"
)

// Bounds is the axis-aligned bounding box of a token. Y grows southwards.
type Bounds struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

func (b Bounds) center() (float64, float64) {
	return (b.MinX + b.MaxX) / 2, (b.MinY + b.MaxY) / 2
}

func (b Bounds) union(c Bounds) Bounds {
	return Bounds{
		MinX: math.Min(b.MinX, c.MinX),
		MinY: math.Min(b.MinY, c.MinY),
		MaxX: math.Max(b.MaxX, c.MaxX),
		MaxY: math.Max(b.MaxY, c.MaxY),
	}
}

// Token is an element of a token collection. The matcher knows two
// variants, *Leaf and *Node; any other implementation is rejected with
// ErrUnsupportedToken.
type Token interface {
	Bounds() Bounds
}

// Leaf is a recognized token that has not been reduced yet.
type Leaf struct {
	text   string
	bounds Bounds
}

func NewLeaf(text string, bounds Bounds) *Leaf {
	return &Leaf{
		text:   text,
		bounds: bounds,
	}
}

func (l *Leaf) Text() string {
	return l.text
}

func (l *Leaf) Bounds() Bounds {
	return l.bounds
}

func (l *Leaf) String() string {
	return l.text
}

// Node wraps a token collection matched by an earlier reduction, together
// with the indices of the productions it could have been derived from.
type Node struct {
	tokens TokenSet
	prods  []int
	bounds Bounds
}

func NewNode(tokens TokenSet, prods []int) *Node {
	n := &Node{
		tokens: tokens,
		prods:  make([]int, len(prods)),
	}
	copy(n.prods, prods)
	for i, tok := range tokens {
		if tok == nil {
			continue
		}
		if i == 0 {
			n.bounds = tok.Bounds()
			continue
		}
		n.bounds = n.bounds.union(tok.Bounds())
	}
	return n
}

// NewNodeWithBounds is NewNode with bounds given by the caller, e.g. the
// recognizer's box of the reduced strokes.
func NewNodeWithBounds(tokens TokenSet, prods []int, bounds Bounds) *Node {
	n := NewNode(tokens, prods)
	n.bounds = bounds
	return n
}

func (n *Node) Tokens() TokenSet {
	return n.tokens
}

func (n *Node) Productions() []int {
	return n.prods
}

func (n *Node) Bounds() Bounds {
	return n.bounds
}

// Collapsible reports whether the node wraps exactly one token and thus can
// stand in for that token.
func (n *Node) Collapsible() bool {
	return len(n.tokens) == 1
}

func (n *Node) String() string {
	return fmt.Sprintf("node%v%v", n.prods, n.tokens)
}

// TokenSet is an ordered token collection. The order is spatial and only
// matters for reporting head indices.
type TokenSet []Token

func (ts TokenSet) hasNode() bool {
	for _, tok := range ts {
		if _, ok := tok.(*Node); ok {
			return true
		}
	}
	return false
}

func (ts TokenSet) validate() error {
	for i, tok := range ts {
		switch t := tok.(type) {
		case *Leaf:
			if t == nil {
				return fmt.Errorf("%w: nil leaf at %v", ErrUnsupportedToken, i)
			}
		case *Node:
			if t == nil {
				return fmt.Errorf("%w: nil node at %v", ErrUnsupportedToken, i)
			}
			if err := t.tokens.validate(); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %T at %v", ErrUnsupportedToken, tok, i)
		}
	}
	return nil
}

// leafText returns the text a token exposes as a terminal. ok is false for
// nodes wrapping more than one token.
func leafText(tok Token) (text string, ok bool, err error) {
	switch t := tok.(type) {
	case *Leaf:
		return t.text, true, nil
	case *Node:
		if !t.Collapsible() {
			return "", false, nil
		}
		return leafText(t.tokens[0])
	}
	return "", false, fmt.Errorf("%w: %T", ErrUnsupportedToken, tok)
}
