package grammar

import (
	"fmt"
	"strings"
)

type GeometryKind int

const (
	GeometryNone GeometryKind = iota
	GeometryBipartite
	GeometryTripartite
)

func (k GeometryKind) String() string {
	switch k {
	case GeometryBipartite:
		return "bipartite"
	case GeometryTripartite:
		return "tripartite"
	}
	return "none"
}

// Direction is the reading direction along which a geometric partition
// orders tokens. The head is always the leading group.
type Direction int

const (
	DirWestEast Direction = iota
	DirEastWest
	DirNorthSouth
	DirSouthNorth
)

func (d Direction) String() string {
	switch d {
	case DirEastWest:
		return "east-west"
	case DirNorthSouth:
		return "north-south"
	case DirSouthNorth:
		return "south-north"
	}
	return "west-east"
}

// GeometryHint narrows the head candidates of a production by the spatial
// layout of the tokens.
type GeometryHint struct {
	Kind      GeometryKind
	Direction Direction
}

func (h GeometryHint) String() string {
	if h.Kind == GeometryNone {
		return h.Kind.String()
	}
	return fmt.Sprintf("%v %v", h.Kind, h.Direction)
}

// ExactTypePrefix marks terminal types pinned to one literal token, e.g.
// `TERMINAL(+)`.
const ExactTypePrefix = "TERMINAL("

func IsExactType(name string) bool {
	return strings.HasPrefix(name, ExactTypePrefix) && strings.HasSuffix(name, ")")
}

// Production is an immutable grammar rule. RHS symbol 0 is the head symbol.
type Production struct {
	lhs           string
	rhs           []string
	rhsIsTerminal []bool
	geometry      GeometryHint
	summary       string
}

func NewProduction(lhs string, rhs []string, rhsIsTerminal []bool, geometry GeometryHint, summary string) (*Production, error) {
	if lhs == "" {
		return nil, fmt.Errorf("%w: LHS must not be empty; RHS: %v", ErrInvalidProduction, rhs)
	}
	if len(rhs) == 0 {
		return nil, fmt.Errorf("%w: RHS must not be empty; LHS: %v", ErrInvalidProduction, lhs)
	}
	if len(rhsIsTerminal) != len(rhs) {
		return nil, fmt.Errorf("%w: %v terminal flags for %v RHS symbols; LHS: %v", ErrInvalidProduction, len(rhsIsTerminal), len(rhs), lhs)
	}
	for _, sym := range rhs {
		if sym == "" {
			return nil, fmt.Errorf("%w: a symbol of RHS must not be empty; LHS: %v, RHS: %v", ErrInvalidProduction, lhs, rhs)
		}
	}
	if summary == "" {
		summary = fmt.Sprintf("%v -> %v", lhs, strings.Join(rhs, " "))
	}

	p := &Production{
		lhs:           lhs,
		rhs:           make([]string, len(rhs)),
		rhsIsTerminal: make([]bool, len(rhsIsTerminal)),
		geometry:      geometry,
		summary:       summary,
	}
	copy(p.rhs, rhs)
	copy(p.rhsIsTerminal, rhsIsTerminal)
	return p, nil
}

func (p *Production) LHS() string {
	return p.lhs
}

// RHS returns a copy of the right-hand side symbols.
func (p *Production) RHS() []string {
	rhs := make([]string, len(p.rhs))
	copy(rhs, p.rhs)
	return rhs
}

func (p *Production) IsTerminal(pos int) bool {
	if pos < 0 || pos >= len(p.rhsIsTerminal) {
		return false
	}
	return p.rhsIsTerminal[pos]
}

func (p *Production) Head() string {
	return p.rhs[0]
}

func (p *Production) HeadIsTerminal() bool {
	return p.rhsIsTerminal[0]
}

func (p *Production) Geometry() GeometryHint {
	return p.geometry
}

func (p *Production) Summary() string {
	return p.summary
}

func (p *Production) NumNonHeadSymbols() int {
	return len(p.rhs) - 1
}

func (p *Production) mentions(name string) bool {
	if p.lhs == name {
		return true
	}
	for _, sym := range p.rhs {
		if sym == name {
			return true
		}
	}
	return false
}

func (p *Production) nonTerminals() []string {
	var nts []string
	for i, sym := range p.rhs {
		if !p.rhsIsTerminal[i] {
			nts = append(nts, sym)
		}
	}
	return nts
}

func (p *Production) String() string {
	return p.summary
}
