package spec

import (
	"errors"
	"fmt"
)

// ErrMalformedGrammar is matched by every error a malformed grammar source
// causes.
var ErrMalformedGrammar = errors.New("malformed grammar")

type SyntaxError struct {
	message string
}

func newSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		message: message,
	}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s", e.message)
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrMalformedGrammar
}

var (
	// lexical errors
	synErrInvalidToken = newSyntaxError("invalid token")

	// header errors
	synErrNoLHS        = newSyntaxError("a production header must start with the LHS")
	synErrNoArrow      = newSyntaxError("the LHS must be followed by -> or -->")
	synErrNoRHS        = newSyntaxError("a production needs at least one RHS symbol")
	synErrArrowInRHS   = newSyntaxError("a production header can contain only one arrow")
	synErrNoProduction = newSyntaxError("a grammar must have at least one production")

	// attribute errors
	synErrNoAttrName         = newSyntaxError("an attribute needs a name followed by a colon")
	synErrUnknownAttr        = newSyntaxError("unknown attribute")
	synErrDuplicateAttr      = newSyntaxError("duplicate attribute")
	synErrEmptySummary       = newSyntaxError("a summary must not be empty")
	synErrInvalidGeometry    = newSyntaxError("invalid geometry; it must be bipartite, tripartite or none")
	synErrInvalidDirection   = newSyntaxError("invalid direction; it must be west-east, east-west, north-south or south-north")
	synErrGeometryParams     = newSyntaxError("a geometry takes a kind and at most one direction")
	synErrGeometryArity      = newSyntaxError("a geometry does not fit the number of RHS symbols")
	synErrInvalidProduction  = newSyntaxError("invalid production")
	synErrInvalidProductions = newSyntaxError("the productions do not form a production set")
)
