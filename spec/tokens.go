package spec

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/inkmath/gram2d/grammar"
)

var ErrMalformedTokens = errors.New("malformed token collection")

// tokenEntry is the JSON form of a token. A leaf has a text and bounds
// [minX, minY, maxX, maxY]; a node has nested tokens and the indices of the
// productions it may stem from. A node without bounds spans its tokens.
type tokenEntry struct {
	Text        *string       `json:"text,omitempty"`
	Bounds      []float64     `json:"bounds,omitempty"`
	Tokens      []*tokenEntry `json:"tokens,omitempty"`
	Productions []int         `json:"productions,omitempty"`
}

// ReadTokens decodes a JSON token collection.
func ReadTokens(r io.Reader) (grammar.TokenSet, error) {
	var entries []*tokenEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTokens, err)
	}
	return genTokenSet(entries, "")
}

func genTokenSet(entries []*tokenEntry, path string) (grammar.TokenSet, error) {
	ts := make(grammar.TokenSet, len(entries))
	for i, e := range entries {
		p := fmt.Sprintf("%v[%v]", path, i)
		tok, err := genToken(e, p)
		if err != nil {
			return nil, err
		}
		ts[i] = tok
	}
	return ts, nil
}

func genToken(e *tokenEntry, path string) (grammar.Token, error) {
	if e == nil {
		return nil, fmt.Errorf("%w: %v: null token", ErrMalformedTokens, path)
	}
	if e.Text != nil {
		if e.Tokens != nil || e.Productions != nil {
			return nil, fmt.Errorf("%w: %v: a token has either a text or nested tokens", ErrMalformedTokens, path)
		}
		b, err := genBounds(e.Bounds, path)
		if err != nil {
			return nil, err
		}
		return grammar.NewLeaf(*e.Text, b), nil
	}

	if len(e.Tokens) == 0 {
		return nil, fmt.Errorf("%w: %v: a node needs at least one nested token", ErrMalformedTokens, path)
	}
	ts, err := genTokenSet(e.Tokens, path+".tokens")
	if err != nil {
		return nil, err
	}
	if e.Bounds == nil {
		return grammar.NewNode(ts, e.Productions), nil
	}
	b, err := genBounds(e.Bounds, path)
	if err != nil {
		return nil, err
	}
	return grammar.NewNodeWithBounds(ts, e.Productions, b), nil
}

func genBounds(v []float64, path string) (grammar.Bounds, error) {
	if len(v) != 4 {
		return grammar.Bounds{}, fmt.Errorf("%w: %v: bounds must be [minX, minY, maxX, maxY]", ErrMalformedTokens, path)
	}
	b := grammar.Bounds{
		MinX: v[0],
		MinY: v[1],
		MaxX: v[2],
		MaxY: v[3],
	}
	if b.MinX > b.MaxX || b.MinY > b.MaxY {
		return grammar.Bounds{}, fmt.Errorf("%w: %v: inverted bounds %v", ErrMalformedTokens, path, v)
	}
	return b, nil
}
