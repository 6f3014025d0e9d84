package terminal

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	verr "github.com/inkmath/gram2d/error"
)

type source struct {
	Types []*TypeDef `json:"types"`
}

// Load reads a terminal set from a JSON document.
func Load(r io.Reader) (*Set, error) {
	src := &source{}
	d := json.NewDecoder(r)
	d.DisallowUnknownFields()
	if err := d.Decode(src); err != nil {
		return nil, fmt.Errorf("cannot decode a terminal set: %w", err)
	}
	return NewSet(src.Types)
}

// LoadFile reads a terminal set from a JSON file. Errors are positioned at
// the file.
func LoadFile(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := Load(f)
	if err != nil {
		return nil, &verr.SpecError{
			Cause:      err,
			FilePath:   path,
			SourceName: filepath.Base(path),
		}
	}
	return s, nil
}
