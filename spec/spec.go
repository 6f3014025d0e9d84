// Package spec reads two-dimensional grammars.
//
// A grammar source is a sequence of blocks separated by empty lines, one
// production per block. Lines are trimmed, lines starting with # are
// comments and a block may start with a --- separator line. Blocks are
// handed to a BlockParser; DefaultBlockParser reads the format documented
// on it.
package spec

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	verr "github.com/inkmath/gram2d/error"
	"github.com/inkmath/gram2d/grammar"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return gtrace.CoreTracer
}

type loadConfig struct {
	parser     BlockParser
	sourceName string
	filePath   string
	client     *http.Client
}

type LoadOption func(config *loadConfig)

// WithBlockParser replaces DefaultBlockParser.
func WithBlockParser(p BlockParser) LoadOption {
	return func(config *loadConfig) {
		config.parser = p
	}
}

// WithSourceName sets the source name reported in errors.
func WithSourceName(name string) LoadOption {
	return func(config *loadConfig) {
		config.sourceName = name
	}
}

// WithHTTPClient sets the client LoadURL uses.
func WithHTTPClient(c *http.Client) LoadOption {
	return func(config *loadConfig) {
		config.client = c
	}
}

func newLoadConfig(opts []LoadOption) *loadConfig {
	config := &loadConfig{
		parser: DefaultBlockParser{},
		client: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

func (c *loadConfig) position(err *verr.SpecError) *verr.SpecError {
	if err.SourceName == "" {
		err.SourceName = c.sourceName
	}
	if err.FilePath == "" {
		err.FilePath = c.filePath
	}
	return err
}

// Parse reads the productions of a grammar source in source order. The
// first malformed block aborts parsing.
func Parse(src io.Reader, oracle grammar.TerminalTypeOracle, opts ...LoadOption) ([]*grammar.Production, error) {
	return parse(src, oracle, newLoadConfig(opts))
}

func parse(src io.Reader, oracle grammar.TerminalTypeOracle, config *loadConfig) ([]*grammar.Production, error) {
	lines, err := readLines(src)
	if err != nil {
		return nil, err
	}
	blocks := splitBlocks(lines)
	if len(blocks) == 0 {
		return nil, config.position(&verr.SpecError{
			Cause: synErrNoProduction,
		})
	}

	prods := make([]*grammar.Production, 0, len(blocks))
	for _, b := range blocks {
		prod, err := config.parser.ParseBlock(b, oracle)
		if err != nil {
			if specErr, ok := err.(*verr.SpecError); ok {
				if specErr.Row == 0 {
					specErr.Row = b.Row()
				}
				return nil, config.position(specErr)
			}
			return nil, config.position(&verr.SpecError{
				Cause:  synErrInvalidProduction,
				Detail: err.Error(),
				Row:    b.Row(),
			})
		}
		prods = append(prods, prod)
	}
	return prods, nil
}

// Load reads a grammar source and builds its production set.
func Load(src io.Reader, oracle grammar.TerminalTypeOracle, opts ...LoadOption) (*grammar.ProductionSet, error) {
	return load(src, oracle, newLoadConfig(opts))
}

func load(src io.Reader, oracle grammar.TerminalTypeOracle, config *loadConfig) (*grammar.ProductionSet, error) {
	prods, err := parse(src, oracle, config)
	if err != nil {
		return nil, err
	}
	ps, err := grammar.NewProductionSet(prods, oracle)
	if err != nil {
		return nil, config.position(&verr.SpecError{
			Cause:  synErrInvalidProductions,
			Detail: err.Error(),
		})
	}
	tracer().Infof("loaded %v productions from %v", ps.Len(), config.sourceName)
	return ps, nil
}

// LoadFile reads a grammar file. Errors quote the offending line.
func LoadFile(path string, oracle grammar.TerminalTypeOracle, opts ...LoadOption) (*grammar.ProductionSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	config := newLoadConfig(opts)
	config.filePath = path
	if config.sourceName == "" {
		config.sourceName = filepath.Base(path)
	}
	return load(f, oracle, config)
}

// LoadURL fetches a grammar over HTTP. The request is bound to ctx.
func LoadURL(ctx context.Context, url string, oracle grammar.TerminalTypeOracle, opts ...LoadOption) (*grammar.ProductionSet, error) {
	config := newLoadConfig(opts)
	if config.sourceName == "" {
		config.sourceName = url
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	res, err := config.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("cannot fetch %v: %v", url, res.Status)
	}
	return load(res.Body, oracle, config)
}
