package compiler

import (
	"fmt"
	"os"

	"memlayout/layout"
)

// Run compiles the corpus named by cfg and returns the schema with the
// generated source. Nothing is written; callers decide where the source goes.
func Run(cfg *Config) (*Schema, []byte, error) {
	corpus, err := os.ReadFile(cfg.Input)
	if err != nil {
		return nil, nil, fmt.Errorf("read corpus: %w", err)
	}

	schema, err := Compile(layout.Parse(string(corpus)), cfg.Options())
	if err != nil {
		return nil, nil, err
	}

	src, err := cfg.Generator().Generate(schema)
	if err != nil {
		return schema, src, err
	}
	return schema, src, nil
}
