package main

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/gitrdm/scp-heuristic/config"
	"github.com/gitrdm/scp-heuristic/pdbs"
	"github.com/gitrdm/scp-heuristic/task"
)

// loadTask reads a JSON-encoded task.Task from path. There is no
// SAS+-style input format in scope here (see the task package doc); this is a
// convenience format for feeding cmd/scpctl from a test fixture or hand-written
// scenario file.
func loadTask(path string) (*task.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading task file %s", path)
	}
	var t task.Task
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, errors.Wrapf(err, "decoding task file %s", path)
	}
	if err := t.Validate(); err != nil {
		return nil, errors.Wrap(err, "task validation")
	}
	return &t, nil
}

// loadOptions reads a JSON config file into a generic map and decodes it
// through config.Decode, the same loosely-typed-input path a caller
// assembling Options from CLI flags or a different file format would use.
func loadOptions(path string) (config.Options, error) {
	if path == "" {
		return config.DefaultOptions(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return config.Options{}, errors.Wrapf(err, "reading options file %s", path)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return config.Options{}, errors.Wrapf(err, "decoding options file %s", path)
	}
	opts, err := config.Decode(raw)
	if err != nil {
		return config.Options{}, err
	}
	if err := opts.Validate(); err != nil {
		return config.Options{}, err
	}
	return opts, nil
}

// explicitPatterns converts opts.Abstractions (each a {"pattern": [...]}
// map) into pdbs.Pattern values. Returns nil if opts.Abstractions is empty,
// signaling the caller should fall back to systematic enumeration instead.
func explicitPatterns(opts config.Options) ([]pdbs.Pattern, error) {
	if len(opts.Abstractions) == 0 {
		return nil, nil
	}
	patterns := make([]pdbs.Pattern, 0, len(opts.Abstractions))
	for i, entry := range opts.Abstractions {
		raw, ok := entry["pattern"]
		if !ok {
			return nil, errors.Errorf("abstractions[%d] missing \"pattern\"", i)
		}
		items, ok := raw.([]interface{})
		if !ok {
			return nil, errors.Errorf("abstractions[%d].pattern is not a list", i)
		}
		p := make(pdbs.Pattern, 0, len(items))
		for _, item := range items {
			v, ok := item.(float64)
			if !ok {
				return nil, errors.Errorf("abstractions[%d].pattern has a non-numeric entry", i)
			}
			p = append(p, int(v))
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}
