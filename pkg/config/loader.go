package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/reqmatch/pkg/mock"
)

// ErrNoExpectations is returned when a file parses but defines nothing.
var ErrNoExpectations = errors.New("no expectations defined")

// File is the on-disk form of an expectation file. It decodes from a single
// expectation, a list of expectations, or a mapping with an expectations key.
type File struct {
	Version      string              `yaml:"version,omitempty" json:"version,omitempty"`
	Expectations []*mock.Expectation `yaml:"expectations" json:"expectations"`
}

// UnmarshalYAML picks the file layout from the node kind.
func (f *File) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		return node.Decode(&f.Expectations)
	case yaml.MappingNode:
		if mappingHasKey(node, "expectations") {
			type fileAlias File
			return node.Decode((*fileAlias)(f))
		}
		var exp mock.Expectation
		if err := node.Decode(&exp); err != nil {
			return err
		}
		f.Expectations = []*mock.Expectation{&exp}
		return nil
	default:
		return fmt.Errorf("line %d: expected an expectation, a list of expectations, or an expectations document", node.Line)
	}
}

func mappingHasKey(node *yaml.Node, key string) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}

// Parse decodes expectations from YAML or JSON data after environment
// variable expansion. Expectations are returned uncompiled.
func Parse(data []byte) ([]*mock.Expectation, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrNoExpectations
	}

	expanded := ExpandEnvVars(string(data))

	var f File
	if err := yaml.Unmarshal([]byte(expanded), &f); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if len(f.Expectations) == 0 {
		return nil, ErrNoExpectations
	}
	for i, exp := range f.Expectations {
		if exp == nil {
			return nil, fmt.Errorf("expectations[%d]: empty entry", i)
		}
	}
	return f.Expectations, nil
}

// LoadFile reads and parses one expectation file. Relative paths resolve
// against baseDir.
func LoadFile(path, baseDir string) ([]*mock.Expectation, error) {
	resolvedPath := ResolvePath(baseDir, path)

	file, err := os.Open(resolvedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", resolvedPath)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("permission denied: %s", resolvedPath)
		}
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("file is empty: %s", resolvedPath)
	}

	exps, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", resolvedPath, err)
	}
	return exps, nil
}

// LoadGlob loads every file matching pattern in lexical order. ** matches
// across directories. A pattern matching nothing yields no expectations.
func LoadGlob(pattern, baseDir string) ([]*mock.Expectation, error) {
	resolvedPattern := ResolvePath(baseDir, pattern)

	matches, err := doublestar.FilepathGlob(resolvedPattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("expanding glob pattern: %w", err)
	}
	slices.Sort(matches)

	var result []*mock.Expectation
	for _, match := range matches {
		relPath, err := filepath.Rel(baseDir, match)
		if err != nil || baseDir == "" {
			relPath = match
		}

		exps, err := LoadFile(match, "")
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", relPath, err)
		}
		result = append(result, exps...)
	}
	return result, nil
}

// Load loads expectations from a mix of file paths and glob patterns,
// preserving the order they are given in.
func Load(patterns []string, baseDir string) ([]*mock.Expectation, error) {
	var result []*mock.Expectation
	for _, p := range patterns {
		var (
			exps []*mock.Expectation
			err  error
		)
		if IsGlob(p) {
			exps, err = LoadGlob(p, baseDir)
		} else {
			exps, err = LoadFile(p, baseDir)
		}
		if err != nil {
			return nil, err
		}
		result = append(result, exps...)
	}
	return result, nil
}

// IsGlob reports whether p contains glob metacharacters.
func IsGlob(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}

// PatternsFromEnv splits the comma-separated REQMATCH_EXPECTATIONS value.
func PatternsFromEnv(getenv func(string) string) []string {
	var patterns []string
	for p := range strings.SplitSeq(getenv(EnvExpectations), ",") {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}
