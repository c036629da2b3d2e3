// Package testutil loads the golden cases under testdata/cases.
package testutil

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Case is one golden case. A case file holds a YAML list of cases:
//
//	- name: filter with argument
//	  op: replace
//	  input: '{{ greeting | append:" world!" }}'
//	  data: {greeting: Hello}
//	  want: Hello world!
type Case struct {
	Name string `yaml:"name"`
	// Op is one of replace, value, values, props or has. Default replace.
	Op         string         `yaml:"op"`
	Input      string         `yaml:"input"`
	Data       map[string]any `yaml:"data"`
	This       any            `yaml:"this"`
	Delimiters *Delimiters    `yaml:"delimiters"`
	// Builtins registers the built-in filters. Default true.
	Builtins *bool `yaml:"builtins"`
	Want     any   `yaml:"want"`
	// Error, when set, is a substring the returned error must contain.
	Error string `yaml:"error"`
	// Kind, when set, is the expected engine error kind, e.g. "unknown filter".
	Kind string `yaml:"kind"`

	File string `yaml:"-"`
}

// Delimiters overrides the placeholder syntax for a case.
type Delimiters struct {
	Open    string `yaml:"open"`
	Close   string `yaml:"close"`
	Pattern string `yaml:"pattern"`
}

// ID returns "<file>/<name>", the key used in skip lists.
func (c Case) ID() string {
	return strings.TrimSuffix(filepath.Base(c.File), filepath.Ext(c.File)) + "/" + c.Name
}

// UsesBuiltins reports whether the case wants the built-in filters.
func (c Case) UsesBuiltins() bool {
	return c.Builtins == nil || *c.Builtins
}

// LoadCases reads every *.yaml file in dir, in name order.
func LoadCases(dir string) ([]Case, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var all []Case
	for _, path := range paths {
		cases, err := LoadCaseFile(path)
		if err != nil {
			return nil, err
		}
		all = append(all, cases...)
	}
	return all, nil
}

// LoadCaseFile reads the cases in a single file.
func LoadCaseFile(path string) ([]Case, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cases []Case
	if err := yaml.Unmarshal(b, &cases); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	seen := make(map[string]bool, len(cases))
	for i := range cases {
		c := &cases[i]
		if c.Name == "" {
			return nil, fmt.Errorf("%s: case %d has no name", path, i)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("%s: duplicate case %q", path, c.Name)
		}
		seen[c.Name] = true
		if c.Op == "" {
			c.Op = "replace"
		}
		c.File = path
	}
	return cases, nil
}

// LoadSkipList loads a skip list file (one case ID per line, # for comments).
// A missing file is an empty list.
func LoadSkipList(path string) (map[string]bool, error) {
	skipList := make(map[string]bool)

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return skipList, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		skipList[line] = true
	}
	return skipList, scanner.Err()
}
