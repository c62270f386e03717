package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/sparqlwhere/internal/ir"
	"github.com/roach88/sparqlwhere/internal/querysparql"
)

// Scenario defines one compilation test.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Query is the description in CUE syntax.
	Query string `yaml:"query"`

	// Schema maps property names to data kinds ("number", "page", ...).
	// Undeclared properties are pages.
	Schema map[string]string `yaml:"schema,omitempty"`

	// Sort lists the requested sort keys in priority order.
	Sort []SortSpec `yaml:"sort,omitempty"`

	// ResultVariable overrides the result variable name.
	ResultVariable string `yaml:"result_variable,omitempty"`

	// BaseIRI overrides the wiki base IRI.
	BaseIRI string `yaml:"base_iri,omitempty"`

	// Select shapes the SELECT query built for golden comparison.
	Select SelectSpec `yaml:"select,omitempty"`

	// Assertions validate the compiled condition.
	Assertions []Assertion `yaml:"assertions"`

	// Golden compares the SELECT query against testdata/golden/<name>.golden.
	Golden bool `yaml:"golden,omitempty"`
}

// SortSpec is one requested ordering. An empty key orders by the result.
type SortSpec struct {
	Key       string `yaml:"key"`
	Direction string `yaml:"direction,omitempty"`
}

// SelectSpec carries the SELECT modifiers.
type SelectSpec struct {
	Distinct bool `yaml:"distinct,omitempty"`
	Limit    int  `yaml:"limit,omitempty"`
	Offset   int  `yaml:"offset,omitempty"`
}

// Assertion validates one aspect of the compilation.
type Assertion struct {
	// Type selects the check; see the package documentation.
	Type string `yaml:"type"`

	// Kind is the expected condition kind (used by kind).
	Kind string `yaml:"kind,omitempty"`

	// Safe is the expected safety (used by safe).
	Safe *bool `yaml:"safe,omitempty"`

	// Text is the expected substring or full clause (used by contains,
	// not_contains, where_equals).
	Text string `yaml:"text,omitempty"`

	// Key and Variable pair a sort key with its order variable (used by
	// order_variable).
	Key      string `yaml:"key,omitempty"`
	Variable string `yaml:"variable,omitempty"`

	// Prefix is an expected namespace prefix (used by namespace).
	Prefix string `yaml:"prefix,omitempty"`

	// Code is the expected internal error code (used by error).
	Code string `yaml:"code,omitempty"`
}

// Assertion type constants.
const (
	AssertKind          = "kind"
	AssertSafe          = "safe"
	AssertContains      = "contains"
	AssertNotContains   = "not_contains"
	AssertWhereEquals   = "where_equals"
	AssertOrderVariable = "order_variable"
	AssertNamespace     = "namespace"
	AssertError         = "error"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarioDir loads every *.yaml and *.yml file in dir, sorted by
// file name. The first invalid file aborts loading.
func LoadScenarioDir(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if !e.IsDir() && (ext == ".yaml" || ext == ".yml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	scenarios := make([]*Scenario, 0, len(names))
	for _, name := range names {
		s, err := LoadScenario(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// SchemaKinds parses the scenario schema.
func (s *Scenario) SchemaKinds() (map[string]ir.DataKind, error) {
	kinds := make(map[string]ir.DataKind, len(s.Schema))
	for prop, name := range s.Schema {
		kind, err := ir.ParseDataKind(name)
		if err != nil {
			return nil, fmt.Errorf("schema.%s: %w", prop, err)
		}
		kinds[prop] = kind
	}
	return kinds, nil
}

// SortKeys converts the scenario ordering for the builder.
func (s *Scenario) SortKeys() []querysparql.SortKey {
	keys := make([]querysparql.SortKey, 0, len(s.Sort))
	for _, sk := range s.Sort {
		dir := strings.ToUpper(sk.Direction)
		if dir == "" {
			dir = "ASC"
		}
		keys = append(keys, querysparql.SortKey{Key: sk.Key, Direction: dir})
	}
	return keys
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if strings.TrimSpace(s.Query) == "" {
		return fmt.Errorf("query is required")
	}

	if len(s.Assertions) == 0 && !s.Golden {
		return fmt.Errorf("assertions list is required unless golden is set")
	}

	if _, err := s.SchemaKinds(); err != nil {
		return err
	}

	for i, sk := range s.Sort {
		switch strings.ToLower(sk.Direction) {
		case "", "asc", "desc":
		default:
			return fmt.Errorf("sort[%d]: direction %q must be asc or desc", i, sk.Direction)
		}
	}

	if s.Select.Limit < 0 || s.Select.Offset < 0 {
		return fmt.Errorf("select: limit and offset must be non-negative")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertKind:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for kind", index)
		}
	case AssertSafe:
		if a.Safe == nil {
			return fmt.Errorf("assertions[%d]: safe is required for safe", index)
		}
	case AssertContains, AssertNotContains:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for %s", index, a.Type)
		}
	case AssertWhereEquals:
		// Empty text is a valid expectation.
	case AssertOrderVariable:
		if a.Variable == "" {
			return fmt.Errorf("assertions[%d]: variable is required for order_variable", index)
		}
	case AssertNamespace:
		if a.Prefix == "" {
			return fmt.Errorf("assertions[%d]: prefix is required for namespace", index)
		}
	case AssertError:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for error", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
