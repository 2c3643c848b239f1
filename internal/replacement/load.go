package replacement

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadYAML builds a Map from a YAML document whose top-level mapping keys
// are selectors and whose values map old identifiers to new ones:
//
//	legacy-polaris-v8:
//	  --p-old: --p-new
//	/.+/:
//	  --p-duration-0: "0"
//
// Document order is declaration order.
func LoadYAML(data []byte) (*Map, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse replacement map: %w", err)
	}

	if len(doc.Content) == 0 {
		return New()
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("replacement map: expected a mapping at line %d", root.Line)
	}

	raw := make([]RawEntry, 0, len(root.Content)/2)

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]

		replacements := map[string]string{}
		if err := value.Decode(&replacements); err != nil {
			return nil, fmt.Errorf("replacement map: selector %q at line %d: %w", key.Value, key.Line, err)
		}

		raw = append(raw, RawEntry{Selector: key.Value, Replacements: replacements})
	}

	return New(raw...)
}

// LoadFile reads and parses a YAML replacement-map file.
func LoadFile(path string) (*Map, error) {
	// #nosec G304 - the path is supplied by the operator on purpose
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read replacement map: %w", err)
	}

	m, err := LoadYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return m, nil
}
