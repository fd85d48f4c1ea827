package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseYAML decodes a YAML parameter document into a record.
func ParseYAML(data []byte) (map[string]any, error) {
	var record map[string]any
	if err := yaml.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidRecord)
	}
	return record, nil
}
