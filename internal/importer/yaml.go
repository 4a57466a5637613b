package importer

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

func parseYAML(content []byte) (*Batch, error) {
	var batch Batch
	if err := yaml.Unmarshal(content, &batch); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	return &batch, nil
}
