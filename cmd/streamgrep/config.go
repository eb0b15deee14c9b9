package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// loadRules reads a YAML rules file of the form
//
//	patterns:
//	  - needle one
//	  - needle two
//
// and returns the pattern list.
func loadRules(filename string) ([]string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var rules struct {
		Patterns []string `yaml:"patterns"`
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules file %s: %v",
			filename, err)
	}
	if len(rules.Patterns) == 0 {
		return nil, fmt.Errorf("no patterns in rules file %s", filename)
	}
	return rules.Patterns, nil
}
