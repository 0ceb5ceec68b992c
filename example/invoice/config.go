package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Step is one scripted tool call, as a model would issue it.
type Step struct {
	Tool string         `yaml:"tool"`
	Args map[string]any `yaml:"args"`
}

type Script struct {
	Steps []Step `yaml:"steps"`
}

func loadScript(path string) (*Script, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var script Script
	err = yaml.Unmarshal(file, &script)
	if err != nil {
		return nil, err
	}
	return &script, nil
}
