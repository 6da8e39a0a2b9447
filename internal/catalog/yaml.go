package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk layout of a catalog YAML document.
type File struct {
	Questions []Question `yaml:"questions"`
}

// ParseYAML decodes and validates a catalog document.
func ParseYAML(data []byte) ([]Question, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog yaml: %w", err)
	}
	if err := Validate(f.Questions); err != nil {
		return nil, err
	}
	return f.Questions, nil
}

// LoadFile reads a YAML catalog from disk into a Memory catalog.
func LoadFile(path string) (*Memory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	qs, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return NewMemory(qs...)
}

// MarshalYAML encodes questions as a catalog document.
func MarshalYAML(questions []Question) ([]byte, error) {
	return yaml.Marshal(File{Questions: questions})
}
