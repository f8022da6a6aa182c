package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// MetadataFile is the per-repository pipeline description file.
const MetadataFile = ".flowsmith.yaml"

// Metadata describes the pipeline being documented. It is optional; every
// field left empty is simply omitted from prompts.
type Metadata struct {
	Name       string `yaml:"name"`
	Purpose    string `yaml:"purpose"`
	DataType   string `yaml:"data_type"`
	DataSource string `yaml:"data_source"`
	UseCase    string `yaml:"use_case"`
	Owner      string `yaml:"owner"`
}

// LoadMetadata reads .flowsmith.yaml from the given repository root. A
// missing file yields the zero value without error; a malformed file is an
// error, since the user wrote it deliberately.
func LoadMetadata(repoRoot string) (Metadata, error) {
	var md Metadata

	data, err := os.ReadFile(filepath.Join(repoRoot, MetadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return md, nil
		}
		return md, fmt.Errorf("reading %s: %w", MetadataFile, err)
	}

	if err := yaml.Unmarshal(data, &md); err != nil {
		return md, fmt.Errorf("parsing %s: %w", MetadataFile, err)
	}

	return md, nil
}

// IsZero reports whether no metadata field is set.
func (m Metadata) IsZero() bool {
	return m == Metadata{}
}

// Overlay returns m with the non-empty fields of o taking precedence, so
// command-line overrides win over the metadata file.
func (m Metadata) Overlay(o Metadata) Metadata {
	if o.Name != "" {
		m.Name = o.Name
	}
	if o.Purpose != "" {
		m.Purpose = o.Purpose
	}
	if o.DataType != "" {
		m.DataType = o.DataType
	}
	if o.DataSource != "" {
		m.DataSource = o.DataSource
	}
	if o.UseCase != "" {
		m.UseCase = o.UseCase
	}
	if o.Owner != "" {
		m.Owner = o.Owner
	}
	return m
}
