package formflow

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/petrijr/formflow/pkg/api"
)

// ParseConfig decodes a YAML survey definition. The returned config is not
// yet validated; registration with an Engine performs the structural checks.
func ParseConfig(data []byte) (SurveyConfig, error) {
	var cfg api.SurveyConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return SurveyConfig{}, fmt.Errorf("parse survey config: %w", err)
	}
	return cfg, nil
}

// ReadConfig decodes a YAML survey definition from r.
func ReadConfig(r io.Reader) (SurveyConfig, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return SurveyConfig{}, fmt.Errorf("read survey config: %w", err)
	}
	return ParseConfig(data)
}

// LoadConfig reads and decodes a YAML survey definition from a file.
func LoadConfig(path string) (SurveyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SurveyConfig{}, fmt.Errorf("load survey config: %w", err)
	}
	return ParseConfig(data)
}

// RegisterFile loads a YAML survey definition from path and registers it
// with eng in one step.
func RegisterFile(eng Engine, path string) (SurveyConfig, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return SurveyConfig{}, err
	}
	if err := eng.RegisterSurvey(cfg); err != nil {
		return SurveyConfig{}, err
	}
	return cfg, nil
}
