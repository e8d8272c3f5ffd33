package config

import (
	"errors"
	"fmt"
	"io/fs"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
)

// configBuilder collects partial configs from every source and merges them
// in order of increasing priority. Non-zero fields of a later config
// override earlier ones.
type configBuilder struct {
	base    *StructuredConfig
	configs []*StructuredConfig
	err     error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		base:    new(StructuredConfig),
		configs: make([]*StructuredConfig, 0, 4),
	}
}

func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	config := b.base
	for _, cfg := range b.configs {
		if err := mergo.Merge(config, cfg, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (b *configBuilder) withDefaults() *configBuilder {
	b.base = defaultConfig()
	return b
}

// withDotEnv loads variables from path into the process environment.
// A missing file is not an error.
func (b *configBuilder) withDotEnv(path string) *configBuilder {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		b.err = errors.Join(b.err, fmt.Errorf("error loading %s: %w", path, err))
	}
	return b
}

func (b *configBuilder) withEnv() *configBuilder {
	envCfg := &StructuredConfig{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, envCfg)
	return b
}

func (b *configBuilder) withFlags(name string, args []string) *configBuilder {
	flags, err := ParseFlags(name, args)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, flags)
	return b
}

// withJSON parses the JSON file named by any previously collected source
// and puts it below them, so env and flags still win over the file.
func (b *configBuilder) withJSON() *configBuilder {
	var jsonPath string
	for _, cfg := range b.configs {
		if cfg.JSONFilePath != "" {
			jsonPath = cfg.JSONFilePath
		}
	}

	if jsonPath == "" {
		return b
	}

	jsonCfg, err := parseJSON(jsonPath)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}
	b.configs = append([]*StructuredConfig{jsonCfg}, b.configs...)

	return b
}
