// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultMaxDepth is the default ceiling on the number of call edges a
// traversal may follow. Recursive and mutually recursive functions make the
// call graph cyclic; exceeding the ceiling truncates the path instead of
// failing the query.
const DefaultMaxDepth = 20

// Config contains the options of the analyses and the lists of code
// identifiers for the taint tracking problems.
// If some field is not defined in the yaml file, it will be empty/zero in the
// struct and the documented default applies.
type Config struct {
	Options `yaml:",inline"`

	sourceFile string

	// TaintProblems lists the taint tracking specifications
	TaintProblems []TaintSpec `yaml:"taint-problems"`
}

// Options holds the numeric and logging options of the analyses.
type Options struct {
	// MaxDepth bounds the number of call edges followed by any
	// inter-procedural traversal. 0 means DefaultMaxDepth.
	MaxDepth int `yaml:"max-depth"`

	// LogLevel controls the verbosity of the LogGroup built from this config.
	// 0 means InfoLevel.
	LogLevel int `yaml:"log-level"`
}

// TaintSpec contains code identifiers that identify a specific taint tracking problem.
type TaintSpec struct {
	// Sources is the list of identifiers marking where tainted data enters
	Sources []CodeIdentifier `yaml:"sources"`

	// Sinks is the list of identifiers marking sensitive uses
	Sinks []CodeIdentifier `yaml:"sinks"`

	// Barriers is the list of identifiers through which taint does not propagate
	Barriers []CodeIdentifier `yaml:"barriers"`

	// Description is a free-form tag for reports
	Description string `yaml:"description"`
}

// NewDefault returns a config with all defaults applied and no taint problems.
func NewDefault() *Config {
	return &Config{Options: Options{MaxDepth: DefaultMaxDepth, LogLevel: int(InfoLevel)}}
}

// Load reads a yaml config file and returns the parsed Config.
func Load(filename string) (*Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file %q: %w", filename, err)
	}
	cfg, err := LoadFromBytes(b)
	if err != nil {
		return nil, fmt.Errorf("could not parse config file %q: %w", filename, err)
	}
	cfg.sourceFile = filename
	return cfg, nil
}

// LoadFromBytes parses yaml bytes into a Config and applies defaults.
func LoadFromBytes(b []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	if cfg.LogLevel <= 0 {
		cfg.LogLevel = int(InfoLevel)
	}
	for i := range cfg.TaintProblems {
		spec := &cfg.TaintProblems[i]
		for j := range spec.Sources {
			spec.Sources[j] = CompileRegexes(spec.Sources[j])
		}
		for j := range spec.Sinks {
			spec.Sinks[j] = CompileRegexes(spec.Sinks[j])
		}
		for j := range spec.Barriers {
			spec.Barriers[j] = CompileRegexes(spec.Barriers[j])
		}
	}
	return cfg, nil
}

// SourceFile returns the file this config was loaded from, if any.
func (c *Config) SourceFile() string {
	return c.sourceFile
}
