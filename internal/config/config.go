// Package config centralizes every recognized configuration option and the
// fixed embedding and chunking constants for the resolver. No other package
// redeclares an embedding dimension or a chunk-token limit. Confidence tiers
// and the graph/linking thresholds are declared in internal/types.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Repo identifies one crawled repository.
type Repo struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// Config is the single configuration object for a pipeline run.
type Config struct {
	Repos []Repo `yaml:"repos"`

	LanceDBPath  string `yaml:"lance_db_path"`
	RoutesDBPath string `yaml:"routes_db_path"`

	UseMockGraph bool `yaml:"use_mock_graph"`

	HTTPLinker HTTPLinkerConfig `yaml:"http_linker"`
}

// HTTPLinkerConfig holds the http_linker tuning knobs, overridable per
// project. internal/linker does not read them; its admission threshold is
// types.MinForLinking.
type HTTPLinkerConfig struct {
	ExcludePaths  []string `yaml:"exclude_paths"`
	MinConfidence *float64 `yaml:"min_confidence"`
	FuzzyMatching *bool    `yaml:"fuzzy_matching"`
}

// Fixed constants (spec §6): centrally declared, never redeclared downstream.
const (
	EmbeddingModel     = "text-embedding-3-small"
	EmbeddingDimension = 1536
	ChunkTokenLimit    = 800
)

// GraphCredentials holds the environment-supplied graph-store connection
// info, required only when UseMockGraph is false.
type GraphCredentials struct {
	URI           string
	User          string
	Password      string
	ModelEndpoint string
}

// Default returns a Config with every path/flag at its documented default.
func Default() *Config {
	return &Config{
		LanceDBPath:  "./data/lance",
		RoutesDBPath: "./data/routes.db",
		UseMockGraph: true,
	}
}

// Load reads a YAML config file, falling back to Default() on any read or
// parse error — exactly the teacher's LoadConfig idiom (never fail the
// caller over a missing or malformed dotfile).
func Load(path string) *Config {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return Default()
	}
	return cfg
}

// LoadFromDir reads "<dir>/.svcgraph.yaml".
func LoadFromDir(dir string) *Config {
	return Load(filepath.Join(dir, ".svcgraph.yaml"))
}

// Validate enforces the required-field and cross-field rules from spec §6.
func (c *Config) Validate() error {
	if len(c.Repos) == 0 {
		return fmt.Errorf("config: repos must be non-empty")
	}
	for _, r := range c.Repos {
		if r.Name == "" || r.Path == "" {
			return fmt.Errorf("config: repo entries require both name and path, got %+v", r)
		}
	}
	if !c.UseMockGraph {
		if _, err := c.GraphCredentialsFromEnv(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	return nil
}

// GraphCredentialsFromEnv reads graph-store credentials from the environment.
// Called at startup when UseMockGraph is false; all four must be set.
func (c *Config) GraphCredentialsFromEnv() (GraphCredentials, error) {
	get := func(key string) (string, error) {
		v := os.Getenv(key)
		if v == "" {
			return "", fmt.Errorf("missing required env var %s (use_mock_graph=false)", key)
		}
		return v, nil
	}
	uri, err := get("SVCGRAPH_GRAPH_URI")
	if err != nil {
		return GraphCredentials{}, err
	}
	user, err := get("SVCGRAPH_GRAPH_USER")
	if err != nil {
		return GraphCredentials{}, err
	}
	pass, err := get("SVCGRAPH_GRAPH_PASSWORD")
	if err != nil {
		return GraphCredentials{}, err
	}
	endpoint, err := get("SVCGRAPH_GRAPH_MODEL_ENDPOINT")
	if err != nil {
		return GraphCredentials{}, err
	}
	return GraphCredentials{URI: uri, User: user, Password: pass, ModelEndpoint: endpoint}, nil
}

// EffectiveMinConfidence returns the configured min_confidence, or the
// default 0.25 (below types.MinForGraph) if unset.
func (c *HTTPLinkerConfig) EffectiveMinConfidence() float64 {
	if c.MinConfidence != nil {
		return *c.MinConfidence
	}
	return 0.25
}

// EffectiveFuzzyMatching returns the configured fuzzy-matching toggle, or
// true if unset.
func (c *HTTPLinkerConfig) EffectiveFuzzyMatching() bool {
	if c.FuzzyMatching != nil {
		return *c.FuzzyMatching
	}
	return true
}
