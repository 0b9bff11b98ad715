package types

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// StoreConfig names the backend and the four tables the model lives in.
type StoreConfig struct {
	Backend        string `yaml:"backend" json:"backend"`
	Dir            string `yaml:"dir" json:"dir"`
	WordTable      string `yaml:"word_table" json:"word_table"`
	InflexionTable string `yaml:"inflexion_table" json:"inflexion_table"`
	LemmaTable     string `yaml:"lemma_table" json:"lemma_table"`
	TagTable       string `yaml:"tag_table" json:"tag_table"`
}

type Config struct {
	ZeroInflection        string            `yaml:"zero_inflection" json:"zero_inflection"`
	NoMorph               string            `yaml:"no_morph" json:"no_morph"`
	UnknownLemma          string            `yaml:"unknown_lemma" json:"unknown_lemma"`
	ExcludedPOS           string            `yaml:"excluded_pos" json:"excluded_pos"`
	ExcludedTag           string            `yaml:"excluded_tag" json:"excluded_tag"`
	POSAliases            map[string]string `yaml:"pos_aliases" json:"pos_aliases"`
	BareTagWeight         float64           `yaml:"bare_tag_weight" json:"bare_tag_weight"`
	UnknownTransitionCost Cost              `yaml:"unknown_transition_cost" json:"unknown_transition_cost"`
	Store                 StoreConfig       `yaml:"store" json:"store"`
}

func DefaultConfig() Config {
	return Config{
		ZeroInflection:        "#",
		NoMorph:               "_",
		UnknownLemma:          "UNKN",
		ExcludedPOS:           "X",
		ExcludedTag:           "#",
		POSAliases:            map[string]string{"PROPN": "NOUN"},
		BareTagWeight:         0.25,
		UnknownTransitionCost: 10.2,
		Store: StoreConfig{
			Backend:        BackendSQLite,
			Dir:            "models",
			WordTable:      "model",
			InflexionTable: "inflexion",
			LemmaTable:     "lemma",
			TagTable:       "tag",
		},
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig, so a file only has to
// name the settings it changes.
func LoadConfig(filePath string) (Config, error) {
	cfg := DefaultConfig()
	buf, err := os.ReadFile(filePath)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", filePath, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", filePath, err)
	}
	return cfg, nil
}

func (cfg Config) Validate() error {
	switch cfg.Store.Backend {
	case BackendMemory, BackendSQLite, BackendRedis:
	default:
		return fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
	if cfg.ZeroInflection == "" {
		return fmt.Errorf("zero_inflection must not be empty")
	}
	if cfg.BareTagWeight <= 0 {
		return fmt.Errorf("bare_tag_weight must be positive, got %v", cfg.BareTagWeight)
	}
	return nil
}

// NormalizePOS applies the configured aliases, e.g. PROPN -> NOUN.
func (cfg Config) NormalizePOS(pos string) string {
	if alias, ok := cfg.POSAliases[pos]; ok {
		return alias
	}
	return pos
}
