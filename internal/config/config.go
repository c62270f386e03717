// Package config loads builder and CLI settings from an optional YAML file
// and SPARQLWHERE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/roach88/sparqlwhere/internal/querysparql"
	"github.com/roach88/sparqlwhere/internal/vocabulary"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SPARQLWHERE"

// Config holds settings shared by the builder and the CLI.
type Config struct {
	ResultVariable string    `mapstructure:"result_variable"`
	BaseIRI        string    `mapstructure:"base_iri"`
	Sort           []SortKey `mapstructure:"sort"`
	Limit          int       `mapstructure:"limit"`
	Offset         int       `mapstructure:"offset"`
	Distinct       bool      `mapstructure:"distinct"`
	DB             string    `mapstructure:"db"`
	AllPrefixes    bool      `mapstructure:"all_prefixes"`
}

// SortKey is one configured ordering. An empty Key orders by the result
// itself.
type SortKey struct {
	Key       string `mapstructure:"key"`
	Direction string `mapstructure:"direction"`
}

// scalar keys bound to environment variables. sort is parsed separately.
var envKeys = []string{"result_variable", "base_iri", "limit", "offset", "distinct", "db", "all_prefixes"}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		ResultVariable: querysparql.DefaultResultVariable,
		BaseIRI:        vocabulary.DefaultBaseIRI,
	}
}

// Load reads configuration in increasing precedence: defaults, the YAML
// file at path (skipped when path is empty), then environment variables.
// SPARQLWHERE_SORT takes the same "key:dir,key" form as ParseSortSpec.
func Load(path string) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("result_variable", def.ResultVariable)
	v.SetDefault("base_iri", def.BaseIRI)
	v.SetDefault("limit", 0)
	v.SetDefault("offset", 0)
	v.SetDefault("distinct", false)
	v.SetDefault("db", "")
	v.SetDefault("all_prefixes", false)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if spec, ok := os.LookupEnv(EnvPrefix + "_SORT"); ok {
		keys, err := ParseSortSpec(spec)
		if err != nil {
			return nil, fmt.Errorf("%s_SORT: %w", EnvPrefix, err)
		}
		cfg.Sort = keys
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseSortSpec parses a comma-separated sort list such as
// "Population:desc,Name". Directions default to asc. ":desc" orders by
// the result itself; blank entries are skipped.
func ParseSortSpec(spec string) ([]SortKey, error) {
	var keys []SortKey
	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		key, dir, _ := strings.Cut(entry, ":")
		key = strings.TrimSpace(key)
		dir = strings.ToUpper(strings.TrimSpace(dir))
		if dir == "" {
			dir = "ASC"
		}
		if dir != "ASC" && dir != "DESC" {
			return nil, fmt.Errorf("sort %q: direction must be asc or desc", entry)
		}
		keys = append(keys, SortKey{Key: key, Direction: dir})
	}
	return keys, nil
}

// Validate checks the configuration for values the builder cannot use.
func (c *Config) Validate() error {
	var errs []error
	if !validVariableName(c.ResultVariable) {
		errs = append(errs, fmt.Errorf("result_variable %q is not a valid variable name", c.ResultVariable))
	}
	if strings.TrimSpace(c.BaseIRI) == "" {
		errs = append(errs, errors.New("base_iri is required"))
	}
	if c.Limit < 0 {
		errs = append(errs, errors.New("limit must not be negative"))
	}
	if c.Offset < 0 {
		errs = append(errs, errors.New("offset must not be negative"))
	}
	for i, sk := range c.Sort {
		switch strings.ToUpper(sk.Direction) {
		case "", "ASC", "DESC":
		default:
			errs = append(errs, fmt.Errorf("sort[%d]: direction %q must be asc or desc", i, sk.Direction))
		}
	}
	if err := querysparql.CheckSortKeys(c.SortKeys()); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SortKeys converts the configured ordering for the builder.
func (c *Config) SortKeys() []querysparql.SortKey {
	keys := make([]querysparql.SortKey, 0, len(c.Sort))
	for _, sk := range c.Sort {
		dir := strings.ToUpper(sk.Direction)
		if dir == "" {
			dir = "ASC"
		}
		keys = append(keys, querysparql.SortKey{Key: sk.Key, Direction: dir})
	}
	return keys
}

// BuilderOptions returns the builder options implied by the configuration.
func (c *Config) BuilderOptions() []querysparql.Option {
	return []querysparql.Option{
		querysparql.WithResultVariable(c.ResultVariable),
		querysparql.WithSortKeys(c.SortKeys()...),
		querysparql.WithExporter(vocabulary.NewExporter(c.BaseIRI)),
	}
}

// SelectOptions returns the SELECT modifiers implied by the configuration.
func (c *Config) SelectOptions() querysparql.SelectOptions {
	return querysparql.SelectOptions{
		Distinct:    c.Distinct,
		Limit:       c.Limit,
		Offset:      c.Offset,
		AllPrefixes: c.AllPrefixes,
	}
}

func validVariableName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !(r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}
