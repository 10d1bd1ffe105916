// Package config loads sortlab.toml.
//
// A file is decoded with BurntSushi/toml, checked against the embedded CUE
// schema (which rejects unknown keys and malformed values), and overlaid on
// Default(): keys absent from the file keep their default.
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/BurntSushi/toml"

	"github.com/roach88/sortlab/internal/algo"
)

//go:embed schema.cue
var schemaCUE string

// Config holds the settings shared by the sortlab commands.
type Config struct {
	Pace      time.Duration
	Database  string
	Algorithm string
	LogLevel  string
	Format    string
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Algorithm: "quick",
		LogLevel:  "info",
		Format:    "text",
	}
}

type fileConfig struct {
	Pace      string `toml:"pace"`
	Database  string `toml:"database"`
	Algorithm string `toml:"algorithm"`
	LogLevel  string `toml:"log_level"`
	Format    string `toml:"format"`
}

// Load reads the TOML file at path and overlays it on Default.
func Load(path string) (Config, error) {
	var raw map[string]any
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := checkSchema(raw); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}

	var file fileConfig
	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	cfg := Default()
	if meta.IsDefined("pace") {
		d, err := time.ParseDuration(strings.TrimSpace(file.Pace))
		if err != nil {
			return Config{}, fmt.Errorf("parse pace: %w", err)
		}
		cfg.Pace = d
	}
	if meta.IsDefined("database") {
		cfg.Database = strings.TrimSpace(file.Database)
	}
	if meta.IsDefined("algorithm") {
		cfg.Algorithm = strings.TrimSpace(file.Algorithm)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = file.LogLevel
	}
	if meta.IsDefined("format") {
		cfg.Format = file.Format
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// checkSchema unifies the decoded document with #Config.
func checkSchema(raw map[string]any) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Config"))
	doc := ctx.Encode(raw)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := def.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(err)
	}
	return nil
}

// formatCUEError flattens a CUE error list into one line per problem.
func formatCUEError(err error) error {
	var msgs []string
	for _, e := range cueerrors.Errors(err) {
		msgs = append(msgs, strings.TrimSpace(cueerrors.Details(e, nil)))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// Validate checks the values a schema cannot: the algorithm must be
// registered and the pace must not be negative.
func (c Config) Validate() error {
	if c.Pace < 0 {
		return fmt.Errorf("pace must not be negative, got %s", c.Pace)
	}
	if _, ok := algo.ByName(c.Algorithm); !ok {
		return fmt.Errorf("unknown algorithm %q (known: %s)", c.Algorithm, strings.Join(algo.Default().Names(), ", "))
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown format %q (expected text or json)", c.Format)
	}
	return nil
}

// ParseLogLevel maps debug, info, warn and error to slog levels.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}
