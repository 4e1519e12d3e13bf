// Package config holds the settings of a bfasm run and loads them from TOML
// files.
package config

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"strings"

	"github.com/naoina/toml"

	"github.com/sarchlab/bfasm/core"
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

// Timing configures the cycle-counting core.
type Timing struct {
	FreqGHz   float64
	MaxCycles uint64 `toml:",omitempty"`
}

// Config is the complete configuration of a run.
type Config struct {
	TapeSize  int
	EOF       string
	Output    string `toml:",omitempty"` // assembly output path, empty to interpret
	Verbosity string
	LogFile   string `toml:",omitempty"`

	Timing Timing
}

// Default returns the configuration used when no file or flag overrides it.
func Default() Config {
	return Config{
		TapeSize:  core.DefaultTapeSize,
		EOF:       core.EOFUnchanged.String(),
		Verbosity: "info",
		Timing: Timing{
			FreqGHz: 1,
		},
	}
}

// Load reads the TOML file at path on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	if err := Decode(f, &cfg); err != nil {
		return cfg, fmt.Errorf("%s, %w", path, err)
	}

	return cfg, nil
}

// Decode reads TOML from r into cfg. Keys missing from the input keep their
// current values.
func Decode(r io.Reader, cfg *Config) error {
	return tomlSettings.NewDecoder(bufio.NewReader(r)).Decode(cfg)
}

// Dump writes cfg as TOML.
func Dump(w io.Writer, cfg Config) error {
	out, err := tomlSettings.Marshal(&cfg)
	if err != nil {
		return err
	}

	_, err = w.Write(out)

	return err
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	if c.TapeSize <= 0 {
		return fmt.Errorf("tape size must be positive, got %d", c.TapeSize)
	}

	if _, err := c.EOFPolicy(); err != nil {
		return err
	}

	if _, err := c.Level(); err != nil {
		return err
	}

	if c.Timing.FreqGHz <= 0 {
		return fmt.Errorf("frequency must be positive, got %g GHz", c.Timing.FreqGHz)
	}

	return nil
}

// EOFPolicy returns the parsed EOF setting.
func (c Config) EOFPolicy() (core.EOFPolicy, error) {
	return core.ParseEOFPolicy(c.EOF)
}

// Level returns the log level named by Verbosity. Besides the slog level
// names it accepts "trace".
func (c Config) Level() (slog.Level, error) {
	name := strings.ToLower(strings.TrimSpace(c.Verbosity))
	if name == "trace" {
		return core.LevelTrace, nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("unknown verbosity %q", c.Verbosity)
	}

	return level, nil
}
