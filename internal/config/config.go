// Package config loads the optional simdscan.yaml file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"simdscan/internal/isa"
	"simdscan/internal/report"
)

// DefaultFile is read from the working directory when --config is not given.
const DefaultFile = "simdscan.yaml"

// Engines that can produce a listing.
const (
	EngineAuto    = "auto"
	EngineObjdump = "objdump"
	EngineNative  = "native"
)

// ErrInvalid marks configuration values that fail validation.
var ErrInvalid = errors.New("invalid configuration")

// Config mirrors the command line flags. Flags set explicitly override it.
type Config struct {
	Format    string `json:"format,omitempty" yaml:"format,omitempty" jsonschema:"title=Format,description=Output format,enum=json,enum=yaml,enum=text,enum=markdown,default=json"`
	ShowInsts bool   `json:"show_insts,omitempty" yaml:"show_insts,omitempty" jsonschema:"title=Show Instructions,description=Include per-ISA mnemonic counts"`
	Top       int    `json:"top,omitempty" yaml:"top,omitempty" jsonschema:"title=Top,description=Mnemonics listed per ISA (0 lists all),minimum=0"`
	Engine    string `json:"engine,omitempty" yaml:"engine,omitempty" jsonschema:"title=Engine,description=Disassembly source,enum=auto,enum=objdump,enum=native,default=auto"`
	Objdump   string `json:"objdump,omitempty" yaml:"objdump,omitempty" jsonschema:"title=Objdump,description=Path to the objdump executable"`
	Jobs      int    `json:"jobs,omitempty" yaml:"jobs,omitempty" jsonschema:"title=Jobs,description=Parallel scan shards,minimum=1,default=1"`
	HostCheck bool   `json:"host_check,omitempty" yaml:"host_check,omitempty" jsonschema:"title=Host Check,description=Report extensions the host CPU lacks"`
	ISA       string `json:"isa,omitempty" yaml:"isa,omitempty" jsonschema:"title=ISA,description=Comma-separated extensions to report (empty reports all)"`
	Debug     bool   `json:"debug,omitempty" yaml:"debug,omitempty" jsonschema:"title=Debug,description=Enable debug logging"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Format: "json",
		Engine: EngineAuto,
		Jobs:   1,
	}
}

// Load reads path over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses YAML from r over the defaults and validates the result.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated and numeric fields.
func (c Config) Validate() error {
	var errs []error
	if _, err := report.ParseFormat(c.Format); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalid, err))
	}
	switch c.Engine {
	case EngineAuto, EngineObjdump, EngineNative:
	default:
		errs = append(errs, fmt.Errorf("%w: engine %q (want auto, objdump or native)", ErrInvalid, c.Engine))
	}
	if _, err := c.Extensions(); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalid, err))
	}
	if c.Top < 0 {
		errs = append(errs, fmt.Errorf("%w: top %d is negative", ErrInvalid, c.Top))
	}
	if c.Jobs < 1 {
		errs = append(errs, fmt.Errorf("%w: jobs %d must be at least 1", ErrInvalid, c.Jobs))
	}
	return errors.Join(errs...)
}

// Extensions parses the ISA filter. An empty filter yields nil.
func (c Config) Extensions() ([]isa.Extension, error) {
	var exts []isa.Extension
	for name := range strings.SplitSeq(c.ISA, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		ext, err := isa.ParseExtension(name)
		if err != nil {
			return nil, err
		}
		exts = append(exts, ext)
	}
	return exts, nil
}
