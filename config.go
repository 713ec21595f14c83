package monogif

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	yaml "gopkg.in/yaml.v2"
)

// Config collects the conversion settings. It can be loaded from YAML:
//
//	contrast: 20
//	dither: atkinson   # or a code, 0..5
//	edges: true
//	fit: 128x64
type Config struct {
	Contrast int    `yaml:"contrast"`
	Dither   Method `yaml:"dither"`
	Edges    bool   `yaml:"edges"`
	Fit      Size   `yaml:"fit"`
}

// Validate reports settings that NewConverter would reject.
func (cfg Config) Validate() error {
	if cfg.Contrast < -100 || cfg.Contrast > 100 {
		return fmt.Errorf("%w: %d", ErrContrastRange, cfg.Contrast)
	}
	if !cfg.Dither.Valid() {
		return fmt.Errorf("%w: %d (want 0..%d)", ErrDitherMethod, int(cfg.Dither), SierraLite)
	}
	if cfg.Fit.Width < 0 || cfg.Fit.Height < 0 {
		return fmt.Errorf("invalid fit %s", cfg.Fit)
	}
	return nil
}

// Options translates cfg into Converter options.
func (cfg Config) Options() []Option {
	opts := []Option{
		WithContrast(cfg.Contrast),
		WithDither(cfg.Dither),
	}
	if cfg.Edges {
		opts = append(opts, WithEdges())
	}
	if !cfg.Fit.IsZero() {
		opts = append(opts, WithFit(cfg.Fit.Width, cfg.Fit.Height))
	}
	return opts
}

// LoadConfig decodes a YAML document into a Config. Missing keys keep their
// zero values, which are the defaults.
func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config
	data, err := io.ReadAll(r)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// UnmarshalYAML accepts either a method code or a method name.
func (m *Method) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseMethod(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m Method) MarshalYAML() (interface{}, error) {
	return m.String(), nil
}

// Size is a WIDTHxHEIGHT pair. Either side may be 0 to leave it unbounded.
type Size struct {
	Width, Height int
}

func (s Size) IsZero() bool {
	return s.Width == 0 && s.Height == 0
}

func (s Size) String() string {
	return strconv.Itoa(s.Width) + "x" + strconv.Itoa(s.Height)
}

// ParseSize parses "128x64". A comma works as separator too: "128,64".
func ParseSize(s string) (Size, error) {
	parts := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == 'x' || r == ','
	})
	if len(parts) != 2 {
		return Size{}, fmt.Errorf("size %q must look like WIDTHxHEIGHT", s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Size{}, fmt.Errorf("size %q: %w", s, err)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Size{}, fmt.Errorf("size %q: %w", s, err)
	}
	if w < 0 || h < 0 {
		return Size{}, fmt.Errorf("size %q must not be negative", s)
	}
	return Size{Width: w, Height: h}, nil
}

func (s *Size) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := ParseSize(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s Size) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}
