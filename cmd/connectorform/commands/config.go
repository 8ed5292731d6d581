package commands

import (
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// Config mirrors the command line flags. Values from the file only apply to
// flags not set on the command line.
type Config struct {
	LogLevel string        `yaml:"logLevel"`
	Metadata string        `yaml:"metadata"`
	Values   string        `yaml:"values"`
	Format   string        `yaml:"format"`
	Schema   string        `yaml:"schema"`
	Renderer string        `yaml:"renderer"`
	Output   string        `yaml:"output"`
	Payload  string        `yaml:"payload"`
	Engine   string        `yaml:"engine"`
	Preset   string        `yaml:"preset"`
	Theme    string        `yaml:"theme"`
	Variant  string        `yaml:"variant"`
	Strict   bool          `yaml:"strict"`
	Themes   []ThemeConfig `yaml:"themes"`
}

// ThemeConfig declares a theme manifest inline.
type ThemeConfig struct {
	Name      string                   `yaml:"name"`
	Version   string                   `yaml:"version"`
	Tokens    map[string]string        `yaml:"tokens"`
	Templates map[string]string        `yaml:"templates"`
	Assets    AssetsConfig             `yaml:"assets"`
	Variants  map[string]VariantConfig `yaml:"variants"`
}

type VariantConfig struct {
	Tokens    map[string]string `yaml:"tokens"`
	Templates map[string]string `yaml:"templates"`
	Assets    AssetsConfig      `yaml:"assets"`
}

type AssetsConfig struct {
	Prefix string            `yaml:"prefix"`
	Files  map[string]string `yaml:"files"`
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, oops.In("config").
			Hint("check the --config path").
			Wrapf(err, "read config %s", path)
	}
	if strings.TrimSpace(string(data)) == "" {
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, oops.In("config").
			Hint("the config file must be a YAML mapping").
			Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

// Manifests converts the inline theme declarations.
func (c Config) Manifests() []*theme.Manifest {
	out := make([]*theme.Manifest, 0, len(c.Themes))
	for _, t := range c.Themes {
		manifest := &theme.Manifest{
			Name:      t.Name,
			Version:   t.Version,
			Tokens:    t.Tokens,
			Templates: t.Templates,
			Assets:    theme.Assets{Prefix: t.Assets.Prefix, Files: t.Assets.Files},
		}
		if len(t.Variants) > 0 {
			manifest.Variants = make(map[string]theme.Variant, len(t.Variants))
			for name, v := range t.Variants {
				manifest.Variants[name] = theme.Variant{
					Tokens:    v.Tokens,
					Templates: v.Templates,
					Assets:    theme.Assets{Prefix: v.Assets.Prefix, Files: v.Assets.Files},
				}
			}
		}
		out = append(out, manifest)
	}
	return out
}
