package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/iconfolio/pkg/errors"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"
)

// EnvPrefix prefixes environment overrides: ICONFOLIO_REFRESH__ATTEMPTS=5
const EnvPrefix = "ICONFOLIO_"

// RootConfigNames are looked up in the operating directory, first match wins
var RootConfigNames = []string{".iconfolio.toml", ".iconfolio.yaml", ".iconfolio.yml"}

// LoadOptions selects the layers merged on top of the embedded defaults
type LoadOptions struct {
	// Root is the operating directory; its .iconfolio.* file is a layer.
	Root string
	// File is an explicit settings file (--config).
	File string
	// SkipUserConfig ignores the XDG user config (tests).
	SkipUserConfig bool
	// SkipEnv ignores ICONFOLIO_* variables.
	SkipEnv bool
	// Overrides are dotted keys from command-line flags.
	Overrides map[string]interface{}
}

// Load merges all layers and returns the effective settings together with
// the koanf instance they were read from.
func Load(opts LoadOptions) (*Settings, *koanf.Koanf, error) {
	k := koanf.New(".")

	if err := k.Load(document(defaultsTOML), toml.Parser()); err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrSettingsLoad, "failed to load defaults")
	}

	if !opts.SkipUserConfig {
		for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
			path := filepath.Join(xdg.ConfigHome, "iconfolio", name)
			if loaded, err := loadFileIfExists(k, path); err != nil {
				return nil, nil, err
			} else if loaded {
				break
			}
		}
	}

	if opts.Root != "" {
		for _, name := range RootConfigNames {
			if loaded, err := loadFileIfExists(k, filepath.Join(opts.Root, name)); err != nil {
				return nil, nil, err
			} else if loaded {
				break
			}
		}
	}

	if opts.File != "" {
		if err := k.Load(file.Provider(opts.File), parserFor(opts.File)); err != nil {
			return nil, nil, errors.Wrapf(err, errors.ErrSettingsLoad, "failed to load settings from %s", opts.File)
		}
	}

	if !opts.SkipEnv {
		if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
			return nil, nil, errors.Wrap(err, errors.ErrSettingsLoad, "failed to load environment overrides")
		}
	}

	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, nil, errors.Wrap(err, errors.ErrSettingsLoad, "failed to load flag overrides")
		}
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrSettingsLoad, "failed to decode settings")
	}
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}
	return &s, k, nil
}

// Defaults returns the embedded defaults only
func Defaults() *Settings {
	s, _, err := Load(LoadOptions{SkipUserConfig: true, SkipEnv: true})
	if err != nil {
		panic(fmt.Sprintf("embedded defaults are invalid: %v", err))
	}
	return s
}

// EffectiveTOML renders the merged settings as a TOML document
func EffectiveTOML(k *koanf.Koanf) ([]byte, error) {
	return gotoml.Marshal(k.Raw())
}

// envKey maps ICONFOLIO_REFRESH__ATTEMPT_DELAY to refresh.attempt_delay
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}

func loadFileIfExists(k *koanf.Koanf, path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		return false, nil
	}
	if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
		return false, errors.Wrapf(err, errors.ErrSettingsLoad, "failed to load settings from %s", path)
	}
	return true, nil
}
