package config

import (
	_ "embed"
	"errors"
)

//go:embed embedded/defaults.toml
var defaultsTOML []byte

// DefaultsContent is the built-in settings document, comments included
func DefaultsContent() string {
	return string(defaultsTOML)
}

// document feeds an in-memory file to koanf. Only the bytes path is
// used; parsing is left to the parser passed to Load.
type document []byte

func (d document) ReadBytes() ([]byte, error) { return d, nil }

func (document) Read() (map[string]interface{}, error) {
	return nil, errors.New("document provider only supports ReadBytes")
}
