// Package config handles the tool settings of iconfolio.
//
// Settings are layered with koanf, each layer overriding the previous one:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. user config: $XDG_CONFIG_HOME/iconfolio/config.toml or config.yaml
//  3. operating directory: .iconfolio.toml or .iconfolio.yaml
//  4. an explicit file passed with --config
//  5. ICONFOLIO_<SECTION>__<KEY> environment variables
//  6. command-line overrides
//
// These settings describe how the tool behaves. The folder configuration
// the user edits (folders.txt) is handled by package folderconfig.
package config
