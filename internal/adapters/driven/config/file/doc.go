// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//
// Settings reads the known configuration keys out of a ConfigStore into a
// typed structure with defaults applied, which is what the CLI wires the
// engine from.
package file
