// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage at ~/.prmail/config.toml
//
// Hand-written configs use TOML tables ([mail], [embedding], [llm], [index],
// [tags]); the store flattens them into dot-notation keys on load.
package file
