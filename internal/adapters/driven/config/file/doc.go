// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - TemplateStore: user clause templates in templates.toml
//   - LoadRuleSet: keyword rules overrides from rules.toml
package file
