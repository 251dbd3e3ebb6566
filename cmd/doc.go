// Package cmd provides the command-line interface for chassis.
//
// # Available Commands
//
//   - run: execute scenario files against the mixin runtime and print the
//     event transcript, optionally re-running on change
//   - split: split raw input text the way a listinput host would
//   - mixins: list the registered mixins
//   - config: show or validate the configuration
//   - version: print build information
//
// # Command Examples
//
//	// Run a scenario and print its transcript as YAML
//	chassis run tags.yml -o yaml
//
//	// Re-run every time the file is saved
//	chassis run tags.yml --watch
//
//	// Split with a custom separator, dropping repeated tokens
//	chassis split "a;b;b" --separator ";" --dedupe
//
// Configuration comes from .chassis.yml, the file named by --config or
// CHASSIS_CONFIG_FILE, and CHASSIS_* environment variables.
package cmd
