// Package startup owns process configuration and the structured startup
// banner. Values resolve from environment variables, then an optional YAML
// file (CONFIG_FILE), then built-in defaults. It also provides the
// build-info variables injected at link time and the shutdown log helpers.
package startup
