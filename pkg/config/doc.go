// Package config loads engine configuration from AUTHZ_-prefixed environment
// variables with validated defaults. Hosts embedding the engine as a library
// can skip it entirely and fill the component config structs directly.
package config
