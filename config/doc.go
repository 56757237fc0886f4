// Package config loads linepar settings.
//
// Sources, lowest precedence first: built-in defaults, a YAML file
// (explicit, or linepar.yml discovered in the working directory, ./config
// or the user config directory), a .env file, LINEPAR_* environment
// variables, and finally command-line flags that were set explicitly.
//
//	cfg, err := config.Load(config.WithFlags(cmd.Flags()))
//
// Environment variables map onto keys by dropping the prefix and treating
// underscores as either separators or part of a key, so LINEPAR_CHUNK_SIZE
// sets chunk_size and LINEPAR_LOGGING_LEVEL sets logging.level.
package config
