// Package validation checks configuration and option structs before a run
// starts.
//
// It supports struct tag validation (using the validator library) and
// programmatic validation with error collection for cross-field rules.
// Both forms report failures as an INVALID_INPUT *errors.AppError whose
// details list every offending field.
//
// # Struct Tag Validation
//
//	type Options struct {
//	    Workers   int `mapstructure:"workers" validate:"min=1"`
//	    ChunkSize int `mapstructure:"chunk_size" validate:"min=1"`
//	}
//	err := validation.Validate(opts)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Custom(cfg.Transform != "exec" || cfg.Exec.Command != "",
//	    "exec.command", "is required by the exec transform")
//	err := v.Err()
package validation
