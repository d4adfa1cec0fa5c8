// Package validation validates configuration values before a pipeline is built.
//
// Checks are declared as struct tags and run by the validator library.
// Failures are reported as INVALID_INPUT AppErrors carrying one entry per
// offending field.
//
// # Struct Tag Validation
//
//	type PipelineConfig struct {
//	    From       string `mapstructure:"from" validate:"required,charset"`
//	    BufferSize int    `mapstructure:"buffer_size" validate:"min=1"`
//	}
//	err := validation.Validate(cfg)
//
// # Custom Tags
//
//	validation.RegisterValidation("charset", func(name string) bool { ... })
package validation
