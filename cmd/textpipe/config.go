package main

import (
	"sync"

	"github.com/kbukum/textstream/charset"
	"github.com/kbukum/textstream/config"
	"github.com/kbukum/textstream/observability"
	"github.com/kbukum/textstream/util"
	"github.com/kbukum/textstream/validation"
)

const serviceName = "textpipe"

// maxBufferSize bounds every configurable buffer.
const maxBufferSize = 1 << 30

// CLIConfig is the textpipe configuration. Values come from flags, TEXTPIPE_*
// environment variables, a config.yml and built-in defaults, in that order.
type CLIConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Pipeline             PipelineConfig       `yaml:"pipeline" mapstructure:"pipeline"`
	Telemetry            observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// PipelineConfig describes one conversion.
type PipelineConfig struct {
	From        string `yaml:"from" mapstructure:"from" validate:"required,charset"`
	To          string `yaml:"to" mapstructure:"to" validate:"omitempty,charset"`
	BufferSize  string `yaml:"buffer_size" mapstructure:"buffer_size" validate:"required,size"`
	ReadBuffer  string `yaml:"read_buffer" mapstructure:"read_buffer" validate:"required,size"`
	WriteBuffer string `yaml:"write_buffer" mapstructure:"write_buffer" validate:"required,size"`
	Replace     bool   `yaml:"replace" mapstructure:"replace"`
	Decompress  string `yaml:"decompress" mapstructure:"decompress" validate:"omitempty,oneof=none zstd snappy"`
	Compress    string `yaml:"compress" mapstructure:"compress" validate:"omitempty,oneof=none zstd snappy"`
}

// ApplyDefaults keeps the CLI quiet unless asked otherwise.
func (c *CLIConfig) ApplyDefaults() {
	if c.Logging.Level == "" && !c.Debug {
		c.Logging.Level = "warn"
	}
	c.ServiceConfig.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
}

// Validate checks the service, telemetry and pipeline sections.
func (c *CLIConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Telemetry.Validate(); err != nil {
		return err
	}
	registerValidations()
	return validation.Validate(c)
}

var registerOnce sync.Once

func registerValidations() {
	registerOnce.Do(func() {
		_ = validation.RegisterValidation("charset", func(name string) bool {
			_, err := charset.Lookup(name)
			return err == nil
		})
		_ = validation.RegisterValidation("size", func(s string) bool {
			n, err := util.ParseSize(s)
			return err == nil && n > 0 && n <= maxBufferSize
		})
	})
}
