package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/textstream/errors"
)

type pipelineSection struct {
	From       string `mapstructure:"from" validate:"required"`
	BufferSize int    `mapstructure:"buffer_size" validate:"min=1"`
	Compress   string `mapstructure:"compress" validate:"omitempty,oneof=zstd snappy"`
}

type rootConfig struct {
	Pipeline pipelineSection `mapstructure:"pipeline"`
}

func TestStructValidateValid(t *testing.T) {
	cfg := rootConfig{Pipeline: pipelineSection{From: "UTF-8", BufferSize: 1024}}
	if err := Validate(cfg); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestStructValidateInvalid(t *testing.T) {
	cfg := rootConfig{Pipeline: pipelineSection{From: "", BufferSize: 0, Compress: "gzip"}}
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	fields, _ := appErr.Details["fields"].([]FieldError)
	if len(fields) != 3 {
		t.Fatalf("expected 3 field errors, got %d", len(fields))
	}
	want := map[string]bool{"pipeline.from": true, "pipeline.buffer_size": true, "pipeline.compress": true}
	for _, f := range fields {
		if !want[f.Field] {
			t.Errorf("unexpected field %q", f.Field)
		}
	}
	if errors.ExitCode(err) != errors.ExitUsage {
		t.Errorf("expected usage exit code, got %d", errors.ExitCode(err))
	}
}

func TestRegisterValidation(t *testing.T) {
	if err := RegisterValidation("upper", func(s string) bool { return s == strings.ToUpper(s) }); err != nil {
		t.Fatalf("RegisterValidation: %v", err)
	}
	type named struct {
		Name string `mapstructure:"name" validate:"upper"`
	}
	if err := Validate(named{Name: "UTF-8"}); err != nil {
		t.Errorf("expected valid, got %v", err)
	}
	if err := Validate(named{Name: "utf-8"}); err == nil {
		t.Error("expected custom validation failure")
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"BufferSize": "buffer_size",
		"From":       "from",
		"x":          "x",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
