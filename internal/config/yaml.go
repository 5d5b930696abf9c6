package config

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits YAML input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

var (
	errEmptyInput    = errors.New("empty config file")
	errInputTooLarge = errors.New("config file exceeds maximum size")
)

// unmarshalStrict decodes YAML into v, rejecting unknown fields.
func unmarshalStrict(data []byte, v any) error {
	if len(data) == 0 {
		return errEmptyInput
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", errInputTooLarge, len(data), MaxInputSize)
	}
	return yaml.UnmarshalWithOptions(data, v, yaml.Strict())
}
