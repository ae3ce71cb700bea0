package render

import (
	"fmt"
	"strings"
)

// UnsupportedFeatureError indicates a feature not supported by the dialect.
type UnsupportedFeatureError struct {
	Feature string
	Dialect string
	Hint    string
}

func (e UnsupportedFeatureError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s is not supported: %s", e.Dialect, e.Feature, e.Hint)
	}
	return fmt.Sprintf("%s: %s is not supported", e.Dialect, e.Feature)
}

// NewUnsupportedFeatureError creates a new unsupported feature error.
func NewUnsupportedFeatureError(dialect, feature string, hint ...string) error {
	err := UnsupportedFeatureError{Feature: feature, Dialect: dialect}
	if len(hint) > 0 {
		err.Hint = hint[0]
	}
	return err
}

// UnknownTemplateError indicates a key absent from the whole template chain.
type UnknownTemplateError struct {
	Key string
}

func (e UnknownTemplateError) Error() string {
	return fmt.Sprintf("no template registered for %q", e.Key)
}

// TemplateArgumentError indicates a template received the wrong argument shape.
type TemplateArgumentError struct {
	Key  string
	Want string
	Got  []string
}

func (e TemplateArgumentError) Error() string {
	return fmt.Sprintf("%s: expected %s, got (%s)", e.Key, e.Want, strings.Join(e.Got, ", "))
}
