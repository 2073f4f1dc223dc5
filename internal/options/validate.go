// Package options provides shared helpers for functional option validation.
package options

import "github.com/erraggy/openapi-gui/oaserrors"

// ValidateSingleInputSource ensures exactly one input source is set.
// option names the option group in the returned *oaserrors.ConfigError;
// sources reports, per source, whether it was set.
func ValidateSingleInputSource(option string, sources ...bool) error {
	count := 0
	for _, set := range sources {
		if set {
			count++
		}
	}

	switch {
	case count == 0:
		return &oaserrors.ConfigError{Option: option, Message: "an input source is required"}
	case count > 1:
		return &oaserrors.ConfigError{Option: option, Message: "exactly one input source may be set"}
	}
	return nil
}

// NonNegative returns a *oaserrors.ConfigError when value is negative.
func NonNegative(option string, value int) error {
	if value < 0 {
		return &oaserrors.ConfigError{Option: option, Value: value, Message: "cannot be negative"}
	}
	return nil
}
