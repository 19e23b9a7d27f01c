package fontatlas

import "errors"

// Sentinel errors for fontatlas.
var (
	// ErrAlreadyInitialized is returned by Initialize on a font that was
	// already initialized.
	ErrAlreadyInitialized = errors.New("fontatlas: font already initialized")

	// ErrSourceUnavailable is returned when the font source cannot be opened.
	ErrSourceUnavailable = errors.New("fontatlas: source unavailable")

	// ErrNoTexture is returned in bitmap mode when there is no texture with
	// pixels to map glyphs onto.
	ErrNoTexture = errors.New("fontatlas: no texture")
)

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "fontatlas: invalid config." + e.Field + ": " + e.Reason
}
