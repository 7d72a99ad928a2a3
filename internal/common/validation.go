package common

import (
	"fmt"
	"slices"
	"strings"
)

// ValidateOutputFormat checks a requested report format against the
// formats the application is configured to emit. An empty configured
// list means no restriction.
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 {
		return nil
	}

	if !slices.Contains(supportedFormats, format) {
		return fmt.Errorf("unsupported output format %q (supported: %s)",
			format, strings.Join(supportedFormats, ", "))
	}

	return nil
}

// GetSupportedFormats returns the configured report formats, for flag
// completion and help output.
func GetSupportedFormats(supportedFormats []string) []string {
	return supportedFormats
}
