package constants

import "strings"

const (
	// FormatJSON is the default output format for conversions.
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// OutputFormats holds the supported serialization formats for conversions.
var OutputFormats = []string{FormatJSON, FormatCSV, FormatXLSX}

// AllowedExtensions holds the allowed upload extensions for conversion.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
