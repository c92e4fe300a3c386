package constants

import "strings"

// TabularExtensions holds the extensions loaded directly into a table.
var TabularExtensions = map[string]struct{}{
	"csv":  {},
	"xls":  {},
	"xlsx": {},
}

// ImageExtensions holds the extensions routed to vision-based extraction.
var ImageExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsTabularExt reports whether ext loads via the direct tabular path.
func IsTabularExt(ext string) bool {
	_, ok := TabularExtensions[NormalizeExt(ext)]
	return ok
}

// IsImageExt reports whether ext routes to vision-based extraction.
func IsImageExt(ext string) bool {
	_, ok := ImageExtensions[NormalizeExt(ext)]
	return ok
}
