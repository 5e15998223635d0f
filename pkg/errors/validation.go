package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// MaxInputBytes bounds agenda text accepted from untrusted callers.
const MaxInputBytes = 1 << 20

// ValidateOutputPath checks that path is usable as an image destination.
//
// Image renderers write files, so stdout ("-") and the empty string are
// rejected with ErrCodeOutputRequired. Paths with control characters or that
// name a directory are rejected with ErrCodeInvalidInput.
func ValidateOutputPath(path string) error {
	if path == "" || path == "-" {
		return New(ErrCodeOutputRequired, "an output filename is required for image formats")
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "output path contains invalid control characters")
		}
	}

	if strings.HasSuffix(path, string(filepath.Separator)) || filepath.Base(path) == "." || filepath.Base(path) == ".." {
		return New(ErrCodeInvalidInput, "output path must name a file: %s", path)
	}

	return nil
}

// ValidateImageExt warns about output names whose extension disagrees with
// the requested image format. It returns nil when path has no extension.
func ValidateImageExt(path, format string) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" || ext == format {
		return nil
	}
	return New(ErrCodeInvalidInput, "output %s has extension .%s but format is %s", path, ext, format)
}

// ValidateText checks agenda text received from untrusted callers.
func ValidateText(text string) error {
	if len(text) > MaxInputBytes {
		return New(ErrCodeInvalidInput, "agenda text too large (max %d bytes)", MaxInputBytes)
	}
	if strings.ContainsRune(text, '\x00') {
		return New(ErrCodeInvalidInput, "agenda text contains null bytes")
	}
	return nil
}
