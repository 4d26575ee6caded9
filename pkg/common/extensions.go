package common

import "strings"

// IsImageFormat tells if the path (or URL) points to an image format we can feed to the vision model.
func IsImageFormat(path string) bool {
	path = strings.ToLower(path)
	return strings.HasSuffix(path, ".jpg") ||
		strings.HasSuffix(path, ".jpeg") ||
		strings.HasSuffix(path, ".png") ||
		strings.HasSuffix(path, ".bmp")
}
