package common

// URLFinder finds URLs in free-form text (a console line may contain an image URL instead of a local path).
type URLFinder interface {
	FindURLs(str string) []string
}
