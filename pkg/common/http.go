package common

import (
	"io"
	"net/http"
	"os"
)

// ReadAllFromURL reads all content from the URL.
// TODO Unsafe if the URL is a dynamic page which infinitely streams output -- we can crash with an OOM in that case.
func ReadAllFromURL(url string) ([]byte, error) {
	res, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	content, err := io.ReadAll(res.Body)
	defer func() {
		_ = res.Body.Close()
	}()
	if err != nil {
		return nil, err
	}
	return content, nil
}

// DownloadFromURL downloads the content of the URL to the given file path on disk.
func DownloadFromURL(url, filePath string) error {
	content, err := ReadAllFromURL(url)
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, content, 0644)
}
