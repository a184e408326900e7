// Package upload validates to-be-uploaded book files locally, so a broken
// pick is rejected before any bytes hit the network.
package upload

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Info describes an inspected PDF.
type Info struct {
	Pages     int
	SizeBytes int64
}

// InspectPDF verifies that path names a readable PDF and reports its page
// count and size.
func InspectPDF(path string) (Info, error) {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".pdf" {
		return Info{}, fmt.Errorf("not a pdf file: %s", filepath.Base(path))
	}
	stat, err := os.Stat(path)
	if err != nil {
		return Info{}, fmt.Errorf("stat pdf: %w", err)
	}
	if stat.Size() == 0 {
		return Info{}, fmt.Errorf("empty pdf: %s", filepath.Base(path))
	}

	file, reader, err := pdf.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open pdf: %w", err)
	}
	defer file.Close()

	pages := reader.NumPage()
	if pages < 1 {
		return Info{}, fmt.Errorf("pdf has no pages: %s", filepath.Base(path))
	}
	return Info{Pages: pages, SizeBytes: stat.Size()}, nil
}
