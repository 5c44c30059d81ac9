// Package document loads HTML documents from disk and exposes them as
// goquery trees.
package document

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/wiki-diseases/models"
)

// DefaultTitleSuffixLength is the length of " - Wikipedia, the free encyclopedia".
const DefaultTitleSuffixLength = 35

// Read returns the raw bytes of the document at path.
func Read(path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("document %s: %w", path, models.ErrNotFound)
		}
		return nil, fmt.Errorf("error reading document: %w", err)
	}
	return data, nil
}

// Parse builds a queryable tree from raw HTML.
func Parse(raw []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse html: %v: %w", err, models.ErrMalformedDocument)
	}
	return doc, nil
}

// Load reads and parses the document at path.
func Load(path string) (*goquery.Document, error) {
	raw, err := Read(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// ListFiles returns the regular files directly inside dir, sorted by name.
// Symlinks are followed; subdirectories are skipped.
func ListFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("directory %s: %w", dir, models.ErrNotFound)
		}
		return nil, fmt.Errorf("error reading directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory: %w", dir, models.ErrNotFound)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error reading directory: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		fi, err := os.Stat(path)
		if err != nil {
			// dangling symlink
			continue
		}
		if fi.Mode().IsRegular() {
			files = append(files, path)
		}
	}
	return files, nil
}

// Title recovers the article name from the page <title> by cutting a fixed
// number of trailing characters. The suffix text itself is not checked, so a
// change in the site's title decoration silently yields wrong names.
func Title(doc *goquery.Document, suffixLength int) (string, error) {
	sel := doc.Find("title").First()
	if sel.Length() == 0 {
		return "", fmt.Errorf("no <title> element: %w", models.ErrMalformedDocument)
	}
	return TrimTitle(sel.Text(), suffixLength)
}

// TrimTitle drops the last suffixLength characters of a raw page title.
func TrimTitle(raw string, suffixLength int) (string, error) {
	n := utf8.RuneCountInString(raw)
	if n < suffixLength {
		return "", fmt.Errorf("title %q shorter than suffix length %d: %w", raw, suffixLength, models.ErrMalformedDocument)
	}
	runes := []rune(raw)
	return string(runes[:n-suffixLength]), nil
}
