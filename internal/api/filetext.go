package api

import (
	"bytes"
	"crypto/sha256"
	"os"
	"path/filepath"
	"strings"

	"github.com/agilira/go-errors"
)

// ErrCodeIO marks file loading failures.
const ErrCodeIO = "CHECKSTYLE_IO_FAILURE"

// FileText is the raw content of one input file plus the derived line
// index and content digest. Read-only once built.
type FileText struct {
	Path    string
	Content []byte
	Hash    [sha256.Size]byte

	lines []string
}

// NewFileText builds a FileText from in-memory content. A UTF-8 BOM is
// stripped and CRLF line endings are normalized to LF, so line-based
// checks see the same text on every platform.
func NewFileText(path string, content []byte) *FileText {
	content = bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF})
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	text := &FileText{
		Path:    filepath.ToSlash(path),
		Content: content,
		Hash:    sha256.Sum256(content),
	}
	text.lines = strings.Split(string(content), "\n")
	// Завершающий перевод строки не порождает пустую строку.
	if n := len(text.lines); n > 0 && text.lines[n-1] == "" {
		text.lines = text.lines[:n-1]
	}
	return text
}

// LoadFileText reads a file from disk and normalizes it.
func LoadFileText(path string) (*FileText, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- path is provided by the caller
	if err != nil {
		return nil, errors.Wrap(err, ErrCodeIO, "unable to read file "+path)
	}
	return NewFileText(path, content), nil
}

// Lines returns the file content split into lines without terminators.
// Не модифицируйте возвращаемый срез.
func (t *FileText) Lines() []string { return t.lines }

// LineCount returns the number of lines in the file.
func (t *FileText) LineCount() int { return len(t.lines) }

// Size returns the content size in bytes.
func (t *FileText) Size() int64 { return int64(len(t.Content)) }

// Empty reports whether the file contains only whitespace.
func (t *FileText) Empty() bool {
	return len(bytes.TrimSpace(t.Content)) == 0
}
