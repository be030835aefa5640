package store

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	apperrors "github.com/abdul-hamid-achik/floatai/internal/errors"
)

// File is one named plain-text resource. Every operation opens and closes its
// own handle, so nothing is held between commands.
type File struct {
	name string
	path string
}

// NewFile returns the resource name inside dir
func NewFile(dir, name string) *File {
	return &File{name: name, path: filepath.Join(dir, name)}
}

// Name returns the file name, e.g. "memory.txt"
func (f *File) Name() string {
	return f.name
}

// Path returns the full path on disk
func (f *File) Path() string {
	return f.path
}

// ReadAll returns the whole content. A missing file reads as empty.
func (f *File) ReadAll() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", apperrors.FileAccess("read", f.name, err)
	}
	return toValidUTF8(string(data)), nil
}

// ReadTail returns at most the last n runes of the content
func (f *File) ReadTail(n int) (string, error) {
	content, err := f.ReadAll()
	if err != nil || n <= 0 {
		return content, err
	}
	if utf8.RuneCountInString(content) <= n {
		return content, nil
	}
	runes := []rune(content)
	return string(runes[len(runes)-n:]), nil
}

// AppendLine appends text followed by a newline, creating the file if needed.
// The line is written with a single write call.
func (f *File) AppendLine(text string) error {
	line := toValidUTF8(strings.TrimRight(text, "\n")) + "\n"

	fh, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return apperrors.FileAccess("write", f.name, err)
	}
	if _, err := fh.WriteString(line); err != nil {
		_ = fh.Close()
		return apperrors.FileAccess("write", f.name, err)
	}
	if err := fh.Close(); err != nil {
		return apperrors.FileAccess("write", f.name, err)
	}
	return nil
}

// Append writes text as-is at the end of the file, for multi-line blocks
func (f *File) Append(text string) error {
	fh, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return apperrors.FileAccess("write", f.name, err)
	}
	if _, err := fh.WriteString(toValidUTF8(text)); err != nil {
		_ = fh.Close()
		return apperrors.FileAccess("write", f.name, err)
	}
	if err := fh.Close(); err != nil {
		return apperrors.FileAccess("write", f.name, err)
	}
	return nil
}

// Overwrite replaces the content. The new content is written to a temp file
// in the same directory and renamed over the old one, so readers see either
// the old or the new content.
func (f *File) Overwrite(text string) error {
	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, "."+f.name+".*.tmp")
	if err != nil {
		return apperrors.FileAccess("write", f.name, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(toValidUTF8(text)); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return apperrors.FileAccess("write", f.name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return apperrors.FileAccess("write", f.name, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		_ = os.Remove(tmpPath)
		return apperrors.FileAccess("write", f.name, err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		_ = os.Remove(tmpPath)
		return apperrors.FileAccess("write", f.name, err)
	}
	return nil
}

// Truncate empties the file, creating it if needed. Truncating an empty or
// missing file is not an error.
func (f *File) Truncate() error {
	fh, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return apperrors.FileAccess("clear", f.name, err)
	}
	if err := fh.Close(); err != nil {
		return apperrors.FileAccess("clear", f.name, err)
	}
	return nil
}

// checkWritable opens the file for writing without changing it
func (f *File) checkWritable(op string) error {
	fh, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return apperrors.FileAccess(op, f.name, err)
	}
	if err := fh.Close(); err != nil {
		return apperrors.FileAccess(op, f.name, err)
	}
	return nil
}

func toValidUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "�")
}
