// Package export delivers generated files (category exports, classification
// reports) to the user.
package export

import (
	"fmt"
	"path"
	"strings"

	"github.com/spf13/afero"
)

// Sink receives a finished export.
type Sink interface {
	Export(data []byte, mimeType, filename string) error
}

// Func adapts a plain function to Sink.
type Func func(data []byte, mimeType, filename string) error

// Export implements Sink.
func (f Func) Export(data []byte, mimeType, filename string) error {
	return f(data, mimeType, filename)
}

// Error wraps a failed export.
type Error struct {
	Filename string
	Cause    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("export %s: %v", e.Filename, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// FileSink writes exports into a directory on an afero filesystem.
type FileSink struct {
	fs  afero.Fs
	dir string
}

// NewFileSink returns a sink writing under dir. The directory is created on
// first export.
func NewFileSink(fs afero.Fs, dir string) *FileSink {
	return &FileSink{fs: fs, dir: dir}
}

// Dir returns the target directory.
func (s *FileSink) Dir() string { return s.dir }

// Export writes data to dir/filename, replacing an existing file. The mime
// type is not persisted.
func (s *FileSink) Export(data []byte, mimeType, filename string) error {
	name, err := cleanName(filename)
	if err != nil {
		return &Error{Filename: filename, Cause: err}
	}
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return &Error{Filename: filename, Cause: err}
	}
	if err := afero.WriteFile(s.fs, path.Join(s.dir, name), data, 0o644); err != nil {
		return &Error{Filename: filename, Cause: err}
	}
	return nil
}

// cleanName rejects names that would escape the export directory.
func cleanName(filename string) (string, error) {
	name := strings.TrimSpace(filename)
	switch {
	case name == "":
		return "", fmt.Errorf("empty filename")
	case strings.ContainsAny(name, `/\`), name == ".", name == "..":
		return "", fmt.Errorf("filename must not contain a path")
	}
	return name, nil
}

// Recorder keeps exports in memory.
type Recorder struct {
	Files []File
}

// File is one recorded export.
type File struct {
	Name     string
	MimeType string
	Data     []byte
}

// Export implements Sink.
func (r *Recorder) Export(data []byte, mimeType, filename string) error {
	r.Files = append(r.Files, File{Name: filename, MimeType: mimeType, Data: append([]byte(nil), data...)})
	return nil
}
