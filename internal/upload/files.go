// Package upload is the image upload dashboard: choose images and a
// category, tune the processing options, and run the simulated
// classification.
package upload

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
)

// MaxFileSize is the largest accepted image.
const MaxFileSize = 10 << 20

// AcceptedTypes are the image formats the dashboard takes.
var AcceptedTypes = []string{"image/jpeg", "image/png", "image/webp"}

// File is one chosen image.
type File struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	MIME string `json:"type"`
}

// FileError explains why one file was rejected.
type FileError struct {
	Name    string
	Message string
}

// ValidationError lists every rejected file of a selection.
type ValidationError struct {
	Files []FileError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Files))
	for i, f := range e.Files {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "\n")
}

// Check returns the problems with f, if any.
func Check(f File) []FileError {
	var errs []FileError
	mime, _, _ := strings.Cut(f.MIME, ";")
	if !slices.Contains(AcceptedTypes, strings.TrimSpace(mime)) {
		errs = append(errs, FileError{Name: f.Name, Message: fmt.Sprintf("Formato no válido: %s. Solo se permiten JPEG, PNG y WebP.", f.Name)})
	}
	if f.Size > MaxFileSize {
		errs = append(errs, FileError{Name: f.Name, Message: fmt.Sprintf("Archivo muy grande: %s. Máximo 10MB permitido.", f.Name)})
	}
	return errs
}

// Partition splits files into the acceptable ones and a ValidationError for
// the rest. The error is nil when every file is acceptable.
func Partition(files []File) ([]File, error) {
	var valid []File
	verr := &ValidationError{}
	for _, f := range files {
		if errs := Check(f); len(errs) > 0 {
			verr.Files = append(verr.Files, errs...)
			continue
		}
		valid = append(valid, f)
	}
	if len(verr.Files) > 0 {
		return valid, verr
	}
	return valid, nil
}

// Inspect reads the size of a file and sniffs its type from the content,
// ignoring the extension.
func Inspect(fs afero.Fs, name string) (File, error) {
	fh, err := fs.Open(name)
	if err != nil {
		return File{}, fmt.Errorf("open %s: %w", name, err)
	}
	defer fh.Close()

	info, err := fh.Stat()
	if err != nil {
		return File{}, fmt.Errorf("stat %s: %w", name, err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", name)
	}
	mime, err := mimetype.DetectReader(fh)
	if err != nil {
		return File{}, fmt.Errorf("detect type of %s: %w", name, err)
	}
	return File{Name: path.Base(name), Size: info.Size(), MIME: mime.String()}, nil
}

// Label is how the progress indicator names a selection.
func Label(files []File) string {
	if len(files) == 1 {
		return files[0].Name
	}
	return fmt.Sprintf("%d archivos", len(files))
}
