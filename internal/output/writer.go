package output

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Writer is the interface for encoded report destinations.
type Writer interface {
	Write(data []byte) error
}

// StreamWriter writes to an io.Writer, typically the command's stdout.
type StreamWriter struct {
	out io.Writer
}

// NewStreamWriter creates a writer that sends output to w.
// If w is nil, os.Stdout is used.
func NewStreamWriter(w io.Writer) *StreamWriter {
	if w == nil {
		w = os.Stdout
	}

	return &StreamWriter{out: w}
}

// Write sends data to the stream.
func (sw *StreamWriter) Write(data []byte) error {
	if _, err := sw.out.Write(data); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}

// FileWriter writes output to a file, creating parent directories as needed.
type FileWriter struct {
	fs     afero.Fs
	path   string
	perm   os.FileMode
	logger *slog.Logger
}

// FileWriterOption configures a FileWriter.
type FileWriterOption func(*FileWriter)

// WithPermissions overrides the default file permissions (0644).
func WithPermissions(perm os.FileMode) FileWriterOption {
	return func(fw *FileWriter) {
		fw.perm = perm
	}
}

// WithLogger sets a logger for the FileWriter.
func WithLogger(logger *slog.Logger) FileWriterOption {
	return func(fw *FileWriter) {
		fw.logger = logger
	}
}

// WithFs replaces the operating system filesystem.
func WithFs(fsys afero.Fs) FileWriterOption {
	return func(fw *FileWriter) {
		fw.fs = fsys
	}
}

// NewFileWriter creates a writer that writes to the specified file path.
func NewFileWriter(path string, opts ...FileWriterOption) *FileWriter {
	fw := &FileWriter{
		fs:     afero.NewOsFs(),
		path:   path,
		perm:   0o644,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(fw)
	}

	return fw
}

// Write creates parent directories and replaces the file with data.
func (fw *FileWriter) Write(data []byte) error {
	dir := filepath.Dir(fw.path)
	if err := fw.fs.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	if exists, _ := afero.Exists(fw.fs, fw.path); exists {
		fw.logger.Debug("overwriting existing file", slog.String("path", fw.path))
	}

	if err := afero.WriteFile(fw.fs, fw.path, data, fw.perm); err != nil {
		return fmt.Errorf("writing file %s: %w", fw.path, err)
	}

	return nil
}

// Path returns the output file path.
func (fw *FileWriter) Path() string {
	return fw.path
}
