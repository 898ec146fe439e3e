// Package output handles file naming and writing for docpipe outputs.
// Filenames derive from the input path or URL: the base name keeps its
// place and only the extension changes; sidecar files add their suffix
// before the extension.
package output

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// Write stores data under the name derived from the input source with the
// renderer's extension. It returns the full path written.
func (w *Writer) Write(source string, data []byte, ext string) (string, error) {
	path := filepath.Join(w.OutputDir, BaseName(source)+ext)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// WriteSidecar stores a companion file next to the main output, e.g. the
// ".formatting.json" record emitted by an import.
func (w *Writer) WriteSidecar(source string, data []byte, suffix string) (string, error) {
	path := filepath.Join(w.OutputDir, BaseName(source)+suffix)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// BaseName derives the output stem from a local path or URL: the final path
// element without its extension, sanitized. An empty or root path becomes
// "index".
func BaseName(source string) string {
	name := source
	if u, err := url.Parse(source); err == nil && u.Scheme != "" {
		name = strings.Trim(u.Path, "/")
		if name == "" {
			name = u.Host
		}
	}
	name = filepath.Base(name)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" || name == "." || name == "/" {
		return "index"
	}
	return sanitize(name)
}

// sanitize replaces filesystem-hostile characters with underscores.
func sanitize(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') ||
			ch == '-' || ch == '_' || ch == '.' {
			b.WriteRune(ch)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
