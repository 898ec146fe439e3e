package ooxml

import (
	"archive/zip"
	"bytes"

	"github.com/gaurav-prasanna/docpipe/core"
)

// ArchiveWriter finalizes a completed package tree into container bytes.
// Writers run only after every part has been built, so a failed build never
// leaves a partial archive behind.
type ArchiveWriter interface {
	CreateArchive(p *Package) ([]byte, error)
}

// ZipWriter is the standard deflate-compressed zip archiver.
type ZipWriter struct{}

// CreateArchive writes every entry in insertion order, preserving exact
// relative paths. A failure is reported with the offending entry path.
func (ZipWriter) CreateArchive(p *Package) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, path := range p.Paths() {
		data, _ := p.Get(path)
		w, err := zw.Create(path)
		if err != nil {
			return nil, &core.ArchiveWriteError{Path: path, Err: err}
		}
		if _, err := w.Write(data); err != nil {
			return nil, &core.ArchiveWriteError{Path: path, Err: err}
		}
	}
	if err := zw.Close(); err != nil {
		return nil, &core.ArchiveWriteError{Path: "(central directory)", Err: err}
	}
	return buf.Bytes(), nil
}
