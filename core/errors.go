package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes shared across pipelines.
// Structural failures (missing parts, archive write errors) abort the whole
// operation; per-block failures are recovered locally by the renderers and
// never surface through these.
var (
	// ErrUnsupportedFormat means the requested output format has no pipeline.
	ErrUnsupportedFormat = errors.New("unsupported output format")

	// ErrMissingPart means a template or style resource required to assemble
	// a package could not be constructed.
	ErrMissingPart = errors.New("missing required package part")

	// ErrRenderingFailed means the canvas could not produce a drawable
	// surface, or the flow produced zero pages.
	ErrRenderingFailed = errors.New("rendering failed")

	// ErrInvalidInput means malformed or empty input where content is required.
	ErrInvalidInput = errors.New("invalid input")
)

// ArchiveWriteError reports a container that could not be finalized,
// carrying the archive-relative path of the entry that failed.
type ArchiveWriteError struct {
	Path string
	Err  error
}

func (e *ArchiveWriteError) Error() string {
	return fmt.Sprintf("archive write failed at %q: %v", e.Path, e.Err)
}

func (e *ArchiveWriteError) Unwrap() error { return e.Err }
