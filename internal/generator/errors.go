package generator

import (
	"errors"
	"fmt"
)

var (
	// ErrTemplateNotFound is returned when no template resolves for an id.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrUnresolvedPlaceholder is returned in strict mode when a template
	// still contains a {{NAME}} token with no variable for it.
	ErrUnresolvedPlaceholder = errors.New("unresolved placeholder")

	// ErrWriteFailure is returned when storage rejects a write.
	ErrWriteFailure = errors.New("write failure")
)

// FileError ties a failure to the file being generated.
type FileError struct {
	Path string
	Op   string // render, read, resolve, merge, write
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
