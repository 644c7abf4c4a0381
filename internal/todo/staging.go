package todo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Preview is a locally-held render handle for a staged image. It must be
// released exactly once when the staged file is uploaded, replaced, or
// discarded.
type Preview struct {
	ID   uuid.UUID
	data []byte

	released bool
}

// Data returns the preview bytes, or nil once released.
func (p *Preview) Data() []byte {
	if p == nil || p.released {
		return nil
	}
	return p.data
}

// Released reports whether the handle has been freed.
func (p *Preview) Released() bool {
	return p == nil || p.released
}

// Release frees the handle. Releasing twice is a no-op.
func (p *Preview) Release() {
	if p == nil || p.released {
		return
	}
	p.released = true
	p.data = nil
}

// StagedFile is a locally selected file held in memory pending a create or
// update submission.
type StagedFile struct {
	Name string
	Data []byte
	Kind MediaKind

	preview *Preview
}

// StageFile stages a file for upload. A preview handle is allocated only when
// the name carries an image extension.
func StageFile(name string, data []byte) *StagedFile {
	f := &StagedFile{
		Name: filepath.Base(name),
		Data: data,
		Kind: KindForName(name),
	}
	if f.Kind == KindImage {
		f.preview = &Preview{ID: uuid.New(), data: data}
	}
	return f
}

// StageFileFromPath reads path and stages its contents.
func StageFileFromPath(path string) (*StagedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read attachment: %w", err)
	}
	return StageFile(path, data), nil
}

// Preview returns the render handle, nil for non-image files.
func (f *StagedFile) Preview() *Preview {
	if f == nil {
		return nil
	}
	return f.preview
}

// Release frees the preview handle, if any. Safe on nil.
func (f *StagedFile) Release() {
	if f == nil {
		return
	}
	f.preview.Release()
}
