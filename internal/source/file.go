package source

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
)

// File reads a still image that an external capture tool keeps overwriting.
type File struct {
	path string
}

// NewFile creates a source reading path on every Frame call.
func NewFile(path string) *File {
	return &File{
		path: filepath.Clean(path),
	}
}

// Frame decodes the current contents of the file.
func (f *File) Frame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("frame file %s: %w", f.path, ErrNotReady)
		}

		return nil, fmt.Errorf("open frame file: %w", err)
	}

	defer func() {
		_ = file.Close()
	}()

	img, _, err := image.Decode(file)
	if err != nil {
		// The writer may be half way through replacing the file.
		return nil, fmt.Errorf("decode frame file %s: %w: %w", f.path, ErrNotReady, err)
	}

	return img, nil
}

// Close is a no-op for the file source.
func (f *File) Close() error {
	return nil
}
