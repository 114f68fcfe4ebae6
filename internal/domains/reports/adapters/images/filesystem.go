package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Apurer/instrumentos-api/internal/domains/reports/domain"
	"github.com/Apurer/instrumentos-api/internal/domains/reports/ports"
)

const maxImageBytes = 10 << 20

var _ ports.ImageSource = (*FileSystem)(nil)

// FileSystem loads instrument images by file name from one directory.
type FileSystem struct {
	root fs.FS
}

// NewFileSystem serves images from dir.
func NewFileSystem(dir string) *FileSystem {
	return &FileSystem{root: os.DirFS(dir)}
}

// NewFromFS serves images from an arbitrary file system.
func NewFromFS(root fs.FS) *FileSystem {
	return &FileSystem{root: root}
}

// Load reads name, ignoring any directory part, and checks that it decodes as an image.
func (s *FileSystem) Load(_ context.Context, name string) (*domain.Image, error) {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return nil, ports.ErrImageNotFound
	}
	data, err := fs.ReadFile(s.root, base)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ports.ErrImageNotFound, base)
		}
		return nil, err
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("image %s exceeds %d bytes", base, maxImageBytes)
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", base, err)
	}
	return &domain.Image{Name: base, Format: format, Data: data}, nil
}
