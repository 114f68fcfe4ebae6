package images

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/instrumentos-api/internal/domains/reports/ports"
)

func TestFileSystem_Load(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))))

	source := NewFromFS(fstest.MapFS{
		"bateria.png": {Data: buf.Bytes()},
		"notes.txt":   {Data: []byte("plain text")},
	})
	ctx := context.Background()

	img, err := source.Load(ctx, "bateria.png")
	require.NoError(t, err)
	assert.Equal(t, "png", img.Format)
	assert.Equal(t, "bateria.png", img.Name)

	img, err = source.Load(ctx, "../../etc/bateria.png")
	require.NoError(t, err)
	assert.Equal(t, "bateria.png", img.Name)

	_, err = source.Load(ctx, "missing.jpg")
	require.ErrorIs(t, err, ports.ErrImageNotFound)

	_, err = source.Load(ctx, "  ")
	require.ErrorIs(t, err, ports.ErrImageNotFound)

	_, err = source.Load(ctx, "notes.txt")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ports.ErrImageNotFound)
}
