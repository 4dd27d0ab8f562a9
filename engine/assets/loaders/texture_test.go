package loaders

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/rendercost/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func writeImage(t *testing.T, name string, encode func(w io.Writer) error) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, encode(f))
	return path
}

func translucent(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 255, A: 128})
	return img
}

func TestTextureLoader(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		encode   func(w io.Writer) error
		width    uint32
		height   uint32
		channels uint8
		format   metadata.TextureFormat
		codec    string
	}{
		{
			name:     "translucent png",
			file:     "leaf.png",
			encode:   func(w io.Writer) error { return png.Encode(w, translucent(64, 32)) },
			width:    64,
			height:   32,
			channels: 4,
			format:   metadata.TextureFormatRGBA,
			codec:    "png",
		},
		{
			name:     "grey png",
			file:     "height.png",
			encode:   func(w io.Writer) error { return png.Encode(w, image.NewGray(image.Rect(0, 0, 16, 16))) },
			width:    16,
			height:   16,
			channels: 1,
			format:   metadata.TextureFormatLuminance,
			codec:    "png",
		},
		{
			name: "opaque palette png",
			file: "flag.png",
			encode: func(w io.Writer) error {
				img := image.NewPaletted(image.Rect(0, 0, 8, 4), color.Palette{color.Black, color.White})
				return png.Encode(w, img)
			},
			width:    8,
			height:   4,
			channels: 3,
			format:   metadata.TextureFormatRGB,
			codec:    "png",
		},
		{
			name: "jpeg",
			file: "brick.jpg",
			encode: func(w io.Writer) error {
				return jpeg.Encode(w, image.NewRGBA(image.Rect(0, 0, 128, 256)), nil)
			},
			width:    128,
			height:   256,
			channels: 3,
			format:   metadata.TextureFormatRGB,
			codec:    "jpeg",
		},
		{
			name:     "bmp",
			file:     "sign.bmp",
			encode:   func(w io.Writer) error { return bmp.Encode(w, image.NewRGBA(image.Rect(0, 0, 20, 10))) },
			width:    20,
			height:   10,
			channels: 4,
			format:   metadata.TextureFormatRGBA,
			codec:    "bmp",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeImage(t, tt.file, tt.encode)
			loader := &TextureLoader{}
			res, err := loader.Load(path, metadata.ResourceTypeImage, nil)
			require.NoError(t, err)

			assert.Equal(t, tt.file, res.Name)
			assert.Equal(t, metadata.ResourceTypeImage, res.Type)
			assert.Positive(t, res.DataSize)
			data, ok := res.Data.(*metadata.ImageResourceData)
			require.True(t, ok)
			assert.Equal(t, tt.width, data.Width)
			assert.Equal(t, tt.height, data.Height)
			assert.Equal(t, tt.channels, data.ChannelCount)
			assert.Equal(t, tt.format, data.Format)
			assert.Equal(t, tt.codec, data.Codec)
		})
	}
}

func TestTextureLoaderErrors(t *testing.T) {
	loader := &TextureLoader{}

	_, err := loader.Load(filepath.Join(t.TempDir(), "missing.png"), metadata.ResourceTypeImage, nil)
	assert.Error(t, err)

	path := writeImage(t, "notes.png", func(w io.Writer) error {
		_, err := io.WriteString(w, "not an image")
		return err
	})
	_, err = loader.Load(path, metadata.ResourceTypeImage, nil)
	assert.ErrorIs(t, err, image.ErrFormat)

	_, err = loader.Load(path, metadata.ResourceTypeScene, nil)
	assert.Error(t, err)
}

func TestChannelsOfAlpha(t *testing.T) {
	channels, format := channelsOf(color.AlphaModel)
	assert.Equal(t, uint8(1), channels)
	assert.Equal(t, metadata.TextureFormatAlpha, format)
}
