package loaders

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/spaghettifunk/rendercost/engine/renderer/metadata"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// TextureLoader probes the header of an image file. Only the dimensions
// and colour model are read, the pixels are never decoded.
type TextureLoader struct{}

func (tl *TextureLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	if assetType != metadata.ResourceTypeImage {
		return nil, fmt.Errorf("texture loader cannot load %s resources", assetType)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}

	cfg, codec, err := image.DecodeConfig(file)
	if err != nil {
		return nil, fmt.Errorf("failed to probe image %s: %w", path, err)
	}
	channels, format := channelsOf(cfg.ColorModel)

	return &metadata.Resource{
		Name:     info.Name(),
		FullPath: path,
		Type:     metadata.ResourceTypeImage,
		DataSize: uint64(info.Size()),
		Data: &metadata.ImageResourceData{
			ChannelCount: channels,
			Width:        uint32(cfg.Width),
			Height:       uint32(cfg.Height),
			Format:       format,
			Codec:        codec,
		},
	}, nil
}

func (tl *TextureLoader) Unload(*metadata.Resource) error {
	return nil
}

// channelsOf maps a colour model to the channel count and primary format
// a texture decoder would report.
func channelsOf(model color.Model) (uint8, metadata.TextureFormat) {
	switch model {
	case color.AlphaModel, color.Alpha16Model:
		return 1, metadata.TextureFormatAlpha
	case color.GrayModel, color.Gray16Model:
		return 1, metadata.TextureFormatLuminance
	case color.YCbCrModel, color.CMYKModel:
		return 3, metadata.TextureFormatRGB
	}
	if palette, ok := model.(color.Palette); ok {
		for _, c := range palette {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return 4, metadata.TextureFormatRGBA
			}
		}
		return 3, metadata.TextureFormatRGB
	}
	return 4, metadata.TextureFormatRGBA
}
