package metadata

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

/** @brief The highest discard (mip) level a streamed texture can sit at. */
const MaxDiscardLevel int32 = 5

/** @brief Discard level of a texture with no decoded data yet. */
const DiscardLevelNone int32 = -1

type TextureReference struct {
	ReferenceCount uint64
	Handle         uint32
	AutoRelease    bool
}

/**
 * @brief The primary pixel format of a fetched texture.
 */
type TextureFormat int

const (
	TextureFormatUnknown TextureFormat = iota
	/** @brief Single alpha channel. Faces drawn with it outside the alpha pools are treated as invisible. */
	TextureFormatAlpha
	TextureFormatLuminance
	TextureFormatLuminanceAlpha
	TextureFormatRGB
	TextureFormatRGBA
)

var textureFormatNames = map[TextureFormat]string{
	TextureFormatUnknown:        "unknown",
	TextureFormatAlpha:          "alpha",
	TextureFormatLuminance:      "luminance",
	TextureFormatLuminanceAlpha: "luminance_alpha",
	TextureFormatRGB:            "rgb",
	TextureFormatRGBA:           "rgba",
}

func (f TextureFormat) String() string {
	if name, ok := textureFormatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("TextureFormat(%d)", int(f))
}

// ParseTextureFormat maps a format name to its TextureFormat. The empty string is TextureFormatUnknown.
func ParseTextureFormat(name string) (TextureFormat, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return TextureFormatUnknown, nil
	}
	for f, fn := range textureFormatNames {
		if fn == n {
			return f, nil
		}
	}
	return TextureFormatUnknown, fmt.Errorf("unknown texture format %q", name)
}

// TextureFormatFromChannels picks the primary format a decoder reports for the given channel count.
func TextureFormatFromChannels(channels uint8) TextureFormat {
	switch channels {
	case 1:
		return TextureFormatLuminance
	case 2:
		return TextureFormatLuminanceAlpha
	case 3:
		return TextureFormatRGB
	case 4:
		return TextureFormatRGBA
	default:
		return TextureFormatUnknown
	}
}

/** @brief A collection of texture uses */
type TextureUse int

const (
	/** @brief An unknown use. This is default, but should never actually be used. */
	TextureUseUnknown TextureUse = 0x00
	/** @brief The texture is used as a diffuse map. */
	TextureUseMapDiffuse TextureUse = 0x01
	/** @brief The texture is used as a specular map. */
	TextureUseMapSpecular TextureUse = 0x02
	/** @brief The texture is used as a normal map. */
	TextureUseMapNormal TextureUse = 0x03
	/** @brief The texture drives a sculpted prim's shape. */
	TextureUseSculpt TextureUse = 0x04
)

func (u TextureUse) String() string {
	switch u {
	case TextureUseMapDiffuse:
		return "diffuse"
	case TextureUseMapSpecular:
		return "specular"
	case TextureUseMapNormal:
		return "normal"
	case TextureUseSculpt:
		return "sculpt"
	default:
		return "unknown"
	}
}

/**
 * @brief Represents a fetched texture as seen by the cost estimator.
 */
type Texture struct {
	/** @brief The unique texture identifier. */
	ID uuid.UUID
	/** @brief The texture Name, usually the asset path it was probed from. */
	Name string
	/** @brief The full-resolution texture Width. */
	Width uint32
	/** @brief The full-resolution texture Height. */
	Height uint32
	/** @brief The number of channels in the texture. */
	ChannelCount uint8
	/** @brief The primary pixel format. */
	Format TextureFormat
	/** @brief The current streaming discard level, DiscardLevelNone when nothing is decoded. */
	DiscardLevel int32
	/** @brief The texture Generation. Incremented every time the data is reloaded. */
	Generation uint32
}
