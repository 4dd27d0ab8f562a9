package metadata

import (
	"fmt"
	"strings"
)

/**
 * @brief The draw pool a face was sorted into by the renderer.
 */
type PoolType int

const (
	PoolSimple PoolType = iota
	PoolGround
	PoolFullbright
	PoolBump
	PoolMaterials
	PoolTree
	PoolAlphaMask
	PoolFullbrightAlphaMask
	PoolSky
	PoolWater
	PoolGlow
	PoolAlpha
)

var poolTypeNames = map[PoolType]string{
	PoolSimple:              "simple",
	PoolGround:              "ground",
	PoolFullbright:          "fullbright",
	PoolBump:                "bump",
	PoolMaterials:           "materials",
	PoolTree:                "tree",
	PoolAlphaMask:           "alpha_mask",
	PoolFullbrightAlphaMask: "fullbright_alpha_mask",
	PoolSky:                 "sky",
	PoolWater:               "water",
	PoolGlow:                "glow",
	PoolAlpha:               "alpha",
}

func (p PoolType) String() string {
	if name, ok := poolTypeNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PoolType(%d)", int(p))
}

// ParsePoolType maps a pool name to its PoolType. The empty string is PoolSimple.
func ParsePoolType(name string) (PoolType, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return PoolSimple, nil
	}
	for p, pn := range poolTypeNames {
		if pn == n {
			return p, nil
		}
	}
	return PoolSimple, fmt.Errorf("unknown pool type %q", name)
}

// Bit layout of TextureEntry.BumpShinyFullbright.
const (
	TextureEntryBumpMask       uint8 = 0x1f
	TextureEntryFullbrightMask uint8 = 0x20
	TextureEntryShinyMask      uint8 = 0xc0
	TextureEntryBumpShinyMask  uint8 = 0xdf
)

/**
 * @brief Per-face render parameters. Bumpmap, shiny and fullbright
 * share one packed byte, see the TextureEntry*Mask constants.
 */
type TextureEntry struct {
	/** @brief Packed bumpmap (bits 0-4), fullbright (bit 5) and shiny (bits 6-7). */
	bumpShinyFullbright uint8
	/** @brief Glow intensity, 0 means no glow. */
	Glow float32
	/** @brief Texture coordinate generation mode, non-zero means planar mapping. */
	TexGen uint8
	/** @brief Optional material parameters. */
	Material *Material
}

func (te *TextureEntry) Bumpmap() uint8 {
	return te.bumpShinyFullbright & TextureEntryBumpMask
}

func (te *TextureEntry) Shiny() uint8 {
	return (te.bumpShinyFullbright & TextureEntryShinyMask) >> 6
}

func (te *TextureEntry) Fullbright() uint8 {
	return (te.bumpShinyFullbright & TextureEntryFullbrightMask) >> 5
}

func (te *TextureEntry) BumpShiny() uint8 {
	return te.bumpShinyFullbright & TextureEntryBumpShinyMask
}

func (te *TextureEntry) BumpShinyFullbright() uint8 {
	return te.bumpShinyFullbright
}

func (te *TextureEntry) SetBumpShinyFullbright(packed uint8) {
	te.bumpShinyFullbright = packed
}

func (te *TextureEntry) SetBumpmap(bump uint8) {
	te.bumpShinyFullbright = (te.bumpShinyFullbright &^ TextureEntryBumpMask) | (bump & TextureEntryBumpMask)
}

func (te *TextureEntry) SetShiny(shiny uint8) {
	te.bumpShinyFullbright = (te.bumpShinyFullbright &^ TextureEntryShinyMask) | ((shiny << 6) & TextureEntryShinyMask)
}

func (te *TextureEntry) SetFullbright(fullbright bool) {
	te.bumpShinyFullbright &^= TextureEntryFullbrightMask
	if fullbright {
		te.bumpShinyFullbright |= TextureEntryFullbrightMask
	}
}
