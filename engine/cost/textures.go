package cost

import (
	"github.com/spaghettifunk/rendercost/engine/core"
	"github.com/spaghettifunk/rendercost/engine/renderer/metadata"
)

const (
	/** @brief Flat cost of every referenced texture. */
	textureBaseCost int64 = 256
	/** @brief Cost per 128 pixels of width plus height. */
	textureResolutionCost float32 = 16
	/** @brief Cost of a texture the resolver does not know about. */
	unresolvedTextureCost int64 = 1

	normalMapMultiplier   uint32 = 2
	specularMapMultiplier uint32 = 3
)

// textureCost is the resolution dependent part shared by both versions.
func textureCost(tex *metadata.Texture) int64 {
	return textureBaseCost + int64(textureResolutionCost*(float32(tex.Height)/128+float32(tex.Width)/128))
}

/**
 * @brief Sums the legacy cost of every texture in the set.
 * Unresolved textures cost unresolvedTextureCost each.
 */
func textureCostsV1(res TextureResolver, ids IDSet) uint32 {
	var total int64
	for id := range ids {
		tex, ok := res.Texture(id)
		if !ok || tex == nil {
			core.LogDebug("texture %s unresolved", id)
			total += unresolvedTextureCost
			continue
		}
		total += textureCost(tex)
	}
	return clampCost(total)
}

/**
 * @brief Sums the revised cost of every texture in the set. A resolved
 * texture is charged more the less it is discarded.
 * @param multiplier Scales every texture of the set.
 */
func textureCostsV2(res TextureResolver, ids IDSet, multiplier uint32) uint32 {
	var total int64
	for id := range ids {
		tex, ok := res.Texture(id)
		if !ok || tex == nil {
			core.LogDebug("texture %s unresolved", id)
			total += unresolvedTextureCost * int64(multiplier)
			continue
		}
		cost := textureCost(tex) + int64(metadata.MaxDiscardLevel-tex.DiscardLevel)
		total += cost * int64(multiplier)
	}
	return clampCost(total)
}

// textureSetCostsV1 charges the sculpt and diffuse sets. Material maps are
// invisible to the legacy formula.
func textureSetCostsV1(res TextureResolver, sets *TextureSets) uint32 {
	return textureCostsV1(res, sets.Sculpt) + textureCostsV1(res, sets.Diffuse)
}

func textureSetCostsV2(res TextureResolver, sets *TextureSets) uint32 {
	return textureCostsV2(res, sets.Sculpt, 1) +
		textureCostsV2(res, sets.Diffuse, 1) +
		textureCostsV2(res, sets.Normal, normalMapMultiplier) +
		textureCostsV2(res, sets.Specular, specularMapMultiplier)
}

func clampCost(total int64) uint32 {
	if total < 0 {
		return 0
	}
	if total > int64(^uint32(0)) {
		return ^uint32(0)
	}
	return uint32(total)
}
