package cost

import "github.com/spaghettifunk/rendercost/engine/renderer/metadata"

// Per object costs and multipliers. They bound how much an object may ask
// the renderer for and must not change between releases of a version.
const (
	particleCost       float32 = 1
	lightCost          float32 = 500
	mediaFaceCost      uint32  = 1500
	glowMultiplier     float32 = 1.5
	bumpMultiplier     float32 = 1.25
	flexiMultiplier    float32 = 5
	shinyMultiplier    float32 = 1.6
	invisiMultiplier   float32 = 1.2
	weightedMultiplier float32 = 1.2
	planarMultiplier   float32 = 1.0
	animTexMultiplier  float32 = 4
	alphaMultiplier    float32 = 4

	legacyTriangleWeight  float32 = 5
	legacyMinimumCost     float32 = 2
	revisedTriangleWeight float32 = 1

	// added once per animated linkset
	animatedLinksetCost float32 = 1000
)

// presence collapses a counter to 1 when it is non-zero. A face attribute
// multiplies the cost once however many faces carry it.
func presence(n uint32) float32 {
	if n > 0 {
		return 1
	}
	return 0
}

func applyMultiplier(cost float32, n uint32, multiplier float32) float32 {
	if p := presence(n); p > 0 {
		return cost * p * multiplier
	}
	return cost
}

/**
 * @brief Applies the face and object modifiers shared by every version to
 * a base triangle cost, multipliers first and surcharges last.
 */
func applyModifiers(cost float32, cd *PrimCostData) float32 {
	// per face
	cost = applyMultiplier(cost, cd.PlanarFaces, planarMultiplier)
	cost = applyMultiplier(cost, cd.AnimatedFaces, animTexMultiplier)
	cost = applyMultiplier(cost, cd.AlphaFaces, alphaMultiplier)
	cost = applyMultiplier(cost, cd.InvisiFaces, invisiMultiplier)
	cost = applyMultiplier(cost, cd.GlowFaces, glowMultiplier)
	cost = applyMultiplier(cost, cd.BumpFaces, bumpMultiplier)
	cost = applyMultiplier(cost, cd.ShinyFaces, shinyMultiplier)

	// per object
	cost = applyMultiplier(cost, cd.WeightedMeshVols, weightedMultiplier)
	cost = applyMultiplier(cost, cd.FlexiVols, flexiMultiplier)

	if cd.ParticleSourceVols > 0 {
		cost += float32(cd.NumParticles) * cd.PartSize * particleCost
	}
	if cd.ProducesLightVols > 0 {
		cost += lightCost
	}
	if cd.MediaFaces > 0 {
		cost += float32(cd.MediaFaces * mediaFaceCost)
	}
	return cost
}

/**
 * @brief The legacy triangle cost of one object.
 * @param cd The collected object data.
 * @return The cost, never below legacyMinimumCost.
 */
func triangleCostsV1(cd *PrimCostData) float32 {
	cost := float32(cd.NumTrianglesV1) * legacyTriangleWeight
	if cost < legacyMinimumCost {
		cost = legacyMinimumCost
	}
	cost = applyModifiers(cost, cd)

	// the animated object streaming surcharge, translated into triangles
	if cd.IsAnimatedObject && cd.IsRootEdit {
		cost = float32(float64(cost) + float64(metadata.AnimatedObjectBaseCost)/0.06*5.0)
	}
	return cost
}

// triangleCostsV2 just counts charged triangles. It carries no animated
// object surcharge.
func triangleCostsV2(cd *PrimCostData) float32 {
	cost := revisedTriangleWeight * float32(cd.NumTrianglesV2)
	return applyModifiers(cost, cd)
}
